// Package clinics contains handlers, services and structures used to manage the clinics and to
// resolve the clinic every other request is scoped to.
package clinics

import (
	"context"
	"fmt"
	"strings"

	"clinic-booking/internal/auth"
	"clinic-booking/internal/database"

	"github.com/google/uuid"
)

// Locator resolves the clinic a user works for.
type Locator interface {

	// FindUserClinic returns the first clinic associated to the user, or nil if there is none.
	FindUserClinic(ctx context.Context, user auth.User) (*Clinic, error)
}

// Service determines the methods used to manage clinics.
type Service interface {
	Locator

	// Create creates a clinic owned by the user and associates the user with it.
	Create(ctx context.Context, user auth.User, request ClinicRequest) (*Clinic, error)

	// List lists the clinics the user is associated with.
	List(ctx context.Context, user auth.User) ([]*Clinic, error)
}

type defaultService struct {
	repository Repository
}

// NewService creates a new clinics service.
func NewService(dbConn database.Connection) Service {
	return &defaultService{repository: newRepository(dbConn)}
}

func (d defaultService) Create(ctx context.Context, user auth.User, request ClinicRequest) (*Clinic, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	clinic := Clinic{
		UUID:   uuid.New(),
		UserID: user.ID,
		Name:   strings.TrimSpace(request.Name),
	}
	id, err := d.repository.InsertClinic(ctx, clinic)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	clinic.ID = id
	return &clinic, nil
}

func (d defaultService) List(ctx context.Context, user auth.User) ([]*Clinic, error) {
	clinics, err := d.repository.ListUserClinics(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return clinics, nil
}

func (d defaultService) FindUserClinic(ctx context.Context, user auth.User) (*Clinic, error) {
	clinic, err := d.repository.FindUserClinic(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return clinic, nil
}
