// Package doctors contains handlers, services and structures used to manage the doctors of a clinic
// and their weekly availability.
package doctors

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/auth"
	"clinic-booking/internal/clinics"
	"clinic-booking/internal/database"

	"github.com/google/uuid"
)

// Reader determines the methods available to read doctors.
type Reader interface {

	// List lists the doctors of the clinic.
	List(ctx context.Context, clinic clinics.Clinic) ([]*Doctor, error)
}

// Writer determines the methods available to register and change doctors.
type Writer interface {

	// Create registers a doctor in the clinic.
	Create(ctx context.Context, user auth.User, clinic clinics.Clinic, request DoctorRequest) (*Doctor, error)

	// Update changes the doctor identified by doctorUUID in the clinic.
	Update(ctx context.Context, clinic clinics.Clinic, doctorUUID uuid.UUID, request DoctorRequest) (*Doctor, error)
}

type Service interface {
	Reader
	Writer
}

type defaultService struct {
	repository Repository
}

// NewService creates a new doctors service.
func NewService(dbConn database.Connection) Service {
	return &defaultService{repository: newRepository(dbConn)}
}

// apply copies the validated request into the doctor.
func apply(doctor *Doctor, request DoctorRequest) error {
	window, err := request.Validate()
	if err != nil {
		return err
	}
	doctor.Name = strings.TrimSpace(request.Name)
	doctor.Specialty = strings.TrimSpace(request.Specialty)
	doctor.AvatarImageURL = request.AvatarImageURL
	if doctor.AvatarImageURL != nil && *doctor.AvatarImageURL == "" {
		doctor.AvatarImageURL = nil
	}
	doctor.FromWeekday = string(window.FromWeekday)
	doctor.ToWeekday = string(window.ToWeekday)
	doctor.FromTime = window.FromTime.Time()
	doctor.ToTime = window.ToTime.Time()
	doctor.PriceInCents = request.PriceInCents()
	return nil
}

func (d defaultService) List(ctx context.Context, clinic clinics.Clinic) ([]*Doctor, error) {
	doctors, err := d.repository.ListDoctors(ctx, clinic.ID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return doctors, nil
}

func (d defaultService) Create(ctx context.Context, user auth.User, clinic clinics.Clinic, request DoctorRequest) (*Doctor, error) {
	doctor := &Doctor{UUID: uuid.New(), ClinicID: clinic.ID}
	if err := apply(doctor, request); err != nil {
		return nil, err
	}
	if err := d.repository.InsertDoctor(ctx, user.ID, *doctor); err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return doctor, nil
}

func (d defaultService) Update(ctx context.Context, clinic clinics.Clinic, doctorUUID uuid.UUID, request DoctorRequest) (*Doctor, error) {
	doctor, err := d.repository.FindDoctorByUUID(ctx, clinic.ID, doctorUUID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if doctor == nil {
		return nil, apierrors.NewAPIError(apierrors.WithDetail(ErrDoctorNotFound), apierrors.WithHTTPStatusCode(http.StatusNotFound))
	}
	if err = apply(doctor, request); err != nil {
		return nil, err
	}
	if err = d.repository.UpdateDoctor(ctx, *doctor); err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return doctor, nil
}
