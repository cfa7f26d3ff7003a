// Package patients contains handlers, services and structures used to manage the patients of a
// clinic.
package patients

import (
	"context"
	"fmt"
	"net/http"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/auth"
	"clinic-booking/internal/clinics"
	"clinic-booking/internal/configs"
	"clinic-booking/internal/database"

	"github.com/google/uuid"
)

// Service determines the methods used to manage patients.
type Service interface {

	// List lists the patients of the clinic.
	List(ctx context.Context, clinic clinics.Clinic) ([]*Patient, error)

	// Create registers a patient in the clinic.
	Create(ctx context.Context, user auth.User, clinic clinics.Clinic, request PatientRequest) (*Patient, error)

	// Update changes the patient identified by patientUUID in the clinic.
	Update(ctx context.Context, clinic clinics.Clinic, patientUUID uuid.UUID, request PatientRequest) (*Patient, error)

	// Delete removes the patient identified by patientUUID from the clinic.
	Delete(ctx context.Context, clinic clinics.Clinic, patientUUID uuid.UUID) error
}

type defaultService struct {
	repository Repository
	config     configs.Config
}

// NewService creates a new patients service.
func NewService(config configs.Config, dbConn database.Connection) Service {
	return &defaultService{
		config:     config,
		repository: newRepository(dbConn),
	}
}

func notFound() error {
	return apierrors.NewAPIError(apierrors.WithDetail(ErrPatientNotFound), apierrors.WithHTTPStatusCode(http.StatusNotFound))
}

func (d defaultService) List(ctx context.Context, clinic clinics.Clinic) ([]*Patient, error) {
	patients, err := d.repository.ListPatients(ctx, clinic.ID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return patients, nil
}

func (d defaultService) Create(ctx context.Context, user auth.User, clinic clinics.Clinic, request PatientRequest) (*Patient, error) {
	patient, err := request.Patient(d.config.PhoneRegion())
	if err != nil {
		return nil, err
	}
	patient.UUID = uuid.New()
	patient.ClinicID = clinic.ID
	if err = d.repository.InsertPatient(ctx, user.ID, *patient); err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	return patient, nil
}

func (d defaultService) Update(ctx context.Context, clinic clinics.Clinic, patientUUID uuid.UUID, request PatientRequest) (*Patient, error) {
	patient, err := request.Patient(d.config.PhoneRegion())
	if err != nil {
		return nil, err
	}
	patient.UUID = patientUUID
	patient.ClinicID = clinic.ID
	updated, err := d.repository.UpdatePatient(ctx, *patient)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if !updated {
		return nil, notFound()
	}
	return patient, nil
}

func (d defaultService) Delete(ctx context.Context, clinic clinics.Clinic, patientUUID uuid.UUID) error {
	deleted, err := d.repository.DeletePatient(ctx, clinic.ID, patientUUID)
	if err != nil {
		return fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if !deleted {
		return notFound()
	}
	return nil
}
