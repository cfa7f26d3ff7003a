// Package appointments contains handlers, services and structures used to book appointments and to
// list the clinic agenda.
package appointments

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/availability"
	"clinic-booking/internal/clinics"
	"clinic-booking/internal/configs"
	"clinic-booking/internal/database"
	"clinic-booking/internal/metrics"

	"github.com/google/uuid"
)

// Reader determines the methods available to read the clinic agenda.
type Reader interface {

	// List lists the appointments of the clinic formatted for the agenda.
	List(ctx context.Context, clinic clinics.Clinic) ([]EntryView, error)
}

// Writer determines the methods available to book appointments.
type Writer interface {

	// Create books an appointment in the clinic associated to the context.
	Create(ctx context.Context, request AppointmentRequest) (*Appointment, error)
}

// Service determines the methods used to manage the clinic appointments.
type Service interface {
	Reader
	Writer
}

type defaultService struct {
	repository Repository
	validator  availability.Validator
}

// NewService creates a new appointments service, checking the doctors' availability with the
// weekday ordering configured.
func NewService(config configs.Config, dbConn database.Connection) (Service, error) {
	ordering, err := availability.ParseOrdering(config.WeekdayOrdering())
	if err != nil {
		return nil, err
	}
	return &defaultService{
		repository: newRepository(dbConn),
		validator:  availability.NewValidator(ordering),
	}, nil
}

// Create validates the request, resolves the clinic, the doctor and the patient, checks the doctor's
// availability and only then inserts the appointment. The first failing step answers the request.
func (d defaultService) Create(ctx context.Context, request AppointmentRequest) (*Appointment, error) {
	appointment, err := request.Appointment()
	if err != nil {
		return nil, err
	}
	clinic, err := clinics.Required(ctx)
	if err != nil {
		return nil, err
	}
	doctor, err := d.repository.FindDoctor(ctx, clinic.ID, appointment.DoctorUUID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if doctor == nil {
		return nil, apierrors.NewAPIError(apierrors.WithDetail(ErrDoctorNotFound), apierrors.WithHTTPStatusCode(http.StatusNotFound))
	}
	patient, err := d.repository.FindPatient(ctx, clinic.ID, appointment.PatientUUID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	if patient == nil {
		return nil, apierrors.NewAPIError(apierrors.WithDetail(ErrPatientNotFound), apierrors.WithHTTPStatusCode(http.StatusNotFound))
	}
	if err = d.validator.Check(doctor.Window(), appointment.Date, appointment.Time); err != nil {
		var reason availability.Error
		if errors.As(err, &reason) {
			metrics.AppointmentRejected(reason.Error())
		}
		return nil, apierrors.NewAPIError(apierrors.WithDetail(err.Error()), apierrors.WithHTTPStatusCode(http.StatusBadRequest))
	}
	appointment.UUID = uuid.New()
	appointment.ClinicID = clinic.ID
	appointment.DoctorID = doctor.ID
	appointment.PatientID = patient.ID
	if err = d.repository.InsertAppointment(ctx, *appointment); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apierrors.NewAPIError(apierrors.WithDetail(ErrSlotTaken), apierrors.WithHTTPStatusCode(http.StatusConflict))
		}
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	metrics.AppointmentCreated(appointment.Status)
	return appointment, nil
}

func (d defaultService) List(ctx context.Context, clinic clinics.Clinic) ([]EntryView, error) {
	entries, err := d.repository.ListAppointments(ctx, clinic.ID)
	if err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	views := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entry.View())
	}
	return views, nil
}
