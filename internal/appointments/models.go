package appointments

import (
	"strings"
	"time"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/availability"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"

	dateLayout = "2006-01-02"
)

var statuses = []string{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

type Appointment struct {
	ID          int64
	UUID        uuid.UUID
	ClinicID    int64
	DoctorUUID  uuid.UUID
	DoctorID    int64
	PatientUUID uuid.UUID
	PatientID   int64
	Date        time.Time
	Time        availability.Clock
	Status      string
}

// AppointmentView is the representation of a created appointment exposed to the clients.
type AppointmentView struct {
	UUID      uuid.UUID `json:"uuid"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    string    `json:"status"`
}

func (a Appointment) View() AppointmentView {
	return AppointmentView{
		UUID:      a.UUID,
		DoctorID:  a.DoctorUUID,
		PatientID: a.PatientUUID,
		Date:      a.Date.Format(dateLayout),
		Time:      a.Time.String(),
		Status:    a.Status,
	}
}

// Doctor is the part of a doctor needed to book and to list appointments.
type Doctor struct {
	ID           int64     `dbfield:"id"`
	Name         string    `dbfield:"name"`
	Specialty    string    `dbfield:"specialty"`
	FromWeekday  string    `dbfield:"availability_from_weekday"`
	ToWeekday    string    `dbfield:"availability_to_weekday"`
	FromTime     time.Time `dbfield:"availability_from_time"`
	ToTime       time.Time `dbfield:"availability_to_time"`
	PriceInCents int64     `dbfield:"appointment_price_in_cents"`
}

// Window returns the doctor's declared availability. Weekdays are taken as stored, lower-cased,
// so records written before weekday names were validated are compared as they are.
func (d Doctor) Window() availability.Window {
	return availability.Window{
		FromWeekday: availability.Weekday(strings.ToLower(strings.TrimSpace(d.FromWeekday))),
		ToWeekday:   availability.Weekday(strings.ToLower(strings.TrimSpace(d.ToWeekday))),
		FromTime:    availability.ClockOf(d.FromTime),
		ToTime:      availability.ClockOf(d.ToTime),
	}
}

type Patient struct {
	ID   int64  `dbfield:"id"`
	Name string `dbfield:"name"`
}

// AppointmentRequest holds the data needed to book an appointment. Doctor and patient are
// referenced by their UUIDs.
type AppointmentRequest struct {
	DoctorID  string `json:"doctor_id"`
	PatientID string `json:"patient_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    string `json:"status"`
}

// Appointment validates the request and converts it to an appointment.
func (r AppointmentRequest) Appointment() (*Appointment, error) {
	if strings.TrimSpace(r.DoctorID) == "" || strings.TrimSpace(r.PatientID) == "" ||
		strings.TrimSpace(r.Date) == "" || strings.TrimSpace(r.Time) == "" || strings.TrimSpace(r.Status) == "" {
		return nil, apierrors.NewAPIError(apierrors.WithDetail(ErrMissingFields))
	}
	doctorUUID, err := uuid.Parse(strings.TrimSpace(r.DoctorID))
	if err != nil {
		return nil, apierrors.NewValidationError("doctor_id", "invalid")
	}
	patientUUID, err := uuid.Parse(strings.TrimSpace(r.PatientID))
	if err != nil {
		return nil, apierrors.NewValidationError("patient_id", "invalid")
	}
	date, err := availability.ParseDate(r.Date)
	if err != nil {
		return nil, apierrors.NewValidationError("date", err.Error())
	}
	clock, err := availability.ParseClock(r.Time)
	if err != nil {
		return nil, apierrors.NewValidationError("time", err.Error())
	}
	status := strings.ToLower(strings.TrimSpace(r.Status))
	if !validStatus(status) {
		return nil, apierrors.NewValidationError("status", "invalid")
	}
	return &Appointment{
		DoctorUUID:  doctorUUID,
		PatientUUID: patientUUID,
		Date:        date,
		Time:        clock,
		Status:      status,
	}, nil
}

func validStatus(status string) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Entry is an appointment joined with its patient and doctor, as stored.
type Entry struct {
	ID           int64     `dbfield:"id"`
	UUID         uuid.UUID `dbfield:"uuid"`
	Date         time.Time `dbfield:"date"`
	Time         time.Time `dbfield:"time"`
	Status       string    `dbfield:"status"`
	PatientName  string    `dbfield:"patient_name"`
	DoctorName   string    `dbfield:"doctor_name"`
	Specialty    string    `dbfield:"doctor_specialty"`
	PriceInCents int64     `dbfield:"appointment_price_in_cents"`
}

// EntryView is an appointment formatted for the clinic agenda.
type EntryView struct {
	UUID      uuid.UUID `json:"uuid"`
	Patient   string    `json:"patient"`
	Doctor    string    `json:"doctor"`
	Specialty string    `json:"specialty"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Value     float64   `json:"value"`
	Status    string    `json:"status"`
}

// View formats the entry. Cancelled appointments are worth nothing.
func (e Entry) View() EntryView {
	value := float64(e.PriceInCents) / 100
	if e.Status == StatusCancelled {
		value = 0
	}
	return EntryView{
		UUID:      e.UUID,
		Patient:   e.PatientName,
		Doctor:    "Dr. " + e.DoctorName,
		Specialty: e.Specialty,
		Date:      e.Date.Format(dateLayout),
		Time:      availability.ClockOf(e.Time).String(),
		Value:     value,
		Status:    e.Status,
	}
}
