package appointments

import (
	"context"
	"fmt"

	"clinic-booking/internal/database"

	"github.com/google/uuid"
)

const (
	findDoctorQuery        = "SELECT id, name, specialty, availability_from_weekday, availability_to_weekday, availability_from_time, availability_to_time, appointment_price_in_cents FROM tb_doctor WHERE clinic_id = $1 AND uuid = $2"
	findPatientQuery       = "SELECT id, name FROM tb_patient WHERE clinic_id = $1 AND uuid = $2"
	insertAppointmentQuery = "INSERT INTO tb_appointment (uuid, clinic_id, doctor_id, patient_id, date, time, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())"
	listAppointmentsQuery  = "SELECT a.id, a.uuid, a.date, a.time, a.status, p.name AS patient_name, d.name AS doctor_name, d.specialty AS doctor_specialty, d.appointment_price_in_cents FROM tb_appointment a INNER JOIN tb_patient p ON p.id = a.patient_id INNER JOIN tb_doctor d ON d.id = a.doctor_id WHERE a.clinic_id = $1 ORDER BY a.date DESC, a.time DESC, a.id DESC"
)

// Repository provides access to booking data.
type Repository interface {

	// FindDoctor finds a doctor of the clinic by its UUID.
	FindDoctor(ctx context.Context, clinicID int64, uuid uuid.UUID) (*Doctor, error)

	// FindPatient finds a patient of the clinic by its UUID.
	FindPatient(ctx context.Context, clinicID int64, uuid uuid.UUID) (*Patient, error)

	// InsertAppointment inserts a new appointment.
	InsertAppointment(ctx context.Context, appointment Appointment) error

	// ListAppointments lists the appointments of the clinic, most recent first.
	ListAppointments(ctx context.Context, clinicID int64) ([]*Entry, error)
}

type defaultRepository struct {
	dbConn database.Connection
}

func newRepository(dbConn database.Connection) Repository {
	return &defaultRepository{dbConn: dbConn}
}

// findOne runs a query expected to return at most one row, transforming it into model. It reports
// whether a row was found.
func (d defaultRepository) findOne(ctx context.Context, query string, model interface{}, params ...interface{}) (bool, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, query, params...)
	if err != nil {
		return false, err
	}
	defer database.CloseRows(rows)
	if !rows.Next() {
		return false, rows.Err()
	}
	if err = database.TransformRow(rows, model); err != nil {
		return false, err
	}
	return true, nil
}

func (d defaultRepository) FindDoctor(ctx context.Context, clinicID int64, uuid uuid.UUID) (*Doctor, error) {
	doctor := new(Doctor)
	found, err := d.findOne(ctx, findDoctorQuery, doctor, clinicID, uuid)
	if err != nil || !found {
		return nil, err
	}
	return doctor, nil
}

func (d defaultRepository) FindPatient(ctx context.Context, clinicID int64, uuid uuid.UUID) (*Patient, error) {
	patient := new(Patient)
	found, err := d.findOne(ctx, findPatientQuery, patient, clinicID, uuid)
	if err != nil || !found {
		return nil, err
	}
	return patient, nil
}

func (d defaultRepository) InsertAppointment(ctx context.Context, appointment Appointment) error {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	params := make([]interface{}, 7)
	params[0] = appointment.UUID
	params[1] = appointment.ClinicID
	params[2] = appointment.DoctorID
	params[3] = appointment.PatientID
	params[4] = appointment.Date
	params[5] = appointment.Time.Time()
	params[6] = appointment.Status
	result, err := d.dbConn.DB().ExecContext(ctx, insertAppointmentQuery, params...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("appointment not inserted")
	}
	return nil
}

func (d defaultRepository) ListAppointments(ctx context.Context, clinicID int64) ([]*Entry, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, listAppointmentsQuery, clinicID)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	entries := make([]*Entry, 0)
	for rows.Next() {
		entry := new(Entry)
		if err = database.TransformRow(rows, entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
