package doctors

import (
	"context"
	"fmt"

	"clinic-booking/internal/database"

	"github.com/google/uuid"
)

const (
	doctorColumns         = "id, uuid, clinic_id, name, specialty, avatar_image_url, availability_from_weekday, availability_to_weekday, availability_from_time, availability_to_time, appointment_price_in_cents"
	listDoctorsQuery      = "SELECT " + doctorColumns + " FROM tb_doctor WHERE clinic_id = $1 ORDER BY name, id"
	findDoctorByUUIDQuery = "SELECT " + doctorColumns + " FROM tb_doctor WHERE clinic_id = $1 AND uuid = $2"
	insertDoctorQuery     = "INSERT INTO tb_doctor (uuid, user_id, clinic_id, name, specialty, avatar_image_url, availability_from_weekday, availability_to_weekday, availability_from_time, availability_to_time, appointment_price_in_cents, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())"
	updateDoctorQuery     = "UPDATE tb_doctor SET name = $3, specialty = $4, avatar_image_url = $5, availability_from_weekday = $6, availability_to_weekday = $7, availability_from_time = $8, availability_to_time = $9, appointment_price_in_cents = $10, updated_at = now() WHERE clinic_id = $1 AND uuid = $2"
)

// Repository provides access to doctors data.
type Repository interface {

	// ListDoctors lists the doctors of the clinic.
	ListDoctors(ctx context.Context, clinicID int64) ([]*Doctor, error)

	// FindDoctorByUUID finds a doctor of the clinic by its UUID.
	FindDoctorByUUID(ctx context.Context, clinicID int64, uuid uuid.UUID) (*Doctor, error)

	// InsertDoctor inserts a new doctor registered by the given user.
	InsertDoctor(ctx context.Context, userID int64, doctor Doctor) error

	// UpdateDoctor updates the doctor identified by its clinic and UUID.
	UpdateDoctor(ctx context.Context, doctor Doctor) error
}

type defaultRepository struct {
	dbConn database.Connection
}

func newRepository(dbConn database.Connection) Repository {
	return &defaultRepository{dbConn: dbConn}
}

func (d defaultRepository) ListDoctors(ctx context.Context, clinicID int64) ([]*Doctor, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, listDoctorsQuery, clinicID)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	doctors := make([]*Doctor, 0)
	for rows.Next() {
		doctor := new(Doctor)
		if err = database.TransformRow(rows, doctor); err != nil {
			return nil, err
		}
		doctors = append(doctors, doctor)
	}
	return doctors, rows.Err()
}

func (d defaultRepository) FindDoctorByUUID(ctx context.Context, clinicID int64, uuid uuid.UUID) (*Doctor, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, findDoctorByUUIDQuery, clinicID, uuid)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	if !rows.Next() {
		return nil, rows.Err()
	}
	doctor := new(Doctor)
	if err = database.TransformRow(rows, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (d defaultRepository) InsertDoctor(ctx context.Context, userID int64, doctor Doctor) error {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	params := make([]interface{}, 11)
	params[0] = doctor.UUID
	params[1] = userID
	params[2] = doctor.ClinicID
	params[3] = doctor.Name
	params[4] = doctor.Specialty
	params[5] = doctor.AvatarImageURL
	params[6] = doctor.FromWeekday
	params[7] = doctor.ToWeekday
	params[8] = doctor.FromTime
	params[9] = doctor.ToTime
	params[10] = doctor.PriceInCents
	result, err := d.dbConn.DB().ExecContext(ctx, insertDoctorQuery, params...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("doctor not inserted")
	}
	return nil
}

func (d defaultRepository) UpdateDoctor(ctx context.Context, doctor Doctor) error {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	params := make([]interface{}, 10)
	params[0] = doctor.ClinicID
	params[1] = doctor.UUID
	params[2] = doctor.Name
	params[3] = doctor.Specialty
	params[4] = doctor.AvatarImageURL
	params[5] = doctor.FromWeekday
	params[6] = doctor.ToWeekday
	params[7] = doctor.FromTime
	params[8] = doctor.ToTime
	params[9] = doctor.PriceInCents
	_, err := d.dbConn.DB().ExecContext(ctx, updateDoctorQuery, params...)
	return err
}
