package patients

import (
	"context"
	"fmt"

	"clinic-booking/internal/database"

	"github.com/google/uuid"
)

const (
	patientColumns         = "id, uuid, clinic_id, name, email, phone, sex, rg, cpf, birth_date, address, city, state"
	listPatientsQuery      = "SELECT " + patientColumns + " FROM tb_patient WHERE clinic_id = $1 ORDER BY name, id"
	findPatientByUUIDQuery = "SELECT " + patientColumns + " FROM tb_patient WHERE clinic_id = $1 AND uuid = $2"
	insertPatientQuery     = "INSERT INTO tb_patient (uuid, user_id, clinic_id, name, email, phone, sex, rg, cpf, birth_date, address, city, state, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())"
	updatePatientQuery     = "UPDATE tb_patient SET name = $3, email = $4, phone = $5, sex = $6, rg = $7, cpf = $8, birth_date = $9, address = $10, city = $11, state = $12, updated_at = now() WHERE clinic_id = $1 AND uuid = $2"
	deletePatientQuery     = "DELETE FROM tb_patient WHERE clinic_id = $1 AND uuid = $2"
)

// Repository provides access to patients data.
type Repository interface {

	// ListPatients lists the patients of the clinic.
	ListPatients(ctx context.Context, clinicID int64) ([]*Patient, error)

	// FindPatientByUUID finds a patient of the clinic by its UUID.
	FindPatientByUUID(ctx context.Context, clinicID int64, uuid uuid.UUID) (*Patient, error)

	// InsertPatient inserts a new patient registered by the given user.
	InsertPatient(ctx context.Context, userID int64, patient Patient) error

	// UpdatePatient updates the patient identified by its clinic and UUID, reporting whether it exists.
	UpdatePatient(ctx context.Context, patient Patient) (bool, error)

	// DeletePatient deletes the patient identified by its clinic and UUID, reporting whether it existed.
	DeletePatient(ctx context.Context, clinicID int64, uuid uuid.UUID) (bool, error)
}

type defaultRepository struct {
	dbConn database.Connection
}

func newRepository(dbConn database.Connection) Repository {
	return &defaultRepository{dbConn: dbConn}
}

func (d defaultRepository) ListPatients(ctx context.Context, clinicID int64) ([]*Patient, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, listPatientsQuery, clinicID)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	patients := make([]*Patient, 0)
	for rows.Next() {
		patient := new(Patient)
		if err = database.TransformRow(rows, patient); err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}
	return patients, rows.Err()
}

func (d defaultRepository) FindPatientByUUID(ctx context.Context, clinicID int64, uuid uuid.UUID) (*Patient, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, findPatientByUUIDQuery, clinicID, uuid)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	if !rows.Next() {
		return nil, rows.Err()
	}
	patient := new(Patient)
	if err = database.TransformRow(rows, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (d defaultRepository) InsertPatient(ctx context.Context, userID int64, patient Patient) error {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	params := []interface{}{
		patient.UUID, userID, patient.ClinicID, patient.Name, patient.Email, patient.Phone, patient.Sex,
		patient.RG, patient.CPF, patient.BirthDate, patient.Address, patient.City, patient.State,
	}
	result, err := d.dbConn.DB().ExecContext(ctx, insertPatientQuery, params...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("patient not inserted")
	}
	return nil
}

func (d defaultRepository) UpdatePatient(ctx context.Context, patient Patient) (bool, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	params := []interface{}{
		patient.ClinicID, patient.UUID, patient.Name, patient.Email, patient.Phone, patient.Sex,
		patient.RG, patient.CPF, patient.BirthDate, patient.Address, patient.City, patient.State,
	}
	result, err := d.dbConn.DB().ExecContext(ctx, updatePatientQuery, params...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (d defaultRepository) DeletePatient(ctx context.Context, clinicID int64, uuid uuid.UUID) (bool, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	result, err := d.dbConn.DB().ExecContext(ctx, deletePatientQuery, clinicID, uuid)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
