package clinics

import (
	"context"
	"database/sql"
	"fmt"

	"clinic-booking/internal/database"
)

const (
	insertClinicQuery     = "INSERT INTO tb_clinic (uuid, user_id, name, created_at, updated_at) VALUES ($1, $2, $3, now(), now()) RETURNING id"
	insertUserClinicQuery = "INSERT INTO tb_user_clinic (user_id, clinic_id, created_at, updated_at) VALUES ($1, $2, now(), now())"
	listUserClinicsQuery  = "SELECT c.id, c.uuid, c.user_id, c.name FROM tb_clinic c INNER JOIN tb_user_clinic uc ON uc.clinic_id = c.id WHERE uc.user_id = $1 ORDER BY uc.created_at, c.id"
	findUserClinicQuery   = "SELECT c.id, c.uuid, c.user_id, c.name FROM tb_clinic c INNER JOIN tb_user_clinic uc ON uc.clinic_id = c.id WHERE uc.user_id = $1 ORDER BY uc.created_at, c.id LIMIT 1"
)

// Repository provides access to clinic data.
type Repository interface {

	// InsertClinic inserts a new clinic and associates its owner with it, returning the clinic ID.
	InsertClinic(ctx context.Context, clinic Clinic) (int64, error)

	// ListUserClinics lists the clinics the user is associated with.
	ListUserClinics(ctx context.Context, userID int64) ([]*Clinic, error)

	// FindUserClinic finds the first clinic the user is associated with.
	FindUserClinic(ctx context.Context, userID int64) (*Clinic, error)
}

type defaultRepository struct {
	dbConn database.Connection
}

func newRepository(dbConn database.Connection) Repository {
	return &defaultRepository{dbConn: dbConn}
}

func (d defaultRepository) InsertClinic(ctx context.Context, clinic Clinic) (int64, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	var clinicID int64
	err := database.WithTx(ctx, d.dbConn.DB(), func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, insertClinicQuery, clinic.UUID, clinic.UserID, clinic.Name).Scan(&clinicID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, insertUserClinicQuery, clinic.UserID, clinicID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("clinic association not inserted")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return clinicID, nil
}

func (d defaultRepository) ListUserClinics(ctx context.Context, userID int64) ([]*Clinic, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, listUserClinicsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	clinics := make([]*Clinic, 0)
	for rows.Next() {
		clinic := new(Clinic)
		if err = database.TransformRow(rows, clinic); err != nil {
			return nil, err
		}
		clinics = append(clinics, clinic)
	}
	return clinics, rows.Err()
}

func (d defaultRepository) FindUserClinic(ctx context.Context, userID int64) (*Clinic, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, findUserClinicQuery, userID)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	if !rows.Next() {
		return nil, rows.Err()
	}
	clinic := new(Clinic)
	if err = database.TransformRow(rows, clinic); err != nil {
		return nil, err
	}
	return clinic, nil
}
