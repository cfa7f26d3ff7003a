package dashboard

import (
	"context"

	"clinic-booking/internal/database"
)

const (
	countDoctorsQuery      = "SELECT COUNT(*) FROM tb_doctor WHERE clinic_id = $1"
	countPatientsQuery     = "SELECT COUNT(*) FROM tb_patient WHERE clinic_id = $1"
	countAppointmentsQuery = "SELECT COUNT(*) FROM tb_appointment WHERE clinic_id = $1"
	revenueQuery           = "SELECT COALESCE(SUM(d.appointment_price_in_cents), 0) FROM tb_appointment a INNER JOIN tb_doctor d ON d.id = a.doctor_id WHERE a.clinic_id = $1 AND a.status <> 'cancelled'"
	topDoctorsQuery        = "SELECT d.name, d.specialty, COUNT(a.id) AS appointments FROM tb_doctor d INNER JOIN tb_appointment a ON a.doctor_id = d.id WHERE d.clinic_id = $1 GROUP BY d.id, d.name, d.specialty ORDER BY appointments DESC, d.name LIMIT $2"
	specialtiesQuery       = "SELECT d.specialty, COUNT(a.id) AS appointments FROM tb_doctor d INNER JOIN tb_appointment a ON a.doctor_id = d.id WHERE d.clinic_id = $1 GROUP BY d.specialty ORDER BY appointments DESC, d.specialty"
)

// Repository provides the clinic aggregates.
type Repository interface {
	CountDoctors(ctx context.Context, clinicID int64) (int64, error)
	CountPatients(ctx context.Context, clinicID int64) (int64, error)
	CountAppointments(ctx context.Context, clinicID int64) (int64, error)

	// RevenueInCents sums the price of the appointments that were not cancelled.
	RevenueInCents(ctx context.Context, clinicID int64) (int64, error)

	// TopDoctors ranks the doctors by number of appointments.
	TopDoctors(ctx context.Context, clinicID int64, limit int) ([]DoctorRanking, error)

	// Specialties ranks the specialties by number of appointments.
	Specialties(ctx context.Context, clinicID int64) ([]SpecialtyRanking, error)
}

type defaultRepository struct {
	dbConn database.Connection
}

func newRepository(dbConn database.Connection) Repository {
	return &defaultRepository{dbConn: dbConn}
}

// scalar runs a query returning a single number.
func (d defaultRepository) scalar(ctx context.Context, query string, clinicID int64) (int64, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	var value int64
	if err := d.dbConn.DB().QueryRowContext(ctx, query, clinicID).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func (d defaultRepository) CountDoctors(ctx context.Context, clinicID int64) (int64, error) {
	return d.scalar(ctx, countDoctorsQuery, clinicID)
}

func (d defaultRepository) CountPatients(ctx context.Context, clinicID int64) (int64, error) {
	return d.scalar(ctx, countPatientsQuery, clinicID)
}

func (d defaultRepository) CountAppointments(ctx context.Context, clinicID int64) (int64, error) {
	return d.scalar(ctx, countAppointmentsQuery, clinicID)
}

func (d defaultRepository) RevenueInCents(ctx context.Context, clinicID int64) (int64, error) {
	return d.scalar(ctx, revenueQuery, clinicID)
}

func (d defaultRepository) TopDoctors(ctx context.Context, clinicID int64, limit int) ([]DoctorRanking, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, topDoctorsQuery, clinicID, limit)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	rankings := make([]DoctorRanking, 0)
	for rows.Next() {
		var ranking DoctorRanking
		if err = database.TransformRow(rows, &ranking); err != nil {
			return nil, err
		}
		rankings = append(rankings, ranking)
	}
	return rankings, rows.Err()
}

func (d defaultRepository) Specialties(ctx context.Context, clinicID int64) ([]SpecialtyRanking, error) {
	ctx, cancel := d.dbConn.CreateContext(ctx)
	defer cancel()
	rows, err := d.dbConn.DB().QueryContext(ctx, specialtiesQuery, clinicID)
	if err != nil {
		return nil, err
	}
	defer database.CloseRows(rows)
	rankings := make([]SpecialtyRanking, 0)
	for rows.Next() {
		var ranking SpecialtyRanking
		if err = database.TransformRow(rows, &ranking); err != nil {
			return nil, err
		}
		rankings = append(rankings, ranking)
	}
	return rankings, rows.Err()
}
