// Package dashboard aggregates the clinic totals shown on the dashboard.
package dashboard

import (
	"context"
	"fmt"

	"clinic-booking/internal/clinics"
	"clinic-booking/internal/database"

	"golang.org/x/sync/errgroup"
)

const topDoctorsLimit = 4

// Service determines the methods used to summarize a clinic.
type Service interface {

	// Summarize computes the clinic totals, running the aggregates concurrently.
	Summarize(ctx context.Context, clinic clinics.Clinic) (*Summary, error)
}

type defaultService struct {
	repository Repository
}

// NewService creates a new dashboard service.
func NewService(dbConn database.Connection) Service {
	return &defaultService{repository: newRepository(dbConn)}
}

func (d defaultService) Summarize(ctx context.Context, clinic clinics.Clinic) (*Summary, error) {
	summary := emptySummary()
	var revenue int64
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.Doctors, err = d.repository.CountDoctors(ctx, clinic.ID)
		return err
	})
	g.Go(func() (err error) {
		summary.Patients, err = d.repository.CountPatients(ctx, clinic.ID)
		return err
	})
	g.Go(func() (err error) {
		summary.Appointments, err = d.repository.CountAppointments(ctx, clinic.ID)
		return err
	})
	g.Go(func() (err error) {
		revenue, err = d.repository.RevenueInCents(ctx, clinic.ID)
		return err
	})
	g.Go(func() (err error) {
		summary.TopDoctors, err = d.repository.TopDoctors(ctx, clinic.ID, topDoctorsLimit)
		return err
	})
	g.Go(func() (err error) {
		summary.Specialties, err = d.repository.Specialties(ctx, clinic.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("an unexpected error occurred: %w", err)
	}
	summary.Revenue = float64(revenue) / 100
	return &summary, nil
}
