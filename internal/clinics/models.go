package clinics

import (
	"strings"

	"clinic-booking/internal/apierrors"

	"github.com/google/uuid"
)

type Clinic struct {
	ID     int64     `json:"-" dbfield:"id"`
	UUID   uuid.UUID `json:"uuid" dbfield:"uuid"`
	UserID int64     `json:"-" dbfield:"user_id"`
	Name   string    `json:"name" dbfield:"name"`
}

// ClinicRequest holds the data needed to create a clinic.
type ClinicRequest struct {
	Name string `json:"name"`
}

// Validate validates if the request is complete.
func (c ClinicRequest) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apierrors.NewValidationError("name", "required")
	}
	return nil
}
