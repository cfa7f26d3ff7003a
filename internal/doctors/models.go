package doctors

import (
	"math"
	"net/url"
	"strings"
	"time"

	"clinic-booking/internal/apierrors"
	"clinic-booking/internal/availability"

	"github.com/google/uuid"
)

type Doctor struct {
	ID             int64     `dbfield:"id"`
	UUID           uuid.UUID `dbfield:"uuid"`
	ClinicID       int64     `dbfield:"clinic_id"`
	Name           string    `dbfield:"name"`
	Specialty      string    `dbfield:"specialty"`
	AvatarImageURL *string   `dbfield:"avatar_image_url"`
	FromWeekday    string    `dbfield:"availability_from_weekday"`
	ToWeekday      string    `dbfield:"availability_to_weekday"`
	FromTime       time.Time `dbfield:"availability_from_time"`
	ToTime         time.Time `dbfield:"availability_to_time"`
	PriceInCents   int64     `dbfield:"appointment_price_in_cents"`
}

// DoctorView is the representation of a doctor exposed to the clients.
type DoctorView struct {
	UUID                 uuid.UUID `json:"uuid"`
	Name                 string    `json:"name"`
	Specialty            string    `json:"specialty"`
	AvatarImageURL       *string   `json:"avatar_image_url,omitempty"`
	AvailableFromWeekday string    `json:"available_from_weekday"`
	AvailableToWeekday   string    `json:"available_to_weekday"`
	AvailableFromTime    string    `json:"available_from_time"`
	AvailableToTime      string    `json:"available_to_time"`
	AppointmentPrice     float64   `json:"appointment_price"`
}

// View converts the doctor to its client representation, with "HH:MM" times and the price in
// currency units.
func (d Doctor) View() DoctorView {
	return DoctorView{
		UUID:                 d.UUID,
		Name:                 d.Name,
		Specialty:            d.Specialty,
		AvatarImageURL:       d.AvatarImageURL,
		AvailableFromWeekday: d.FromWeekday,
		AvailableToWeekday:   d.ToWeekday,
		AvailableFromTime:    availability.ClockOf(d.FromTime).String(),
		AvailableToTime:      availability.ClockOf(d.ToTime).String(),
		AppointmentPrice:     float64(d.PriceInCents) / 100,
	}
}

// DoctorRequest holds the data needed to create or update a doctor.
type DoctorRequest struct {
	Name                 string  `json:"name"`
	Specialty            string  `json:"specialty"`
	AvatarImageURL       *string `json:"avatar_image_url,omitempty"`
	AvailableFromWeekday string  `json:"available_from_weekday"`
	AvailableToWeekday   string  `json:"available_to_weekday"`
	AvailableFromTime    string  `json:"available_from_time"`
	AvailableToTime      string  `json:"available_to_time"`
	AppointmentPrice     float64 `json:"appointment_price"`
}

// Validate validates the request and returns the availability window it declares.
func (r DoctorRequest) Validate() (availability.Window, error) {
	var window availability.Window
	if strings.TrimSpace(r.Name) == "" {
		return window, apierrors.NewValidationError("name", "required")
	}
	if strings.TrimSpace(r.Specialty) == "" {
		return window, apierrors.NewValidationError("specialty", "required")
	}
	if r.AvatarImageURL != nil && *r.AvatarImageURL != "" {
		if _, err := url.ParseRequestURI(*r.AvatarImageURL); err != nil {
			return window, apierrors.NewValidationError("avatar_image_url", "invalid")
		}
	}
	var err error
	if window.FromWeekday, err = availability.ParseWeekday(r.AvailableFromWeekday); err != nil {
		return window, apierrors.NewValidationError("available_from_weekday", err.Error())
	}
	if window.ToWeekday, err = availability.ParseWeekday(r.AvailableToWeekday); err != nil {
		return window, apierrors.NewValidationError("available_to_weekday", err.Error())
	}
	if window.FromTime, err = availability.ParseClock(r.AvailableFromTime); err != nil {
		return window, apierrors.NewValidationError("available_from_time", err.Error())
	}
	if window.ToTime, err = availability.ParseClock(r.AvailableToTime); err != nil {
		return window, apierrors.NewValidationError("available_to_time", err.Error())
	}
	if err = window.Validate(); err != nil {
		return window, apierrors.NewValidationError("available_to_time", err.Error())
	}
	if r.AppointmentPrice <= 0 {
		return window, apierrors.NewValidationError("appointment_price", "must be greater than zero")
	}
	return window, nil
}

// PriceInCents converts the requested price to cents, rounding to the nearest cent.
func (r DoctorRequest) PriceInCents() int64 {
	return int64(math.Round(r.AppointmentPrice * 100))
}
