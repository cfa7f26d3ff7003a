package patients

import (
	"net/mail"
	"strings"
	"time"

	"clinic-booking/internal/apierrors"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

const (
	SexMale   = "male"
	SexFemale = "female"

	birthDateLayout = "2006-01-02"
)

type Patient struct {
	ID        int64      `dbfield:"id"`
	UUID      uuid.UUID  `dbfield:"uuid"`
	ClinicID  int64      `dbfield:"clinic_id"`
	Name      string     `dbfield:"name"`
	Email     string     `dbfield:"email"`
	Phone     string     `dbfield:"phone"`
	Sex       string     `dbfield:"sex"`
	RG        *string    `dbfield:"rg"`
	CPF       *string    `dbfield:"cpf"`
	BirthDate *time.Time `dbfield:"birth_date"`
	Address   *string    `dbfield:"address"`
	City      *string    `dbfield:"city"`
	State     *string    `dbfield:"state"`
}

// PatientView is the representation of a patient exposed to the clients.
type PatientView struct {
	UUID      uuid.UUID `json:"uuid"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Sex       string    `json:"sex"`
	RG        *string   `json:"rg,omitempty"`
	CPF       *string   `json:"cpf,omitempty"`
	BirthDate *string   `json:"birth_date,omitempty"`
	Address   *string   `json:"address,omitempty"`
	City      *string   `json:"city,omitempty"`
	State     *string   `json:"state,omitempty"`
}

func (p Patient) View() PatientView {
	view := PatientView{
		UUID:    p.UUID,
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Sex:     p.Sex,
		RG:      p.RG,
		CPF:     p.CPF,
		Address: p.Address,
		City:    p.City,
		State:   p.State,
	}
	if p.BirthDate != nil {
		birthDate := p.BirthDate.Format(birthDateLayout)
		view.BirthDate = &birthDate
	}
	return view
}

// PatientRequest holds the data needed to create or update a patient.
type PatientRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Sex       string  `json:"sex"`
	RG        *string `json:"rg,omitempty"`
	CPF       *string `json:"cpf,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
}

// NormalizePhone parses the phone number, assuming the given region when it has no country code,
// and formats it as E.164.
func NormalizePhone(phone string, region string) (string, error) {
	number, err := phonenumbers.Parse(phone, region)
	if err != nil {
		return "", apierrors.NewValidationError("phone", "invalid")
	}
	if !phonenumbers.IsValidNumber(number) {
		return "", apierrors.NewValidationError("phone", "invalid")
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}

// optional trims the value and turns blank values into nil.
func optional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Patient validates the request and converts it to a patient, normalizing the phone number with
// the given default region.
func (r PatientRequest) Patient(region string) (*Patient, error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, apierrors.NewValidationError("name", "required")
	}
	if r.Email == "" {
		return nil, apierrors.NewValidationError("email", "required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return nil, apierrors.NewValidationError("email", "invalid")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return nil, apierrors.NewValidationError("phone", "required")
	}
	phone, err := NormalizePhone(r.Phone, region)
	if err != nil {
		return nil, err
	}
	sex := strings.ToLower(strings.TrimSpace(r.Sex))
	if sex == "" {
		return nil, apierrors.NewValidationError("sex", "required")
	}
	if sex != SexMale && sex != SexFemale {
		return nil, apierrors.NewValidationError("sex", "invalid")
	}
	patient := &Patient{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:   phone,
		Sex:     sex,
		RG:      optional(r.RG),
		CPF:     optional(r.CPF),
		Address: optional(r.Address),
		City:    optional(r.City),
		State:   optional(r.State),
	}
	if birthDate := optional(r.BirthDate); birthDate != nil {
		parsed, err := time.Parse(birthDateLayout, *birthDate)
		if err != nil {
			return nil, apierrors.NewValidationError("birth_date", "invalid")
		}
		patient.BirthDate = &parsed
	}
	return patient, nil
}
