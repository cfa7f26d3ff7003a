package auth

import (
	"net/mail"
	"strings"

	"clinic-booking/internal/apierrors"

	"github.com/google/uuid"
)

const minPasswordLength = 8

type Credentials struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// Validate validates if the credentials given are valid.
func (c Credentials) Validate() error {
	if c.Email == "" {
		return apierrors.NewValidationError("email", "required")
	}
	if c.Password == "" {
		return apierrors.NewValidationError("password", "required")
	}
	return nil
}

// SignUp holds the data needed to register a new user.
type SignUp struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates if the sign up data is complete and well formed.
func (s SignUp) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return apierrors.NewValidationError("name", "required")
	}
	if s.Email == "" {
		return apierrors.NewValidationError("email", "required")
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return apierrors.NewValidationError("email", "invalid")
	}
	if s.Password == "" {
		return apierrors.NewValidationError("password", "required")
	}
	if len(s.Password) < minPasswordLength {
		return apierrors.NewValidationError("password", "too short")
	}
	return nil
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	GrantType    string `json:"grant_type,omitempty"`
}

// Validate validates if the tokens given are valid.
func (c Tokens) Validate() error {
	if c.AccessToken == "" {
		return apierrors.NewValidationError("access_token", "required")
	}
	if c.RefreshToken == "" {
		return apierrors.NewValidationError("refresh_token", "required")
	}
	if c.GrantType == "" {
		return apierrors.NewValidationError("grant_type", "required")
	}
	if c.GrantType != "refresh_token" {
		return apierrors.NewValidationError("grant_type", "invalid")
	}
	return nil
}

type User struct {
	ID       int64     `json:"-" dbfield:"id"`
	UUID     uuid.UUID `json:"uuid" dbfield:"uuid"`
	Name     string    `json:"name" dbfield:"name"`
	Email    string    `json:"email" dbfield:"email"`
	Password string    `json:"-" dbfield:"password"`
}
