// Package auth contains handlers, services and models used to manage authentication
// and authorization of the clinic staff.
package auth

import (
	"errors"

	"clinic-booking/internal/apierrors"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = bcrypt.DefaultCost

// EncryptPassword hashes the given password. Passwords longer than bcrypt accepts are reported
// as a validation error.
func EncryptPassword(pass string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), passwordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apierrors.NewValidationError("password", "too long")
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePasswords checks if plainPass matches the stored hash.
func ComparePasswords(hashedPass, plainPass string) bool {
	if hashedPass == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPass), []byte(plainPass)) == nil
}
