package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across repositories and services.
var (
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MissingPasswordError is raised inside the booking transaction when an
// add_users entry references an unknown email without supplying a password.
// It aborts the whole booking.
type MissingPasswordError struct {
	Email string
}

func (e *MissingPasswordError) Error() string {
	return fmt.Sprintf("this email %s is new and a password is required", e.Email)
}
