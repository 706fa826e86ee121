package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName is returned when a name is empty after trimming whitespace.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidEmail matches every *InvalidEmailError via errors.Is.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrUnknownRole is returned for a Role outside ValidRoles.
	ErrUnknownRole = errors.New("unknown role")
)

// InvalidEmailError carries the email exactly as it was supplied.
type InvalidEmailError struct {
	Email string
}

func (e *InvalidEmailError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidEmail, e.Email)
}

func (e *InvalidEmailError) Is(target error) bool {
	return target == ErrInvalidEmail
}
