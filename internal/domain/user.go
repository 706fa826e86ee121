package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// idPrefix is prepended to every generated user ID.
const idPrefix = "user_"

// User represents a registered identity.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	IsActive  bool      `json:"is_active"`
}

// NewUser validates the input and builds an active User.
// The name is checked first, then the email, then the role; the first failure
// is returned.
func NewUser(name, email string, role Role) (User, error) {
	return newUserAt(name, email, role, time.Now())
}

func newUserAt(name, email string, role Role, now time.Time) (User, error) {
	trimmed := strings.TrimSpace(name)
	if err := validation.Validate(trimmed, validation.Required); err != nil {
		return User{}, ErrEmptyName
	}
	if err := validation.Validate(email, EmailRule); err != nil {
		return User{}, &InvalidEmailError{Email: email}
	}
	if !role.IsValid() {
		return User{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	return User{
		ID:        generateID(now),
		Name:      trimmed,
		Email:     strings.ToLower(email),
		Role:      role,
		CreatedAt: now,
		IsActive:  true,
	}, nil
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// EmailRule only checks that both '@' and '.' appear somewhere in the value.
// It is not an RFC 5322 validator.
var EmailRule = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_is_string", "must be a string")
	}
	if !strings.Contains(s, "@") || !strings.Contains(s, ".") {
		return validation.NewError("invalid_email_format", "must contain '@' and '.'")
	}
	return nil
})

// generateID derives an ID from the nanosecond timestamp. Two calls within the
// same clock tick collide.
func generateID(t time.Time) string {
	return idPrefix + strconv.FormatInt(t.UnixNano(), 10)
}
