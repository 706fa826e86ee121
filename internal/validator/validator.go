package validator

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"user-registry/internal/domain"
)

// UserRecord is one raw row read by the importer, before it becomes a User.
type UserRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Validator provides validation methods for import records.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRecord checks the columns the user constructor does not cover.
// Name and email rules are left to domain.NewUser so its errors surface unchanged.
func (v *Validator) ValidateRecord(r *UserRecord) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Role,
			validation.Required.Error("role_required"),
			validation.By(roleRule),
		),
	)
}

// ConvertValidationErrors converts ozzo and domain errors to RecordErrors.
func ConvertValidationErrors(rowNum int, err error) []domain.RecordError {
	var errs []domain.RecordError

	var ve validation.Errors
	switch {
	case err == nil:
	case errors.As(err, &ve):
		fields := make([]string, 0, len(ve))
		for field := range ve {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			errs = append(errs, domain.RecordError{
				Row:    rowNum,
				Field:  field,
				Reason: ve[field].Error(),
			})
		}
	case errors.Is(err, domain.ErrEmptyName):
		errs = append(errs, domain.RecordError{Row: rowNum, Field: "name", Reason: err.Error()})
	case errors.Is(err, domain.ErrInvalidEmail):
		errs = append(errs, domain.RecordError{Row: rowNum, Field: "email", Reason: err.Error()})
	case errors.Is(err, domain.ErrUnknownRole):
		errs = append(errs, domain.RecordError{Row: rowNum, Field: "role", Reason: err.Error()})
	default:
		errs = append(errs, domain.RecordError{Row: rowNum, Field: "unknown", Reason: err.Error()})
	}

	return errs
}

// AppendValidationErrors appends converted errors to dst.
func AppendValidationErrors(dst *[]domain.RecordError, rowNum int, err error) {
	*dst = append(*dst, ConvertValidationErrors(rowNum, err)...)
}

// roleRule accepts any label domain.ParseRole understands.
func roleRule(value interface{}) error {
	s, _ := value.(string)
	if _, err := domain.ParseRole(s); err != nil {
		return validation.NewError("invalid_role", "must be one of User, Admin, Moderator")
	}
	return nil
}
