// Package validatorx wraps go-playground/validator and flattens its output
// into a single error listing every failed field.
package validatorx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError wraps one or more FieldErrors so all failures are
// reported at once.
type ValidationError struct {
	Errors []FieldError
}

func (ve ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(ve.Errors), strings.Join(parts, "; "))
}

// Validator is safe for concurrent use; it caches struct metadata.
type Validator struct {
	validator *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

var std = NewValidator()

// Struct validates s with the package-level validator.
func Struct(s any) error {
	return std.Validate(s)
}

// Validate runs struct validation and converts failures into ValidationError.
func (v *Validator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		out := ValidationError{
			Errors: make([]FieldError, len(validationErrors)),
		}
		for i, fe := range validationErrors {
			out.Errors[i] = FieldError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: msgForTag(fe.Tag(), fe.Param()),
			}
		}
		return out
	}
	return err
}

func msgForTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", param)
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", param)
	case "hostname_port":
		return "must be a host:port address"
	case "required_if":
		return fmt.Sprintf("is required when %s", param)
	case "gt":
		return fmt.Sprintf("must be greater than %s", param)
	case "gte":
		return fmt.Sprintf("must be at least %s", param)
	default:
		return fmt.Sprintf("failed validation on rule %s", tag)
	}
}
