// Package apierror holds the JSON envelopes every 4xx/5xx response uses.
// Internal errors never reach clients through it; callers pass a message.
package apierror

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// APIError is the envelope for every non-validation error: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError is returned with 422 and names each rejected field with
// the rule it broke, e.g. {"quantity": "min=0"}.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// FromValidator converts validator output into a ValidationError. It
// reports false when err is not a validator.ValidationErrors.
func FromValidator(err error) (*ValidationError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fe.Field()] = rule
	}
	return NewValidation(fields), true
}
