package review

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Result is the outcome of validating a request. Validators never panic or
// raise; the call site decides whether to reject, log, or respond.
type Result struct {
	Valid      bool
	Violations []FieldViolation
}

// Err converts an invalid result into a ValidationError, or nil.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Violations: r.Violations}
}

// ValidateRequest checks any tagged request struct and reports violations.
func ValidateRequest(req any) Result {
	err := validate.Struct(req)
	if err == nil {
		return Result{Valid: true}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Violations: []FieldViolation{{Field: "request", Message: err.Error()}}}
	}

	violations := make([]FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		message := "is invalid"
		if fe.Tag() == "required" {
			message = "is required"
		}
		violations = append(violations, FieldViolation{
			Field:   fe.Field(),
			Message: message,
		})
	}
	return Result{Violations: violations}
}
