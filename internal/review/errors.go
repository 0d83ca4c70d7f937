// Package review generates and edits long-form reviews in the user's voice.
package review

import (
	"fmt"
	"strings"
)

// FieldViolation is one failed validation rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError indicates bad caller input.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// NotFoundError indicates a missing prerequisite resource.
type NotFoundError struct {
	Resource string
	Hint     string
}

func (e *NotFoundError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.Hint)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}
