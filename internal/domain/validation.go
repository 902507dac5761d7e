package domain

import "fmt"

// ValidationError describes a single invalid field. It wraps one of the
// common sentinel errors so callers can still match with errors.Is while
// getting a field-specific message.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

// NewValidationError creates a ValidationError wrapping the given sentinel.
func NewValidationError(field, reason string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
