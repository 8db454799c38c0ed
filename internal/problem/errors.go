package problem

import "fmt"

// ErrInvalid is returned (wrapped) for any configuration that fails validation.
// Use errors.Is(err, ErrInvalid) to check for this error.
var ErrInvalid = &ValidationError{}

// ValidationError describes a single rejected configuration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return "invalid configuration"
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
