package builder

import (
	"errors"
	"fmt"
)

// ErrUnknownElementType is returned when asked to build or edit a type
// outside the closed element set.
var ErrUnknownElementType = errors.New("unknown element type")

// ErrSaveInFlight is returned when a save is requested while another save of
// the same document has not finished.
var ErrSaveInFlight = errors.New("save already in progress")

// ErrElementNotFound is returned by session operations on a missing id.
var ErrElementNotFound = errors.New("element not found")

// ValidationError reports user input that stops an action before any
// persistence call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
