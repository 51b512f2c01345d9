package domain

import (
	"errors"
	"fmt"
)

// ErrNoData is returned by windowed aggregate queries that matched no
// scored articles. Callers map it to a 404 at the HTTP edge.
var ErrNoData = errors.New("no scored articles in window")

// ValidationError reports rejected caller input, e.g. ad hoc scoring text
// that is too short. Maps to a 400 at the HTTP edge.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
