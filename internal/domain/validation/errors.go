package validation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the kind shared by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// FieldError reports the first invalid field of a calculation request.
type FieldError struct {
	Field   string // JSON path of the offending field, e.g. "participants[2].name"
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *FieldError) Unwrap() error { return ErrInvalidInput }

func fieldError(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}
