package core

import "github.com/pkg/errors"

// FieldError ties a validation message to the struct field it concerns.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a business rule violation, such as a login with an
// unknown PIN. The HTTP layer answers it with a 400, rendering Fields
// as a per-field message map when they are set.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown marks an error the server cannot recover from. The HTTP
// error handler checks for it with IsShutdown and signals a graceful
// stop instead of serving on.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
