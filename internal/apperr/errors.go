// Package apperr defines the error taxonomy shared by services and the API
// layer. Everything here is expected and user-correctable; anything else that
// bubbles out of a service is a storage or runtime failure and is handled
// generically at the route boundary.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict marks uniqueness violations: double-booking a mentor or
	// student on a date, or assigning an already-assigned pair.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted blocks cancelling or unbooking a session whose
	// report has been completed.
	ErrAlreadyCompleted = errors.New("session already completed")

	// ErrAlreadySignedOff blocks un-completing a report while a sign-off is
	// still in place.
	ErrAlreadySignedOff = errors.New("report already signed off")

	// ErrNotCompleted blocks signing off a report that has not been completed.
	ErrNotCompleted = errors.New("report not completed")

	// ErrFutureSession blocks completing a report for a session date that has
	// not happened yet.
	ErrFutureSession = errors.New("session is in the future")

	// ErrConfiguration marks missing reference data (no school terms loaded).
	ErrConfiguration = errors.New("configuration error")
)

// Conflictf wraps ErrConflict with a user-facing detail message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConflict)...)
}

// NotFoundf wraps ErrNotFound with the missing entity's description.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// FieldError reports a problem with one input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError carries per-field messages for blank or malformed input.
type ValidationError struct {
	Msg    string       `json:"message"`
	Fields []FieldError `json:"fields,omitempty"`
}

func NewValidationError(msg string, fields ...FieldError) error {
	return &ValidationError{Msg: msg, Fields: fields}
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
