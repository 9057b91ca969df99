package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error wraps exactly one of these so callers can use errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
)

// Error carries a user-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing resource.
func NotFound(format string, args ...interface{}) error {
	return newError(ErrNotFound, format, args...)
}

// Unauthorized reports a missing, invalid or expired credential.
func Unauthorized(format string, args ...interface{}) error {
	return newError(ErrUnauthorized, format, args...)
}

// Forbidden reports an authenticated caller acting outside their rights.
func Forbidden(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

// Conflict reports a uniqueness or integrity violation.
func Conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

// Unavailable reports a feature whose backing service is not configured.
func Unavailable(format string, args ...interface{}) error {
	return newError(ErrUnavailable, format, args...)
}

// Validation reports malformed input with optional per-field detail.
func Validation(message string, fields map[string]string) error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

// Message returns the user-facing message of err when it is an *Error.
func Message(err error) (string, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message, true
	}
	return "", false
}

// Fields returns the per-field validation detail carried by err, if any.
func Fields(err error) map[string]string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
