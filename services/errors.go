package services

import (
	"errors"
	"fmt"
)

// Error kinds. The HTTP boundary maps each kind to a status code.
var (
	ErrValidation        = errors.New("validation error")
	ErrDuplicateIdentity = errors.New("identity already exists")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("conflict")
	ErrInternal          = errors.New("internal server error")
)

// Error is a failure with a caller-facing message that unwraps to its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Common errors
var (
	ErrUserNotFound       = newError(ErrNotFound, "user not found")
	ErrTaskNotFound       = newError(ErrNotFound, "task not found")
	ErrTaskForbidden      = newError(ErrForbidden, "not authorized to access this task")
	ErrEmailTaken         = newError(ErrDuplicateIdentity, "email is already in use")
	ErrUsernameTaken      = newError(ErrDuplicateIdentity, "username is already taken")
	ErrInvalidCredentials = newError(ErrValidation, "invalid email or password")
	ErrInvalidToken       = newError(ErrForbidden, "invalid or expired token")
	ErrVersionMismatch    = newError(ErrConflict, "task was modified by another request")
)

// ValidationError builds a validation failure with the given message.
func ValidationError(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}
