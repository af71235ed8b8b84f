package models

import (
	"errors"
	"fmt"
)

var (
	// ErrBillingNotFound is returned when no billing matches the requested ID
	// (or none that the caller is allowed to see).
	ErrBillingNotFound = errors.New("billing not found")

	// ErrTokenMismatch is returned when the supplied payment token does not match.
	ErrTokenMismatch = errors.New("payment token mismatch")

	// ErrAlreadySettled is returned when a payment targets a settled billing.
	ErrAlreadySettled = errors.New("billing already settled")

	// ErrConcurrentUpdate is returned when a billing changed between read and write.
	ErrConcurrentUpdate = errors.New("billing was modified concurrently")

	// ErrUnauthenticated is returned when an operation needs a principal and none was given.
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError reports a user-correctable problem with one input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
