// Package common defines shared constants and sentinel errors used across
// PassVault components. Callers should use errors.Is to match the sentinel
// values and errors.As for ValidationError.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors. ErrorNotFound also covers "present but owned
	// by someone else" so callers cannot probe foreign ids.
	ErrorNotFound  = errors.New("not found")
	ErrorDuplicate = errors.New("already exists")

	// Cipher errors.
	ErrDecryption = errors.New("decryption failed")

	// Reset-token errors. Deliberately cause-opaque: missing, expired and
	// malformed tokens are indistinguishable to the caller.
	ErrInvalidToken = errors.New("invalid or expired token")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Startup errors.
	ErrorConfiguration = errors.New("configuration error")
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field %q is required", e.Field)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field string) error {
	return &ValidationError{Field: field}
}
