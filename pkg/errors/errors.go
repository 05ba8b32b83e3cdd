package errors

import (
	"errors"
	"fmt"
)

// The error taxonomy is deliberately shallow: operations fail either because
// the input was rejected client-side (validation) or because the platform API
// call failed (upstream). Both surface to the dashboard as a short string.

var (
	// ErrValidation indicates input rejected before any network call
	ErrValidation = errors.New("validation failed")

	// ErrUpstream indicates a platform API transport or non-2xx failure
	ErrUpstream = errors.New("platform request failed")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError creates a validation error with context
func ValidationError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrValidation)
}

// UpstreamError wraps a transport/API failure. The cause is retained for
// logging; callers present only the fixed user-facing message.
func UpstreamError(operation string, cause error) error {
	return fmt.Errorf("%s: %v: %w", operation, cause, ErrUpstream)
}

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
