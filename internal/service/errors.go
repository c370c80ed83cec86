// Package service implements the application's request-driven operations:
// task assignment and status updates, and user administration. Services
// consult the access control policy before touching storage and translate
// policy and store errors into the sentinel errors the API layer maps to
// HTTP status codes.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is(); the API layer maps each to an
// HTTP status code.
var (
	// ErrPermissionDenied indicates the access control policy denied the
	// caller's action. Surfaced to the caller, never retried.
	// API layer maps this to HTTP 403 Forbidden.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrValidation indicates malformed or unacceptable input: a deadline
	// that is not in the future, an inactive assignee, an unknown role.
	// API layer maps this to HTTP 400 Bad Request.
	ErrValidation = errors.New("validation failed")
)
