// Package common defines shared constants and sentinel errors used across
// the server, its repositories and the operator CLI. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Authentication errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrTooManyAttempts    = errors.New("too many attempts")

	// Role and ownership checks.
	ErrAccessDenied = errors.New("access denied")
	ErrForbidden    = errors.New("forbidden")

	// Invitation lifecycle.
	ErrAlreadyFlagged = errors.New("invitation already flagged")

	// Sheet import.
	ErrExternalFetch = errors.New("external fetch failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
