// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrSessionNotFound is returned when no ACTIVE session matches a public ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrOTPNotFound is returned when no AVAILABLE code matches (user, code, purpose).
	ErrOTPNotFound = errors.New("otp not found")

	// ErrOTPExpired is the internal cause attached when a code is past its expiry.
	ErrOTPExpired = errors.New("otp expired")

	// ErrRoleNotFound is returned when a role name is unknown.
	ErrRoleNotFound = errors.New("role not found")

	// ErrRoleAlreadyAssigned is returned when a user already holds a role.
	ErrRoleAlreadyAssigned = errors.New("role already assigned")
)

// Reasons an Authorization Gate check fails. They are logged, never returned to clients.
var (
	ErrTokenMissing        = errors.New("token_missing")
	ErrTokenInvalid        = errors.New("token_invalid")
	ErrSessionInactive     = errors.New("session_inactive")
	ErrSessionUserMismatch = errors.New("session_user_mismatch")
	ErrFingerprintMismatch = errors.New("fingerprint_mismatch")
	ErrPrincipalLookup     = errors.New("principal_lookup_failed")
)
