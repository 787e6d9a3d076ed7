// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user in the system.
type User struct {
	// ID is the internal identifier. It never leaves the server.
	ID uint

	// PublicID is the stable identifier exposed to clients and carried in tokens.
	PublicID uuid.UUID

	FullName string

	// Email must be unique across all users.
	Email string

	// PasswordHash is the bcrypt hash of the password.
	PasswordHash string

	// EmailVerifiedAt is nil until the user validates an email OTP.
	EmailVerifiedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVerified reports whether the user has verified the email address.
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}
