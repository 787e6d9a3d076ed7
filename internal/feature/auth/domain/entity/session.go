package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a login session.
type SessionStatus string

const (
	SessionActive SessionStatus = "ACTIVE"
	SessionLogout SessionStatus = "LOGOUT"
)

// Session represents one login of a user on one client.
// Sessions are never deleted; logout only flips the status.
type Session struct {
	ID       uint
	PublicID uuid.UUID
	UserID   uint
	// Fingerprint identifies the browser, OS and device type that opened the session.
	Fingerprint string
	IPAddress   string
	Status      SessionStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive returns true if the session has not been logged out.
func (s *Session) IsActive() bool {
	return s.Status == SessionActive
}
