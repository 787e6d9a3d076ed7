package entity

import (
	"slices"

	"github.com/google/uuid"
)

// Principal is the authenticated caller attached to a request.
type Principal struct {
	User      *User
	SessionID uuid.UUID
	Roles     []string
}

// HasAnyRole reports whether the principal holds at least one of allowed.
func (p *Principal) HasAnyRole(allowed ...string) bool {
	for _, r := range allowed {
		if slices.Contains(p.Roles, r) {
			return true
		}
	}
	return false
}

// IsAdmin is a shorthand for HasAnyRole(RoleAdmin).
func (p *Principal) IsAdmin() bool {
	return p.HasAnyRole(RoleAdmin)
}
