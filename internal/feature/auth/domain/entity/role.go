package entity

import "github.com/google/uuid"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Role is a named permission group. Names are unique.
type Role struct {
	ID       uint
	PublicID uuid.UUID
	Name     string
}
