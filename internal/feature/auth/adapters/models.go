package adapters

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blog_backend/internal/feature/auth/domain/entity"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID              uint      `gorm:"primaryKey"`
	PublicID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	FullName        string    `gorm:"size:255;not null"`
	Email           string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string    `gorm:"size:255;not null"`
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts the GORM model to a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:              m.ID,
		PublicID:        m.PublicID,
		FullName:        m.FullName,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		EmailVerifiedAt: m.EmailVerifiedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// UserModelFromEntity converts a domain entity to a GORM model.
func UserModelFromEntity(u *entity.User) *UserModel {
	return &UserModel{
		ID:              u.ID,
		PublicID:        u.PublicID,
		FullName:        u.FullName,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// RoleModel is the GORM model for the roles table.
type RoleModel struct {
	ID        uint      `gorm:"primaryKey"`
	PublicID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Name      string    `gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (RoleModel) TableName() string {
	return "roles"
}

// ToEntity converts the GORM model to a domain entity.
func (m *RoleModel) ToEntity() *entity.Role {
	return &entity.Role{ID: m.ID, PublicID: m.PublicID, Name: m.Name}
}

// UserRoleModel is the GORM model for role assignments.
type UserRoleModel struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex:idx_user_roles_user_role;not null"`
	RoleID    uint `gorm:"uniqueIndex:idx_user_roles_user_role;not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// OTPModel is the GORM model for the otps table.
type OTPModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index:idx_otps_lookup;not null"`
	Code      string    `gorm:"size:8;not null"`
	Purpose   string    `gorm:"index:idx_otps_lookup;size:32;not null"`
	Status    string    `gorm:"index:idx_otps_lookup;size:16;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (OTPModel) TableName() string {
	return "otps"
}

// ToEntity converts the GORM model to a domain entity.
func (m *OTPModel) ToEntity() *entity.OneTimeCode {
	return &entity.OneTimeCode{
		ID:        m.ID,
		UserID:    m.UserID,
		Code:      m.Code,
		Purpose:   entity.OTPPurpose(m.Purpose),
		Status:    entity.OTPStatus(m.Status),
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

// SessionModel is the GORM model for the sessions table.
type SessionModel struct {
	ID          uint      `gorm:"primaryKey"`
	PublicID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	UserID      uint      `gorm:"index;not null"`
	Fingerprint string    `gorm:"size:255;not null"`
	IPAddress   string    `gorm:"size:45;not null"` // IPv6 max length
	Status      string    `gorm:"size:16;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity converts the GORM model to a domain entity.
func (m *SessionModel) ToEntity() *entity.Session {
	return &entity.Session{
		ID:          m.ID,
		PublicID:    m.PublicID,
		UserID:      m.UserID,
		Fingerprint: m.Fingerprint,
		IPAddress:   m.IPAddress,
		Status:      entity.SessionStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// SessionModelFromEntity converts a domain entity to a GORM model.
func SessionModelFromEntity(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:          s.ID,
		PublicID:    s.PublicID,
		UserID:      s.UserID,
		Fingerprint: s.Fingerprint,
		IPAddress:   s.IPAddress,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Models lists every model owned by the auth feature, for AutoMigrate in tests.
func Models() []any {
	return []any{&UserModel{}, &RoleModel{}, &UserRoleModel{}, &OTPModel{}, &SessionModel{}}
}
