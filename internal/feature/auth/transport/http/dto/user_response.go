package dto

import (
	"time"

	"github.com/google/uuid"

	"blog_backend/internal/feature/auth/domain/entity"
)

// UpdateProfileReq は PATCH /me のリクエストボディです。
type UpdateProfileReq struct {
	FullName string `json:"full_name" binding:"required,max=100"`
}

// GrantRoleReq は POST /admin/users/:id/roles のリクエストボディです。
type GrantRoleReq struct {
	Role string `json:"role" binding:"required"`
}

// UserRes は公開してよいユーザー情報です。パスワードハッシュや内部IDは含みません。
type UserRes struct {
	ID              uuid.UUID  `json:"id"`
	FullName        string     `json:"full_name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	Roles           []string   `json:"roles,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// SessionRes はセッション履歴の1件です。
type SessionRes struct {
	ID          uuid.UUID `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	IPAddress   string    `json:"ip_address"`
	Status      string    `json:"status"`
	Current     bool      `json:"current"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleRes はロールの公開表現です。
type RoleRes struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewUserRes はエンティティからレスポンスを組み立てます。
func NewUserRes(u *entity.User, roles []string) UserRes {
	return UserRes{
		ID:              u.PublicID,
		FullName:        u.FullName,
		Email:           u.Email,
		EmailVerifiedAt: u.EmailVerifiedAt,
		Roles:           roles,
		CreatedAt:       u.CreatedAt,
	}
}

// NewSessionRes はcurrentと一致するセッションにCurrentを立てて変換します。
func NewSessionRes(sessions []*entity.Session, current uuid.UUID) []SessionRes {
	out := make([]SessionRes, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionRes{
			ID:          s.PublicID,
			Fingerprint: s.Fingerprint,
			IPAddress:   s.IPAddress,
			Status:      string(s.Status),
			Current:     s.PublicID == current,
			CreatedAt:   s.CreatedAt,
			UpdatedAt:   s.UpdatedAt,
		})
	}
	return out
}

func NewRoleRes(roles []*entity.Role) []RoleRes {
	out := make([]RoleRes, 0, len(roles))
	for _, r := range roles {
		out = append(out, RoleRes{ID: r.PublicID, Name: r.Name})
	}
	return out
}
