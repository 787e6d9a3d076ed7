package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/feature/auth/usecase"
	"blog_backend/internal/platform/db"
)

// sessionPostgres is a PostgreSQL implementation of the SessionRepository interface.
type sessionPostgres struct {
	db *gorm.DB
}

// Compile-time check to ensure sessionPostgres implements SessionRepository.
var _ usecase.SessionRepository = (*sessionPostgres)(nil)

// NewSessionPostgres creates a new instance of sessionPostgres.
func NewSessionPostgres(gdb *gorm.DB) *sessionPostgres {
	return &sessionPostgres{db: gdb}
}

// Create persists a new session to the database.
func (r *sessionPostgres) Create(ctx context.Context, session *entity.Session) error {
	m := SessionModelFromEntity(session)
	if err := db.Conn(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	session.ID = m.ID
	return nil
}

// FindActiveByPublicID retrieves an ACTIVE session by its public ID.
func (r *sessionPostgres) FindActiveByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Session, error) {
	var m SessionModel
	err := db.Conn(ctx, r.db).
		Where("public_id = ? AND status = ?", publicID, string(entity.SessionActive)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// MarkLogout flips an ACTIVE session to LOGOUT. It reports whether a row changed.
func (r *sessionPostgres) MarkLogout(ctx context.Context, publicID uuid.UUID) (bool, error) {
	result := db.Conn(ctx, r.db).
		Model(&SessionModel{}).
		Where("public_id = ? AND status = ?", publicID, string(entity.SessionActive)).
		Update("status", string(entity.SessionLogout))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByUserID retrieves all sessions for a given user, newest first.
func (r *sessionPostgres) ListByUserID(ctx context.Context, userID uint) ([]*entity.Session, error) {
	var models []SessionModel
	if err := db.Conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	sessions := make([]*entity.Session, len(models))
	for i := range models {
		sessions[i] = models[i].ToEntity()
	}
	return sessions, nil
}
