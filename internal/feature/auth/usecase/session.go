package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"blog_backend/internal/feature/auth/domain/entity"
)

// SessionManager はログインセッションの作成・検索・無効化を行います。
type SessionManager struct {
	sessions SessionRepository
	clock    clockwork.Clock
}

// NewSessionManager はSessionManagerの新しいインスタンスを生成します。
func NewSessionManager(sessions SessionRepository, clock clockwork.Clock) *SessionManager {
	return &SessionManager{sessions: sessions, clock: clock}
}

// Open は常に新しいACTIVEセッションを作成します。1ユーザーあたりのセッション数に上限はありません。
func (m *SessionManager) Open(ctx context.Context, userID uint, fingerprint, ip string) (*entity.Session, error) {
	now := m.clock.Now().UTC()
	s := &entity.Session{
		PublicID:    uuid.New(),
		UserID:      userID,
		Fingerprint: fingerprint,
		IPAddress:   ip,
		Status:      entity.SessionActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.sessions.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return s, nil
}

// Close はセッションをLOGOUTにします。
// 既にLOGOUT済み、または存在しないセッションでも成功を返します。
func (m *SessionManager) Close(ctx context.Context, publicID uuid.UUID) error {
	if _, err := m.sessions.MarkLogout(ctx, publicID); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// ResolveActive はACTIVEなセッションを返します。
// LOGOUT済みのセッションは存在しないものと区別しません。
func (m *SessionManager) ResolveActive(ctx context.Context, publicID uuid.UUID) (*entity.Session, error) {
	return m.sessions.FindActiveByPublicID(ctx, publicID)
}

// History はユーザーの全セッションを新しい順に返します。
func (m *SessionManager) History(ctx context.Context, userID uint) ([]*entity.Session, error) {
	return m.sessions.ListByUserID(ctx, userID)
}
