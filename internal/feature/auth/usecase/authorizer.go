package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/shared/apperror"
)

// MsgUnauthorized はすべての認証失敗で共通のメッセージです。
const MsgUnauthorized = "Unauthorized"

// SessionResolver はACTIVEなセッションを解決します。
type SessionResolver interface {
	ResolveActive(ctx context.Context, publicID uuid.UUID) (*entity.Session, error)
}

// Authorizer はトークンからリクエストの主体を解決します。
type Authorizer struct {
	tokens   TokenCodec
	sessions SessionResolver
	users    UserRepository
	roles    RoleRepository
}

// NewAuthorizer はAuthorizerの新しいインスタンスを生成します。
func NewAuthorizer(tokens TokenCodec, sessions SessionResolver, users UserRepository, roles RoleRepository) *Authorizer {
	return &Authorizer{
		tokens:   tokens,
		sessions: sessions,
		users:    users,
		roles:    roles,
	}
}

// Authenticate はトークンを検証し、セッション・ユーザー・端末の一致を確認してPrincipalを返します。
//
// 失敗理由は5種類あるが、利用者にはすべて同じ401として見せる。
// 理由は返却するエラーの原因（Unwrap）にのみ含まれる。
func (a *Authorizer) Authenticate(ctx context.Context, token, fingerprint string) (*entity.Principal, error) {
	if token == "" {
		return nil, unauthenticated(ErrTokenMissing)
	}

	userID, sessionID, err := a.tokens.Verify(token)
	if err != nil {
		return nil, unauthenticated(fmt.Errorf("%w: %v", ErrTokenInvalid, err))
	}

	session, err := a.sessions.ResolveActive(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, unauthenticated(ErrSessionInactive)
		}
		return nil, unauthenticated(fmt.Errorf("%w: %v", ErrPrincipalLookup, err))
	}

	user, err := a.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, unauthenticated(fmt.Errorf("%w: %v", ErrPrincipalLookup, err))
	}
	if user.PublicID != userID {
		return nil, unauthenticated(ErrSessionUserMismatch)
	}

	if session.Fingerprint != fingerprint {
		return nil, unauthenticated(ErrFingerprintMismatch)
	}

	roles, err := a.roles.NamesByUserID(ctx, user.ID)
	if err != nil {
		return nil, unauthenticated(fmt.Errorf("%w: %v", ErrPrincipalLookup, err))
	}

	return &entity.Principal{
		User:      user,
		SessionID: session.PublicID,
		Roles:     roles,
	}, nil
}

func unauthenticated(reason error) error {
	return apperror.Unauthenticated(MsgUnauthorized, reason)
}
