package jwtmw

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"blog_backend/internal/api"
	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/platform/fingerprint"
	"blog_backend/internal/shared/apperror"
)

const (
	// CookieName はトークンを保持するクッキー名です。
	CookieName = "Authorization"

	// ContextPrincipal はginコンテキストに認証済み主体を格納するキーです。
	ContextPrincipal = "principal"

	bearerPrefix = "Bearer "
)

// Authenticator はトークンと端末フィンガープリントから主体を解決します。
type Authenticator interface {
	Authenticate(ctx context.Context, token, fingerprint string) (*entity.Principal, error)
}

// TokenFromRequest はクッキー、次にAuthorizationヘッダーの順でトークンを取り出します。
func TokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		return strings.TrimPrefix(v, bearerPrefix)
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	}
	return ""
}

// AuthRequired は認証済みのリクエストのみを通すミドルウェアを返します。
// 失敗理由にかかわらず、応答は同じ401です。理由はdebugログにのみ出力します。
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := auth.Authenticate(c.Request.Context(), TokenFromRequest(c), fingerprint.FromRequest(c.Request))
		if err != nil {
			slog.Debug("authentication rejected", "reason", reason(err), "path", c.FullPath(), "remote_addr", c.ClientIP())
			api.WriteError(c, apperror.Unauthenticated("Unauthorized", err))
			return
		}
		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// OptionalAuth は有効なトークンがあれば主体を設定し、なければそのまま通します。
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token != "" {
			principal, err := auth.Authenticate(c.Request.Context(), token, fingerprint.FromRequest(c.Request))
			if err == nil {
				c.Set(ContextPrincipal, principal)
			} else {
				slog.Debug("optional authentication ignored", "reason", reason(err))
			}
		}
		c.Next()
	}
}

// RequireRoles は主体のロールとallowedに共通部分がある場合のみ通します。
// AuthRequiredの後に置く必要があります。
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			api.WriteError(c, apperror.Unauthenticated("Unauthorized", nil))
			return
		}
		if !principal.HasAnyRole(allowed...) {
			api.WriteError(c, apperror.Forbidden("Forbidden"))
			return
		}
		c.Next()
	}
}

// CurrentPrincipal はginコンテキストから認証済み主体を取り出します。
func CurrentPrincipal(c *gin.Context) (*entity.Principal, bool) {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil, false
	}
	p, ok := v.(*entity.Principal)
	return p, ok && p != nil
}

// reason は原因の連鎖から内部向けの理由を取り出します。
func reason(err error) string {
	if appErr, ok := apperror.As(err); ok && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return err.Error()
}
