// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog_backend/internal/api"
	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/feature/auth/transport/http/dto"
	"blog_backend/internal/feature/auth/usecase"
	"blog_backend/internal/platform/fingerprint"
	jwtmw "blog_backend/internal/platform/jwt"
	"blog_backend/internal/shared/apperror"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は未検証ユーザーを登録し、検証コードを送信します。
	Signup(ctx context.Context, fullName, email, password string) (*entity.User, error)
	// VerifyEmail はコードを検証してメールアドレスを検証済みにします。
	VerifyEmail(ctx context.Context, email, code string) (*entity.User, error)
	// ResendOTP は新しい検証コードを送信します。
	ResendOTP(ctx context.Context, email string) error
	// Login はユーザーを認証し、成功時にトークンを返します。
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginResult, error)
	// Logout はセッションを閉じます。
	Logout(ctx context.Context, sessionID uuid.UUID) error
	UpdateProfile(ctx context.Context, userID uint, fullName string) (*entity.User, error)
	Sessions(ctx context.Context, userID uint) ([]*entity.Session, error)
	ListRoles(ctx context.Context) ([]*entity.Role, error)
	GrantRole(ctx context.Context, userID uuid.UUID, roleName string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth         AuthUsecase
	cookieSecure bool
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをSignupReqにバインド
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時は201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		api.WriteError(c, api.BindError(err))
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		slog.Warn("signup failed", "error", err, "remote_addr", c.ClientIP())
		api.WriteError(c, err)
		return
	}
	slog.Info("user signup successful", "user_id", user.PublicID, "remote_addr", c.ClientIP())
	api.Created(c, "Signup successful, please verify your email", dto.NewUserRes(user, []string{entity.RoleUser}))
}

// VerifyEmail はメール検証APIエンドポイントを処理します。
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, api.BindError(err))
		return
	}
	user, err := h.auth.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		slog.Warn("email verification failed", "error", err, "remote_addr", c.ClientIP())
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Email verified", dto.NewUserRes(user, nil))
}

// ResendOTP は検証コード再送APIエンドポイントを処理します。
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req dto.ResendOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, api.BindError(err))
		return
	}
	if err := h.auth.ResendOTP(c.Request.Context(), req.Email); err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "OTP has been sent", nil)
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - リクエストJSONをLoginReqにバインド
// - バリデーションエラー時は400を返却
// - 認証失敗時は401、未検証のメールアドレスは403を返却
// - 認証成功時はトークンをクッキーとボディの両方で返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		api.WriteError(c, api.BindError(err))
		return
	}
	res, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fingerprint.FromRequest(c.Request),
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		// ユーザー列挙攻撃を防止するため、メールアドレスはログに残さない
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		api.WriteError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtmw.CookieName, res.Token, int(res.ExpiresIn), "/", "", h.cookieSecure, true)

	slog.Info("user login successful", "user_id", res.User.PublicID, "session_id", res.Session.PublicID, "remote_addr", c.ClientIP())
	api.OK(c, "Login successful", dto.LoginRes{Token: res.Token, ExpiresIn: res.ExpiresIn})
}

// Logout は現在のセッションを閉じ、クッキーを削除します。
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := jwtmw.CurrentPrincipal(c)
	if !ok {
		api.WriteError(c, apperror.Unauthenticated(usecase.MsgUnauthorized, nil))
		return
	}
	if err := h.auth.Logout(c.Request.Context(), p.SessionID); err != nil {
		api.WriteError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtmw.CookieName, "", -1, "/", "", h.cookieSecure, true)
	api.OK(c, "Logout successful", nil)
}

// Me は認証済みユーザーのプロフィールとロールを返します。
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := jwtmw.CurrentPrincipal(c)
	if !ok {
		api.WriteError(c, apperror.Unauthenticated(usecase.MsgUnauthorized, nil))
		return
	}
	api.OK(c, "Success", dto.NewUserRes(p.User, p.Roles))
}

// UpdateMe は表示名を更新します。
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	p, ok := jwtmw.CurrentPrincipal(c)
	if !ok {
		api.WriteError(c, apperror.Unauthenticated(usecase.MsgUnauthorized, nil))
		return
	}
	var req dto.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, api.BindError(err))
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), p.User.ID, req.FullName)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Profile updated", dto.NewUserRes(user, p.Roles))
}

// Sessions はセッション履歴を返します。
func (h *AuthHandler) Sessions(c *gin.Context) {
	p, ok := jwtmw.CurrentPrincipal(c)
	if !ok {
		api.WriteError(c, apperror.Unauthenticated(usecase.MsgUnauthorized, nil))
		return
	}
	sessions, err := h.auth.Sessions(c.Request.Context(), p.User.ID)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Success", dto.NewSessionRes(sessions, p.SessionID))
}

// Roles は全ロールを返します。ADMINのみ。
func (h *AuthHandler) Roles(c *gin.Context) {
	roles, err := h.auth.ListRoles(c.Request.Context())
	if err != nil {
		api.WriteError(c, err)
		return
	}
	api.OK(c, "Success", dto.NewRoleRes(roles))
}

// GrantRole はユーザーにロールを付与します。ADMINのみ。
func (h *AuthHandler) GrantRole(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.WriteError(c, apperror.InvalidArgument("Invalid UUID"))
		return
	}
	var req dto.GrantRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.WriteError(c, api.BindError(err))
		return
	}
	if err := h.auth.GrantRole(c.Request.Context(), userID, req.Role); err != nil {
		api.WriteError(c, err)
		return
	}
	api.Created(c, "Role granted", nil)
}
