// Package router はHTTPルーティングを定義します。
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	articlehandler "blog_backend/internal/feature/article/transport/handler"
	"blog_backend/internal/feature/auth/domain/entity"
	authhandler "blog_backend/internal/feature/auth/transport/handler"
	commenthandler "blog_backend/internal/feature/comment/transport/handler"
	uploadhandler "blog_backend/internal/feature/upload/transport/handler"
	"blog_backend/internal/platform/http/handler"
	"blog_backend/internal/platform/http/middleware"
	jwtmw "blog_backend/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラーの集合です。
type Handlers struct {
	Auth     *authhandler.AuthHandler
	Articles *articlehandler.ArticleHandler
	Comments *commenthandler.CommentHandler
	Uploads  *uploadhandler.UploadHandler
	Health   *handler.HealthHandler
}

func NewRouter(h Handlers, authn jwtmw.Authenticator, limiter middleware.Limiter, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(logger), gin.Recovery())

	// 導通確認用（レート制限の対象外）
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.OPTIONS("/healthz", h.Health.Health)

	api := r.Group("/")
	api.Use(middleware.RateLimit(limiter))

	// 認証不要
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/verify-email", h.Auth.VerifyEmail)
	api.POST("/auth/resend-otp", h.Auth.ResendOTP)
	api.POST("/auth/login", h.Auth.Login)

	api.GET("/categories", h.Articles.Categories)
	api.GET("/articles", h.Articles.List)
	api.GET("/articles/popular", h.Articles.Popular)
	api.GET("/articles/:id/comments", h.Comments.List)
	api.GET("/uploads/*key", h.Uploads.Get)

	// トークンがあれば閲覧者として記録する
	api.GET("/articles/:id", jwtmw.OptionalAuth(authn), h.Articles.Get)

	// 認証必須のルート
	auth := api.Group("/")
	auth.Use(jwtmw.AuthRequired(authn))
	{
		auth.POST("/auth/logout", h.Auth.Logout)

		auth.GET("/me", h.Auth.Me)
		auth.PATCH("/me", h.Auth.UpdateMe)
		auth.GET("/me/sessions", h.Auth.Sessions)
		auth.GET("/me/bookmarks", h.Articles.MyBookmarks)

		auth.POST("/articles", h.Articles.Create)
		auth.PATCH("/articles/:id", h.Articles.Update)
		auth.DELETE("/articles/:id", h.Articles.Delete)
		auth.POST("/articles/:id/like", h.Articles.Like)
		auth.POST("/articles/:id/bookmark", h.Articles.Bookmark)
		auth.POST("/articles/:id/comments", h.Comments.Create)
		auth.DELETE("/comments/:id", h.Comments.Delete)

		auth.POST("/uploads", h.Uploads.Upload)
	}

	// 管理者のみ
	admin := auth.Group("/")
	admin.Use(jwtmw.RequireRoles(entity.RoleAdmin))
	{
		admin.GET("/roles", h.Auth.Roles)
		admin.POST("/admin/users/:id/roles", h.Auth.GrantRole)
		admin.POST("/categories", h.Articles.CreateCategory)
	}

	return r
}
