// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	authadapters "blog_backend/internal/feature/auth/adapters"
	authhandler "blog_backend/internal/feature/auth/transport/handler"
	authusecase "blog_backend/internal/feature/auth/usecase"
	"blog_backend/internal/platform/config"
	"blog_backend/internal/platform/db"
	jwtmw "blog_backend/internal/platform/jwt"
	"blog_backend/internal/platform/mail"
)

// Auth bundles the handler and the request authenticator of the auth feature.
type Auth struct {
	Handler    *authhandler.AuthHandler
	Authorizer *authusecase.Authorizer
}

// NewAuth wires repositories, the OTP issuer, the session manager and the token codec.
func NewAuth(gdb *gorm.DB, cfg *config.Config, sender authusecase.OTPSender, clock clockwork.Clock) *Auth {
	users := authadapters.NewUserPostgres(gdb)
	roles := authadapters.NewRolePostgres(gdb)
	sessions := authusecase.NewSessionManager(authadapters.NewSessionPostgres(gdb), clock)
	tokens := jwtmw.NewCodec(cfg.JWT.Secret, cfg.JWT.TTL, clock)

	uc := authusecase.NewAuthUsecase(authusecase.AuthDeps{
		Users:       users,
		Roles:       roles,
		Tx:          db.NewTransactor(gdb),
		OTP:         authusecase.NewOTPIssuer(authadapters.NewOTPPostgres(gdb), clock),
		Sessions:    sessions,
		Tokens:      tokens,
		Sender:      sender,
		Clock:       clock,
		OTPValidity: cfg.OTP.TTL,
	})

	return &Auth{
		Handler:    authhandler.NewAuthHandler(uc, cfg.JWT.CookieSecure),
		Authorizer: authusecase.NewAuthorizer(tokens, sessions, users, roles),
	}
}

// NewOTPSender returns an SMTP backed sender when SMTP_HOST is set.
// Otherwise codes are written to the log.
func NewOTPSender(cfg config.Mail, logger *slog.Logger) (*mail.OTPMailer, error) {
	if cfg.Host == "" {
		logger.Warn("SMTP_HOST is not set. OTP mails are logged instead of sent.")
		return mail.NewOTPMailer(mail.NewLogMailer(logger)), nil
	}
	m, err := mail.New(cfg)
	if err != nil {
		return nil, err
	}
	return mail.NewOTPMailer(m), nil
}
