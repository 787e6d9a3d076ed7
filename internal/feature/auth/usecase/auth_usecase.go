// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/shared/apperror"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// dummyPasswordHash はユーザーが存在しない場合にも比較を行うためのダミーハッシュです。
	dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// LoginInput はログインに必要な情報です。
type LoginInput struct {
	Email       string
	Password    string
	Fingerprint string
	IPAddress   string
}

// LoginResult はログイン成功時の結果です。
type LoginResult struct {
	Token     string
	ExpiresIn int64
	User      *entity.User
	Session   *entity.Session
}

// AuthDeps はauthUsecaseの依存関係です。
type AuthDeps struct {
	Users    UserRepository
	Roles    RoleRepository
	Tx       Transactor
	OTP      *OTPIssuer
	Sessions *SessionManager
	Tokens   TokenCodec
	Sender   OTPSender
	Clock    clockwork.Clock
	// OTPValidity はメール検証コードの有効期間です。
	OTPValidity time.Duration
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users       UserRepository
	roles       RoleRepository
	tx          Transactor
	otp         *OTPIssuer
	sessions    *SessionManager
	tokens      TokenCodec
	sender      OTPSender
	clock       clockwork.Clock
	otpValidity time.Duration
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(d AuthDeps) *authUsecase {
	validity := d.OTPValidity
	if validity <= 0 {
		validity = 10 * time.Minute
	}
	return &authUsecase{
		users:       d.Users,
		roles:       d.Roles,
		tx:          d.Tx,
		otp:         d.OTP,
		sessions:    d.Sessions,
		tokens:      d.Tokens,
		sender:      d.Sender,
		clock:       d.Clock,
		otpValidity: validity,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperror.InvalidArgument("Validation Error",
			fmt.Sprintf("password must be at least %d characters long", minPasswordLength))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup は未検証のユーザーを登録し、USERロールとメール検証コードを同一トランザクションで作成します。
// コードの送信はコミット後に行い、送信に失敗しても登録自体は成功とします。
func (u *authUsecase) Signup(ctx context.Context, fullName, email, password string) (*entity.User, error) {
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := u.clock.Now().UTC()
	user := &entity.User{
		PublicID:     uuid.New(),
		FullName:     strings.TrimSpace(fullName),
		Email:        normalizeEmail(email),
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var otp *entity.OneTimeCode
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.users.Create(ctx, user); err != nil {
			if errors.Is(err, ErrEmailAlreadyExists) {
				return apperror.Conflict("Email already exists")
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		role, err := u.roles.FindByName(ctx, entity.RoleUser)
		if err != nil {
			return fmt.Errorf("failed to load default role: %w", err)
		}
		if err := u.roles.Assign(ctx, user.ID, role.ID); err != nil {
			return fmt.Errorf("failed to assign default role: %w", err)
		}

		otp, err = u.otp.Issue(ctx, user.ID, entity.PurposeEmailVerification, u.otpValidity)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.deliver(ctx, user, otp)
	return user, nil
}

// VerifyEmail はコードを検証し、成功時にユーザーを検証済みにします。
// 期限切れのコードはEXPIREDへの更新をコミットした上で失敗を返します。
// 使用済みのコードは検証済みユーザーでも"OTP is not valid"で失敗します。
func (u *authUsecase) VerifyEmail(ctx context.Context, email, code string) (*entity.User, error) {
	user, err := u.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	var expired error
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.otp.Validate(ctx, user.ID, code, entity.PurposeEmailVerification); err != nil {
			if errors.Is(err, ErrOTPExpired) {
				expired = err
				return nil
			}
			return err
		}
		if user.IsVerified() {
			return nil
		}

		now := u.clock.Now().UTC()
		if err := u.users.MarkVerified(ctx, user.ID, now); err != nil {
			return fmt.Errorf("failed to mark user verified: %w", err)
		}
		user.EmailVerifiedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired != nil {
		return nil, expired
	}
	return user, nil
}

// ResendOTP は新しい検証コードを発行して送信します。以前のコードは無効になります。
func (u *authUsecase) ResendOTP(ctx context.Context, email string) error {
	user, err := u.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified() {
		return apperror.InvalidArgument("Email is already verified")
	}

	var otp *entity.OneTimeCode
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		otp, err = u.otp.Issue(ctx, user.ID, entity.PurposeEmailVerification, u.otpValidity)
		return err
	})
	if err != nil {
		return err
	}

	u.deliver(ctx, user, otp)
	return nil
}

// Login はユーザーを認証し、新しいセッションとトークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := dummyPasswordHash
	if err == nil {
		passwordHash = user.PasswordHash
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(in.Password))
	if err != nil || compareErr != nil {
		return nil, apperror.Unauthenticated("Invalid email or password", compareErr)
	}

	if !user.IsVerified() {
		return nil, apperror.Forbidden("Email is not verified")
	}

	session, err := u.sessions.Open(ctx, user.ID, in.Fingerprint, in.IPAddress)
	if err != nil {
		return nil, err
	}

	token, expiresIn, err := u.tokens.Mint(user.PublicID, session.PublicID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresIn: expiresIn,
		User:      user,
		Session:   session,
	}, nil
}

// Logout は現在のセッションを閉じます。何度呼んでも成功します。
func (u *authUsecase) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return u.sessions.Close(ctx, sessionID)
}

// UpdateProfile は表示名を更新し、更新後のユーザーを返します。
func (u *authUsecase) UpdateProfile(ctx context.Context, userID uint, fullName string) (*entity.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, apperror.InvalidArgument("Validation Error", "full_name must not be blank")
	}
	if err := u.users.UpdateProfile(ctx, userID, fullName); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u.users.FindByID(ctx, userID)
}

// Sessions はユーザーのセッション履歴を返します。
func (u *authUsecase) Sessions(ctx context.Context, userID uint) ([]*entity.Session, error) {
	return u.sessions.History(ctx, userID)
}

// ListRoles は全ロールを返します。
func (u *authUsecase) ListRoles(ctx context.Context) ([]*entity.Role, error) {
	return u.roles.List(ctx)
}

// GrantRole は公開IDで指定したユーザーにロールを付与します。
func (u *authUsecase) GrantRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	user, err := u.users.FindByPublicID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return apperror.NotFound("User not found")
		}
		return err
	}

	role, err := u.roles.FindByName(ctx, strings.ToUpper(strings.TrimSpace(roleName)))
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return apperror.NotFound("Role not found")
		}
		return err
	}

	if err := u.roles.Assign(ctx, user.ID, role.ID); err != nil {
		if errors.Is(err, ErrRoleAlreadyAssigned) {
			return apperror.Conflict("Role already assigned")
		}
		return err
	}

	slog.Info("role granted", "user_id", user.PublicID, "role", role.Name)
	return nil
}

func (u *authUsecase) findByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// deliver はコードを送信します。失敗はログに残すのみで、呼び出し元には返しません。
func (u *authUsecase) deliver(ctx context.Context, user *entity.User, otp *entity.OneTimeCode) {
	if err := u.sender.SendOTP(ctx, user.Email, user.FullName, otp.Code, otp.ExpiresAt); err != nil {
		slog.Warn("failed to send otp", "error", err, "user_id", user.PublicID)
	}
}
