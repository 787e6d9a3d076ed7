package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"blog_backend/internal/feature/auth/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByPublicID は公開IDに一致するユーザーを取得します。
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.User, error)

	// MarkVerified はメールアドレスを検証済みにします。
	MarkVerified(ctx context.Context, id uint, at time.Time) error

	// UpdateProfile は表示名を更新します。
	UpdateProfile(ctx context.Context, id uint, fullName string) error
}

// OTPRepository はワンタイムコードの永続化層を抽象化します。
type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OneTimeCode) error

	// FindAvailable は (user, code, purpose) に一致するAVAILABLEなコードを返します。
	// 存在しない場合、ErrOTPNotFoundを返します。
	FindAvailable(ctx context.Context, userID uint, code string, purpose entity.OTPPurpose) (*entity.OneTimeCode, error)

	UpdateStatus(ctx context.Context, id uint, status entity.OTPStatus) error

	// ExpireAvailable は (user, purpose) のAVAILABLEなコードをすべてEXPIREDにします。
	ExpireAvailable(ctx context.Context, userID uint, purpose entity.OTPPurpose) (int64, error)
}

// SessionRepository はセッションの永続化層を抽象化します。
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error

	// FindActiveByPublicID はACTIVEなセッションのみを返します。
	// LOGOUT済みや存在しない場合、ErrSessionNotFoundを返します。
	FindActiveByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Session, error)

	// MarkLogout はACTIVEなセッションをLOGOUTにし、更新したかどうかを返します。
	MarkLogout(ctx context.Context, publicID uuid.UUID) (bool, error)

	// ListByUserID はユーザーの全セッションを新しい順に返します。
	ListByUserID(ctx context.Context, userID uint) ([]*entity.Session, error)
}

// RoleRepository はロールとその割り当ての永続化層を抽象化します。
type RoleRepository interface {
	// FindByName は名前でロールを取得します。存在しない場合、ErrRoleNotFoundを返します。
	FindByName(ctx context.Context, name string) (*entity.Role, error)

	List(ctx context.Context) ([]*entity.Role, error)

	// Assign はユーザーにロールを割り当てます。
	// 既に割り当て済みの場合、ErrRoleAlreadyAssignedを返します。
	Assign(ctx context.Context, userID, roleID uint) error

	// NamesByUserID はユーザーが持つロール名を返します。
	NamesByUserID(ctx context.Context, userID uint) ([]string, error)
}

// Transactor は複数の書き込みを1つのトランザクションにまとめます。
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TokenCodec は {user, session} を署名付きトークンに変換します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenCodec interface {
	// Mint はトークンと有効期間（秒）を返します。
	Mint(userID, sessionID uuid.UUID) (string, int64, error)

	// Verify は署名と有効期限を検証し、ユーザーとセッションの公開IDを返します。
	Verify(token string) (userID, sessionID uuid.UUID, err error)
}

// OTPSender はワンタイムコードを利用者に届けます。
type OTPSender interface {
	SendOTP(ctx context.Context, to, fullName, code string, expiresAt time.Time) error
}
