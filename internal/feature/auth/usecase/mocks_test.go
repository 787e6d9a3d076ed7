package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"blog_backend/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of UserRepository.
type mockUserRepository struct {
	CreateFunc         func(ctx context.Context, user *entity.User) error
	FindByEmailFunc    func(ctx context.Context, email string) (*entity.User, error)
	FindByIDFunc       func(ctx context.Context, id uint) (*entity.User, error)
	FindByPublicIDFunc func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	MarkVerifiedFunc   func(ctx context.Context, id uint, at time.Time) error
	UpdateProfileFunc  func(ctx context.Context, id uint, fullName string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByPublicID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.FindByPublicIDFunc != nil {
		return m.FindByPublicIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) MarkVerified(ctx context.Context, id uint, at time.Time) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, id, at)
	}
	return nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id uint, fullName string) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, fullName)
	}
	return nil
}

// mockOTPRepository keeps codes in a slice so that status transitions are observable.
type mockOTPRepository struct {
	codes   []*entity.OneTimeCode
	FindErr error
}

func (m *mockOTPRepository) Create(ctx context.Context, otp *entity.OneTimeCode) error {
	otp.ID = uint(len(m.codes) + 1)
	cp := *otp
	m.codes = append(m.codes, &cp)
	return nil
}

func (m *mockOTPRepository) FindAvailable(ctx context.Context, userID uint, code string, purpose entity.OTPPurpose) (*entity.OneTimeCode, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for i := len(m.codes) - 1; i >= 0; i-- {
		c := m.codes[i]
		if c.UserID == userID && c.Code == code && c.Purpose == purpose && c.Status == entity.OTPAvailable {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrOTPNotFound
}

func (m *mockOTPRepository) UpdateStatus(ctx context.Context, id uint, status entity.OTPStatus) error {
	for _, c := range m.codes {
		if c.ID == id {
			c.Status = status
			return nil
		}
	}
	return ErrOTPNotFound
}

func (m *mockOTPRepository) ExpireAvailable(ctx context.Context, userID uint, purpose entity.OTPPurpose) (int64, error) {
	var n int64
	for _, c := range m.codes {
		if c.UserID == userID && c.Purpose == purpose && c.Status == entity.OTPAvailable {
			c.Status = entity.OTPExpired
			n++
		}
	}
	return n, nil
}

func (m *mockOTPRepository) status(id uint) entity.OTPStatus {
	for _, c := range m.codes {
		if c.ID == id {
			return c.Status
		}
	}
	return ""
}

// mockSessionRepository is a mock implementation of SessionRepository.
type mockSessionRepository struct {
	CreateFunc               func(ctx context.Context, s *entity.Session) error
	FindActiveByPublicIDFunc func(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	MarkLogoutFunc           func(ctx context.Context, id uuid.UUID) (bool, error)
	ListByUserIDFunc         func(ctx context.Context, userID uint) ([]*entity.Session, error)
}

func (m *mockSessionRepository) Create(ctx context.Context, s *entity.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *mockSessionRepository) FindActiveByPublicID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	if m.FindActiveByPublicIDFunc != nil {
		return m.FindActiveByPublicIDFunc(ctx, id)
	}
	return nil, ErrSessionNotFound
}

func (m *mockSessionRepository) MarkLogout(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.MarkLogoutFunc != nil {
		return m.MarkLogoutFunc(ctx, id)
	}
	return false, nil
}

func (m *mockSessionRepository) ListByUserID(ctx context.Context, userID uint) ([]*entity.Session, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

// mockRoleRepository is a mock implementation of RoleRepository.
type mockRoleRepository struct {
	FindByNameFunc    func(ctx context.Context, name string) (*entity.Role, error)
	ListFunc          func(ctx context.Context) ([]*entity.Role, error)
	AssignFunc        func(ctx context.Context, userID, roleID uint) error
	NamesByUserIDFunc func(ctx context.Context, userID uint) ([]string, error)
}

func (m *mockRoleRepository) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return &entity.Role{ID: 1, Name: name}, nil
}

func (m *mockRoleRepository) List(ctx context.Context) ([]*entity.Role, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockRoleRepository) Assign(ctx context.Context, userID, roleID uint) error {
	if m.AssignFunc != nil {
		return m.AssignFunc(ctx, userID, roleID)
	}
	return nil
}

func (m *mockRoleRepository) NamesByUserID(ctx context.Context, userID uint) ([]string, error) {
	if m.NamesByUserIDFunc != nil {
		return m.NamesByUserIDFunc(ctx, userID)
	}
	return []string{entity.RoleUser}, nil
}

// mockTokenCodec is a mock implementation of TokenCodec.
type mockTokenCodec struct {
	MintFunc   func(userID, sessionID uuid.UUID) (string, int64, error)
	VerifyFunc func(token string) (uuid.UUID, uuid.UUID, error)
}

func (m *mockTokenCodec) Mint(userID, sessionID uuid.UUID) (string, int64, error) {
	if m.MintFunc != nil {
		return m.MintFunc(userID, sessionID)
	}
	return "mock-token", 216000, nil
}

func (m *mockTokenCodec) Verify(token string) (uuid.UUID, uuid.UUID, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	return uuid.Nil, uuid.Nil, errors.New("invalid token")
}

// mockSender records the last delivered code.
type mockSender struct {
	to, code string
	calls    int
	err      error
}

func (m *mockSender) SendOTP(ctx context.Context, to, fullName, code string, expiresAt time.Time) error {
	m.calls++
	m.to, m.code = to, code
	return m.err
}

// passthroughTx runs fn directly, without a real transaction.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
