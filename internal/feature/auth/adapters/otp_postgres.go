package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/feature/auth/usecase"
	"blog_backend/internal/platform/db"
)

// otpPostgres はOTPRepositoryのPostgreSQL実装です。
type otpPostgres struct {
	db *gorm.DB
}

var _ usecase.OTPRepository = (*otpPostgres)(nil)

// NewOTPPostgres はotpPostgresの新しいインスタンスを生成します。
func NewOTPPostgres(gdb *gorm.DB) *otpPostgres {
	return &otpPostgres{db: gdb}
}

// Create はコードを保存します。
func (r *otpPostgres) Create(ctx context.Context, otp *entity.OneTimeCode) error {
	m := &OTPModel{
		UserID:    otp.UserID,
		Code:      otp.Code,
		Purpose:   string(otp.Purpose),
		Status:    string(otp.Status),
		ExpiresAt: otp.ExpiresAt,
		CreatedAt: otp.CreatedAt,
	}
	if err := db.Conn(ctx, r.db).Create(m).Error; err != nil {
		return err
	}
	otp.ID = m.ID
	otp.CreatedAt = m.CreatedAt
	return nil
}

// FindAvailable はAVAILABLEなコードを検索します。
func (r *otpPostgres) FindAvailable(ctx context.Context, userID uint, code string, purpose entity.OTPPurpose) (*entity.OneTimeCode, error) {
	var m OTPModel
	err := db.Conn(ctx, r.db).
		Where("user_id = ? AND code = ? AND purpose = ? AND status = ?", userID, code, string(purpose), string(entity.OTPAvailable)).
		Order("id DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrOTPNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// UpdateStatus はコードの状態を更新します。
func (r *otpPostgres) UpdateStatus(ctx context.Context, id uint, status entity.OTPStatus) error {
	result := db.Conn(ctx, r.db).Model(&OTPModel{}).Where("id = ?", id).Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrOTPNotFound
	}
	return nil
}

// ExpireAvailable は (user, purpose) のAVAILABLEなコードをすべてEXPIREDにします。
func (r *otpPostgres) ExpireAvailable(ctx context.Context, userID uint, purpose entity.OTPPurpose) (int64, error) {
	result := db.Conn(ctx, r.db).
		Model(&OTPModel{}).
		Where("user_id = ? AND purpose = ? AND status = ?", userID, string(purpose), string(entity.OTPAvailable)).
		Update("status", string(entity.OTPExpired))
	return result.RowsAffected, result.Error
}
