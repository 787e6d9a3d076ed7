package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jonboulle/clockwork"

	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/shared/apperror"
)

// msgOTPInvalid は誤ったコードと期限切れのコードで共通のメッセージです。
const msgOTPInvalid = "OTP is not valid"

// otpSpace は8桁コードの取りうる値の数です。
var otpSpace = big.NewInt(100_000_000)

// OTPIssuer はワンタイムコードの発行と検証を行います。
type OTPIssuer struct {
	otps     OTPRepository
	clock    clockwork.Clock
	generate func() (string, error)
}

// NewOTPIssuer はOTPIssuerの新しいインスタンスを生成します。
func NewOTPIssuer(otps OTPRepository, clock clockwork.Clock) *OTPIssuer {
	return &OTPIssuer{
		otps:     otps,
		clock:    clock,
		generate: randomCode,
	}
}

// randomCode は[00000000, 99999999]から一様にサンプリングしたゼロ埋めのコードを返します。
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", entity.OTPLength, n.Int64()), nil
}

// Issue は新しいコードを発行して永続化します。
// 同じ (user, purpose) で未使用のコードは先にEXPIREDにします。
// 配信は呼び出し側の責務です。
func (i *OTPIssuer) Issue(ctx context.Context, userID uint, purpose entity.OTPPurpose, validity time.Duration) (*entity.OneTimeCode, error) {
	if _, err := i.otps.ExpireAvailable(ctx, userID, purpose); err != nil {
		return nil, fmt.Errorf("failed to expire previous otps: %w", err)
	}

	code, err := i.generate()
	if err != nil {
		return nil, err
	}

	now := i.clock.Now().UTC()
	otp := &entity.OneTimeCode{
		UserID:    userID,
		Code:      code,
		Purpose:   purpose,
		Status:    entity.OTPAvailable,
		ExpiresAt: now.Add(validity),
		CreatedAt: now,
	}
	if err := i.otps.Create(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to store otp: %w", err)
	}
	return otp, nil
}

// Validate はコードを検証し、成功時にUSEDにします。
// 期限切れのコードはEXPIREDにした上で、誤ったコードと同じエラーを返します。
// 期限切れの場合、返すエラーはErrOTPExpiredをラップします。
func (i *OTPIssuer) Validate(ctx context.Context, userID uint, code string, purpose entity.OTPPurpose) error {
	otp, err := i.otps.FindAvailable(ctx, userID, code, purpose)
	if err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			return apperror.NotFound(msgOTPInvalid)
		}
		return fmt.Errorf("failed to find otp: %w", err)
	}

	if otp.ExpiredAt(i.clock.Now()) {
		if err := i.otps.UpdateStatus(ctx, otp.ID, entity.OTPExpired); err != nil {
			return fmt.Errorf("failed to expire otp: %w", err)
		}
		return &apperror.Error{Kind: apperror.KindNotFound, Message: msgOTPInvalid, Err: ErrOTPExpired}
	}

	if err := i.otps.UpdateStatus(ctx, otp.ID, entity.OTPUsed); err != nil {
		return fmt.Errorf("failed to use otp: %w", err)
	}
	return nil
}
