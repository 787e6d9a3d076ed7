package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_backend/internal/feature/auth/domain/entity"
	"blog_backend/internal/shared/apperror"
)

var epoch = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRandomCode_Format(t *testing.T) {
	t.Parallel()

	re := regexp.MustCompile(`^[0-9]{8}$`)
	for range 200 {
		code, err := randomCode()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestOTPIssuer_Issue(t *testing.T) {
	t.Parallel()

	repo := &mockOTPRepository{}
	issuer := NewOTPIssuer(repo, clockwork.NewFakeClockAt(epoch))

	otp, err := issuer.Issue(context.Background(), 1, entity.PurposeEmailVerification, 10*time.Minute)
	require.NoError(t, err)

	assert.Len(t, otp.Code, entity.OTPLength)
	assert.Equal(t, entity.OTPAvailable, otp.Status)
	assert.True(t, epoch.Add(10*time.Minute).Equal(otp.ExpiresAt))
}

// TestOTPIssuer_Issue_ExpiresPrevious は再発行時に以前の未使用コードがEXPIREDになることを検証します。
func TestOTPIssuer_Issue_ExpiresPrevious(t *testing.T) {
	t.Parallel()

	repo := &mockOTPRepository{}
	issuer := NewOTPIssuer(repo, clockwork.NewFakeClockAt(epoch))
	ctx := context.Background()

	first, err := issuer.Issue(ctx, 1, entity.PurposeEmailVerification, 10*time.Minute)
	require.NoError(t, err)
	second, err := issuer.Issue(ctx, 1, entity.PurposeEmailVerification, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, entity.OTPExpired, repo.status(first.ID))
	assert.Equal(t, entity.OTPAvailable, repo.status(second.ID))
}

// TestOTPIssuer_Validate_SingleUse は同じコードの2回目の検証が失敗することを検証します。
func TestOTPIssuer_Validate_SingleUse(t *testing.T) {
	t.Parallel()

	repo := &mockOTPRepository{}
	issuer := NewOTPIssuer(repo, clockwork.NewFakeClockAt(epoch))
	issuer.generate = func() (string, error) { return "12345678", nil }
	ctx := context.Background()

	otp, err := issuer.Issue(ctx, 1, entity.PurposeEmailVerification, 10*time.Minute)
	require.NoError(t, err)

	require.NoError(t, issuer.Validate(ctx, 1, "12345678", entity.PurposeEmailVerification))
	assert.Equal(t, entity.OTPUsed, repo.status(otp.ID))

	err = issuer.Validate(ctx, 1, "12345678", entity.PurposeEmailVerification)
	assert.ErrorIs(t, err, apperror.NotFound("OTP is not valid"))
}

// TestOTPIssuer_Validate_Expired は期限切れのコードがEXPIREDになり、誤ったコードと同じメッセージで失敗することを検証します。
func TestOTPIssuer_Validate_Expired(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	repo := &mockOTPRepository{}
	issuer := NewOTPIssuer(repo, clock)
	issuer.generate = func() (string, error) { return "12345678", nil }
	ctx := context.Background()

	otp, err := issuer.Issue(ctx, 1, entity.PurposeEmailVerification, 10*time.Minute)
	require.NoError(t, err)

	clock.Advance(10*time.Minute + time.Second)

	err = issuer.Validate(ctx, 1, "12345678", entity.PurposeEmailVerification)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOTPExpired)
	assert.Equal(t, entity.OTPExpired, repo.status(otp.ID))

	wrong := issuer.Validate(ctx, 1, "00000000", entity.PurposeEmailVerification)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	wrongErr, ok := apperror.As(wrong)
	require.True(t, ok)
	assert.Equal(t, wrongErr.Message, appErr.Message)
	assert.Equal(t, wrongErr.Code(), appErr.Code())
}

func TestOTPIssuer_Validate_WrongPurposeOrUser(t *testing.T) {
	t.Parallel()

	repo := &mockOTPRepository{}
	issuer := NewOTPIssuer(repo, clockwork.NewFakeClockAt(epoch))
	issuer.generate = func() (string, error) { return "12345678", nil }
	ctx := context.Background()

	_, err := issuer.Issue(ctx, 1, entity.PurposeEmailVerification, time.Minute)
	require.NoError(t, err)

	assert.Error(t, issuer.Validate(ctx, 2, "12345678", entity.PurposeEmailVerification))
	assert.Error(t, issuer.Validate(ctx, 1, "12345678", entity.OTPPurpose("PASSWORD_RESET")))
}

func TestOTPIssuer_Validate_RepositoryError(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection reset")
	issuer := NewOTPIssuer(&mockOTPRepository{FindErr: dbErr}, clockwork.NewFakeClockAt(epoch))

	err := issuer.Validate(context.Background(), 1, "12345678", entity.PurposeEmailVerification)

	assert.ErrorIs(t, err, dbErr)
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
