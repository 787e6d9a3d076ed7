package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewCodec_DefaultTTL(t *testing.T) {
	t.Parallel()

	c := NewCodec("secret", 0, clockwork.NewFakeClockAt(epoch))

	assert.Equal(t, 216000*time.Second, c.ttl)
}

// TestCodec_MintVerify は発行したトークンが検証でき、同じIDが取り出せることを検証します。
func TestCodec_MintVerify(t *testing.T) {
	t.Parallel()

	c := NewCodec("secret", time.Hour, clockwork.NewFakeClockAt(epoch))
	userID, sessionID := uuid.New(), uuid.New()

	token, expiresIn, err := c.Mint(userID, sessionID)
	require.NoError(t, err)
	assert.EqualValues(t, 3600, expiresIn)

	gotUser, gotSession, err := c.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, sessionID, gotSession)

	claims, err := c.Parse(token)
	require.NoError(t, err)
	assert.True(t, epoch.Equal(claims.IssuedAt.Time))
	assert.True(t, epoch.Add(time.Hour).Equal(claims.ExpiresAt.Time))
}

// TestCodec_Verify_Expired は有効期限を過ぎたトークンが拒否されることを検証します。
func TestCodec_Verify_Expired(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	c := NewCodec("secret", time.Hour, clock)

	token, _, err := c.Mint(uuid.New(), uuid.New())
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)

	_, _, err = c.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// TestCodec_Verify_Rejects は改ざん・別の鍵・別のアルゴリズム・形式不正のトークンが拒否されることを検証します。
func TestCodec_Verify_Rejects(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(epoch)
	c := NewCodec("secret", time.Hour, clock)
	other := NewCodec("other-secret", time.Hour, clock)

	valid, _, err := c.Mint(uuid.New(), uuid.New())
	require.NoError(t, err)
	foreign, _, err := other.Mint(uuid.New(), uuid.New())
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:    uuid.New(),
		SessionID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour)),
		},
	})
	wrongAlg, err := hs512.SignedString([]byte("secret"))
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: uuid.New(), SessionID: uuid.New()})
	withoutExp, err := noExp.SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not.a.valid.token"},
		{"random string", "randomstring"},
		{"tampered", valid[:len(valid)-2] + "xx"},
		{"wrong secret", foreign},
		{"wrong algorithm", wrongAlg},
		{"missing exp", withoutExp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := c.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
