// Package jwtmw はトークンの発行・検証と、それを使うginミドルウェアを提供します。
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// DefaultTTL はトークンの既定の有効期間（60*60*60秒）です。
const DefaultTTL = 60 * 60 * 60 * time.Second

// ErrInvalidToken は署名不正・期限切れ・形式不正のトークンを表します。
var ErrInvalidToken = errors.New("invalid token")

// Claims はトークンのペイロードです。
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	SessionID uuid.UUID `json:"session_id"`
	jwt.RegisteredClaims
}

// Codec はHS256で署名したトークンを発行・検証します。
type Codec struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewCodec はCodecを生成します。ttlが0以下の場合はDefaultTTLを使います。
func NewCodec(secret string, ttl time.Duration, clock clockwork.Clock) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clock,
	}
}

// Mint は {user, session} を含む署名済みトークンと有効期間（秒）を返します。
func (c *Codec) Mint(userID, sessionID uuid.UUID) (string, int64, error) {
	now := c.clock.Now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, int64(c.ttl / time.Second), nil
}

// Parse はトークンを検証してClaimsを返します。
func (c *Codec) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == uuid.Nil || claims.SessionID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify はトークンを検証し、ユーザーとセッションの公開IDを返します。
func (c *Codec) Verify(tokenStr string) (uuid.UUID, uuid.UUID, error) {
	claims, err := c.Parse(tokenStr)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return claims.UserID, claims.SessionID, nil
}
