package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_HasAnyRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		roles   []string
		allowed []string
		want    bool
	}{
		{"user rejected by admin gate", []string{RoleUser}, []string{RoleAdmin}, false},
		{"admin accepted", []string{RoleUser, RoleAdmin}, []string{RoleAdmin}, true},
		{"any of several", []string{RoleUser}, []string{RoleAdmin, RoleUser}, true},
		{"no roles", nil, []string{RoleUser}, false},
		{"empty allow list", []string{RoleAdmin}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &Principal{Roles: tt.roles}
			assert.Equal(t, tt.want, p.HasAnyRole(tt.allowed...))
		})
	}
}

func TestOneTimeCode_ExpiredAt(t *testing.T) {
	t.Parallel()

	exp := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	otp := &OneTimeCode{ExpiresAt: exp}

	assert.False(t, otp.ExpiredAt(exp.Add(-time.Second)))
	assert.False(t, otp.ExpiredAt(exp))
	assert.True(t, otp.ExpiredAt(exp.Add(time.Nanosecond)))
}

func TestUser_IsVerified(t *testing.T) {
	t.Parallel()

	u := &User{}
	assert.False(t, u.IsVerified())

	now := time.Now()
	u.EmailVerifiedAt = &now
	assert.True(t, u.IsVerified())
}
