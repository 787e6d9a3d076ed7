package di

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog_backend/internal/platform/config"
	"blog_backend/internal/platform/storage"
	"blog_backend/internal/shared/ratelimiter"
)

func TestNewStorage(t *testing.T) {
	t.Parallel()

	s, err := NewStorage(context.Background(), config.Storage{Driver: "disk", DiskRoot: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &storage.DiskStorage{}, s)

	_, err = NewStorage(context.Background(), config.Storage{Driver: "ftp"})
	assert.ErrorContains(t, err, `unknown storage driver "ftp"`)
}

func TestNewRateLimitStore(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	assert.IsType(t, &ratelimiter.MemoryStore{}, NewRateLimitStore(nil, clock))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	assert.IsType(t, &ratelimiter.RedisStore{}, NewRateLimitStore(rdb, clock))
}

func TestNewRateLimiter_DefaultWindow(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(nil, config.RateLimit{Limit: 1}, clockwork.NewFakeClock())
	ctx := context.Background()

	ok, _, err := rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, retryAfter, err := rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retryAfter)
}

func TestNewOTPSender_LogsWithoutSMTP(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sender, err := NewOTPSender(config.Mail{}, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "SMTP_HOST is not set")

	require.NoError(t, sender.SendOTP(context.Background(), "a@example.com", "Alice", "12345678", time.Now().Add(time.Minute)))
	assert.Contains(t, buf.String(), "mail not sent")
}
