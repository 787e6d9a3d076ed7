package di

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"blog_backend/internal/feature/upload/transport/handler"
	"blog_backend/internal/feature/upload/usecase"
	"blog_backend/internal/platform/config"
	"blog_backend/internal/platform/storage"
	"blog_backend/internal/shared/ratelimiter"
)

// NewStorage selects the object store by STORAGE_DRIVER ("disk" or "minio").
func NewStorage(ctx context.Context, cfg config.Storage) (storage.Storage, error) {
	switch cfg.Driver {
	case "disk", "":
		s, err := storage.NewDiskStorage(cfg.DiskRoot)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "minio":
		s, err := storage.NewMinioStorage(ctx, storage.MinioOptions{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// NewUpload creates the upload handler on top of store.
func NewUpload(store storage.Storage, cfg config.Storage) *handler.UploadHandler {
	return handler.NewUploadHandler(usecase.NewUploadUsecase(store), cfg.PublicBaseURL)
}

// NewRateLimitStore returns a Redis backed counter store if Redis is available.
// Otherwise it falls back to a per-process memory store.
func NewRateLimitStore(rdb *redis.Client, clock clockwork.Clock) ratelimiter.Store {
	if rdb != nil {
		return ratelimiter.NewRedisStore(rdb, "ratelimit")
	}
	return ratelimiter.NewMemoryStore(clock)
}

// NewRateLimiter creates the per-client limiter from RATE_LIMIT_* settings.
func NewRateLimiter(rdb *redis.Client, cfg config.RateLimit, clock clockwork.Clock) *ratelimiter.RateLimiter {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	return ratelimiter.NewRateLimiter(NewRateLimitStore(rdb, clock), cfg.Limit, window)
}
