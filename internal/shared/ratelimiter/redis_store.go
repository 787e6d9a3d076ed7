package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore はINCRとEXPIREでカウンターを保持します。複数インスタンスで上限を共有できます。
type RedisStore struct {
	rdb       *redis.Client
	namespace string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore は新しいRedisStoreを生成します。namespaceが空の場合は "ratelimit" を使います。
func NewRedisStore(rdb *redis.Client, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "ratelimit"
	}
	return &RedisStore{rdb: rdb, namespace: namespace}
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := s.namespace + ":" + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count request: %w", err)
	}

	// 期限のないキーはウィンドウの最初のHitです。後続のHitでは延長しません。
	resetIn := ttl.Val()
	if resetIn < 0 {
		if err := s.rdb.Expire(ctx, k, window).Err(); err != nil {
			return 0, 0, fmt.Errorf("failed to set window: %w", err)
		}
		resetIn = window
	}
	return incr.Val(), resetIn, nil
}
