// Package cache provides caching decorators for read-heavy usecases.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"blog_backend/internal/feature/article/domain/entity"
)

// Ranker produces a popularity ranking for a range name.
type Ranker interface {
	Rank(ctx context.Context, rangeName string) (*entity.Ranking, error)
}

// CachingRanker decorates a Ranker with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying aggregator. Failed rankings are never cached.
type CachingRanker struct {
	inner     Ranker
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	clock     clockwork.Clock
	loc       *time.Location
}

// NewCachingRanker decorates a Ranker with Redis caching.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "popular".
// loc must match the aggregator's location so that "today" entries expire at the same midnight.
func NewCachingRanker(rdb *redis.Client, ttl time.Duration, inner Ranker, namespace string, clock clockwork.Clock, loc *time.Location) *CachingRanker {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "popular"
	}
	if loc == nil {
		loc = time.Local
	}
	return &CachingRanker{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		clock:     clock,
		loc:       loc,
	}
}

// Rank returns the cached ranking when present, otherwise delegates and stores the result.
func (c *CachingRanker) Rank(ctx context.Context, rangeName string) (*entity.Ranking, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Rank(ctx, rangeName)
	}

	now := c.clock.Now()
	key := c.cacheKey(rangeName, now)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Ranking
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the aggregator
	out, err := c.inner.Rank(ctx, rangeName)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.expiry(rangeName, now)).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a range. "today" is keyed by the local date.
func (c *CachingRanker) cacheKey(rangeName string, now time.Time) string {
	if rangeName == entity.RangeToday {
		return fmt.Sprintf("%s:%s:%s", c.namespace, safe(rangeName), now.In(c.loc).Format(time.DateOnly))
	}
	return fmt.Sprintf("%s:%s", c.namespace, safe(rangeName))
}

// expiry caps "today" entries at the next local midnight.
func (c *CachingRanker) expiry(rangeName string, now time.Time) time.Duration {
	if rangeName != entity.RangeToday {
		return c.ttl
	}
	return min(c.ttl, TimeUntilNextDay(now, c.loc))
}
