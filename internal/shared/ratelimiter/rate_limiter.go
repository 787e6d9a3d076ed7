// Package ratelimiter はクライアントごとの固定ウィンドウ方式のレート制限を提供します。
package ratelimiter

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Store はキーごとのカウンターを保持します。
// Hit はカウンターを1増やし、増やした後の値とウィンドウの残り時間を返します。
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// RateLimiter は、ウィンドウごとにlimit回までの操作を許可します。
type RateLimiter struct {
	store  Store
	limit  int64         // ウィンドウあたりの上限
	window time.Duration // どの単位でリセットするか
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(store Store, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{store: store, limit: int64(limit), window: window}
}

// Allow はkeyの操作を1回数え、上限内であればtrueを返します。
// falseの場合、retryAfterはウィンドウがリセットされるまでの時間です。
func (rl *RateLimiter) Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error) {
	count, resetIn, err := rl.store.Hit(ctx, key, rl.window)
	if err != nil {
		return false, 0, err
	}
	if count > rl.limit {
		return false, resetIn, nil
	}
	return true, 0, nil
}

type window struct {
	count     int64
	lastReset time.Time
}

// MemoryStore はプロセス内のマップでカウンターを保持します。Redisがない場合に使います。
type MemoryStore struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	windows   map[string]*window
	lastSweep time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore は新しいMemoryStoreを生成します。
func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	return &MemoryStore{clock: clock, windows: make(map[string]*window)}
}

func (s *MemoryStore) Hit(ctx context.Context, key string, interval time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	w, ok := s.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= interval {
		w = &window{lastReset: now}
		s.windows[key] = w
		// 全件走査はintervalに1回まで
		if now.Sub(s.lastSweep) >= interval {
			s.sweep(now, interval)
			s.lastSweep = now
		}
	}
	w.count++
	return w.count, interval - now.Sub(w.lastReset), nil
}

// sweep は期限切れのウィンドウを削除します。呼び出し側でロックを保持していること。
func (s *MemoryStore) sweep(now time.Time, interval time.Duration) {
	for k, w := range s.windows {
		if now.Sub(w.lastReset) >= interval {
			delete(s.windows, k)
		}
	}
}
