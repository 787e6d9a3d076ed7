package middleware

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"blog_backend/internal/api"
	"blog_backend/internal/shared/apperror"
)

// Limiter はキーごとの操作回数を判定します。
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RateLimit はクライアントIPごとにリクエストを制限します。
// 上限を超えた場合は429を返します。カウンターの保存先が使えない場合はリクエストを通します。
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err, "remote_addr", c.ClientIP())
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			api.WriteError(c, apperror.RateLimited("Too Many Requests"))
			return
		}
		c.Next()
	}
}
