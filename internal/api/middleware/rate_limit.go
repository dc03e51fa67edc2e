package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/redis"
)

const limiterIdleTTL = 5 * time.Minute

// RateLimit 登录/注册限流
// rdb 非空时使用 Redis 滑动窗口（多实例共享计数）；
// 为空或 Redis 出错时退回进程内令牌桶
func RateLimit(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	local := newLocalLimiter(limit, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if rdb != nil {
			key := fmt.Sprintf("rate_limit:%s:%s", ip, c.FullPath())
			allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
			if err == nil {
				if !allowed {
					abortWith(c, apperrors.ErrTooManyRequests)
					return
				}
				c.Next()
				return
			}
			logger.Warn("Redis 限流失败，使用本地限流", zap.Error(err))
		}

		if !local.allow(ip + c.FullPath()) {
			abortWith(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// localLimiter 按 key 维护令牌桶，空闲超过 limiterIdleTTL 的桶在下次访问时清理
type localLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	every   rate.Limit
	burst   int
	swept   time.Time
}

func newLocalLimiter(limit int, window time.Duration) *localLimiter {
	return &localLimiter{
		buckets: make(map[string]*bucket),
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		swept:   time.Now(),
	}
}

func (l *localLimiter) allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) > limiterIdleTTL {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > limiterIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.swept = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}
