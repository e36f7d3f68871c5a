package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"archive-hub/backend/common"
	apperrors "archive-hub/backend/common/errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type inMemoryRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newInMemoryRateLimiter(maxRequests int, duration int64) *inMemoryRateLimiter {
	return &inMemoryRateLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Every(time.Duration(duration) * time.Second / time.Duration(maxRequests)),
		burst:    maxRequests,
	}
}

func (l *inMemoryRateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	v, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) > 10000 {
			for k, old := range l.limiters {
				if now.Sub(old.lastSeen) > time.Hour {
					delete(l.limiters, k)
				}
			}
		}
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = v
	}
	v.lastSeen = now
	return v.limiter.Allow()
}

func redisRateLimiter(c *gin.Context, maxRequestNum int, duration int64, mark string) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
	defer cancel()
	key := fmt.Sprintf("rateLimit:%s:%s", mark, c.ClientIP())
	count, err := common.RDB.Incr(ctx, key).Result()
	if err != nil {
		// Redis 不可用时放行
		common.SysError("rate limit: " + err.Error())
		return true
	}
	if count == 1 {
		common.RDB.Expire(ctx, key, time.Duration(duration)*time.Second)
	}
	return count <= int64(maxRequestNum)
}

func rateLimitFactory(maxRequestNum int, duration int64, mark string) gin.HandlerFunc {
	if common.RedisEnabled {
		return func(c *gin.Context) {
			if !redisRateLimiter(c, maxRequestNum, duration, mark) {
				common.AbortWithError(c, apperrors.New(apperrors.ErrTooManyRequests, "too many requests, try again later"))
				return
			}
			c.Next()
		}
	}
	limiter := newInMemoryRateLimiter(maxRequestNum, duration)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			common.AbortWithError(c, apperrors.New(apperrors.ErrTooManyRequests, "too many requests, try again later"))
			return
		}
		c.Next()
	}
}

// CriticalRateLimit throttles login attempts per client IP.
func CriticalRateLimit() gin.HandlerFunc {
	return rateLimitFactory(common.CriticalRateLimitNum, common.CriticalRateLimitDuration, "CR")
}
