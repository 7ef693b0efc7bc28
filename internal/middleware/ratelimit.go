package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/burakc/scholarhub/internal/app/models/dto"
)

// Limiter is a fixed-window request counter keyed by client
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

// MemoryLimiter is an in-process Limiter used when Redis is not configured.
// Counters reset when the process restarts, which is acceptable for a
// single-instance deployment.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
}

type rateBucket struct {
	count     int
	windowEnd time.Time
}

// NewMemoryLimiter creates a new in-process limiter
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*rateBucket)}
}

// Allow counts a request against the key's current window
func (l *MemoryLimiter) Allow(key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	bucket, ok := l.buckets[key]
	if !ok || now.After(bucket.windowEnd) {
		l.buckets[key] = &rateBucket{count: 1, windowEnd: now.Add(window)}
		return true
	}
	if bucket.count >= limit {
		return false
	}
	bucket.count++
	return true
}

// RateLimit rejects requests over the per-client budget with 429. A nil
// limiter disables the check.
func RateLimit(limiter Limiter, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}
		key := prefix + ":" + c.ClientIP()
		if !limiter.Allow(key, limit, window) {
			c.JSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many requests, slow down")))
			c.Abort()
			return
		}
		c.Next()
	}
}
