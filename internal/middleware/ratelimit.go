package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter bounds the request rate per client address over a sliding
// window. The API serves a single local front end, so its job is to contain
// reconnect loops and runaway scripts rather than distributed abuse; stale
// timestamps are pruned inline on each check instead of by a sweeper
// goroutine.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	clients map[string][]time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string][]time.Time),
	}
}

// Allow records a request for key and reports whether it fits in the window.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	kept := rl.clients[key][:0]
	for _, t := range rl.clients[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= rl.limit {
		rl.clients[key] = kept
		return false
	}
	rl.clients[key] = append(kept, rl.now())
	return true
}

// RateLimitMiddleware rejects requests over the limit with 429. The window
// length doubles as the Retry-After hint.
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	retryAfter := int(limiter.window / time.Second)
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Too many requests. Please try again later.",
				},
			})
			return
		}

		c.Next()
	}
}
