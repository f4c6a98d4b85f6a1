package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per client IP within a fixed window.
type RateLimiter struct {
	mu      sync.Mutex
	counts  map[string]int
	resetAt time.Time
	limit   int
	window  time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counts:  make(map[string]int),
		resetAt: time.Now().Add(window),
		limit:   limit,
		window:  window,
	}
}

// Allow reports whether another request from ip fits within the
// current window, incrementing the counter when it does.
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now := time.Now(); now.After(l.resetAt) {
		l.counts = make(map[string]int)
		l.resetAt = now.Add(l.window)
	}

	if l.counts[ip] >= l.limit {
		return false
	}
	l.counts[ip]++
	return true
}

// RateLimit rejects requests over limit-per-window with a 429.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			slog.Warn("rate limit exceeded",
				"client_ip", ip,
				"request_id", GetRequestID(c),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
