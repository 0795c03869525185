package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gestio-app/gestio/internal/constants"
	apperrors "github.com/gestio-app/gestio/internal/errors"
	"github.com/gin-gonic/gin"
)

type rateWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window per-IP request limiter held in process
// memory. It protects a single instance from bursty clients; the Redis
// throttle handles the cross-instance, per-account budget separately.
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*rateWindow
	max      int
	duration time.Duration
}

func NewRateLimiter(max int, duration time.Duration) *RateLimiter {
	if max <= 0 {
		max = 60
	}
	if duration <= 0 {
		duration = time.Minute
	}
	return &RateLimiter{
		windows:  make(map[string]*rateWindow),
		max:      max,
		duration: duration,
	}
}

// Allow records one request for key and reports whether it is within the
// window budget.
func (l *RateLimiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = &rateWindow{count: 1, resetAt: now.Add(l.duration)}
		l.sweepLocked(now)
		return true
	}

	w.count++
	return w.count <= l.max
}

// sweepLocked drops stale windows so the map does not grow with every IP
// ever seen. Called opportunistically while the lock is already held.
func (l *RateLimiter) sweepLocked(now time.Time) {
	if len(l.windows) < 4096 {
		return
	}
	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

// Middleware rejects requests over the per-IP budget with a 429.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				constants.BuildErrorResponse(apperrors.ErrTooManyAttempts.Message, ""))
			return
		}
		c.Next()
	}
}
