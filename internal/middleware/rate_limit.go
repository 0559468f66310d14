package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== CooldownLimiter ====================

// CooldownLimiter per-key cooldown: once marked, a key is blocked until interval has passed
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
}

type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// NewCooldownLimiter empty limiter
func NewCooldownLimiter() *CooldownLimiter {
	return &CooldownLimiter{}
}

// CheckResult outcome of a limiter lookup
type CheckResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

// CheckOnly looks without marking
func (r *CooldownLimiter) CheckOnly(key string, interval time.Duration) CheckResult {
	actual, ok := r.locks.Load(key)
	if !ok {
		return CheckResult{Allowed: true}
	}

	entry := actual.(*lockEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := time.Since(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	return CheckResult{Allowed: true}
}

// MarkExecuted starts the cooldown for key
func (r *CooldownLimiter) MarkExecuted(key string) {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastTime = time.Now()
}

// Reset forgets key
func (r *CooldownLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Login throttle ====================

// LoginKey limiter key for a client address
func LoginKey(clientIP string) string {
	return fmt.Sprintf("login:%s", clientIP)
}

// LoginThrottle after a rejected login the client waits interval before the next attempt.
// A successful login clears the cooldown. interval <= 0 disables the throttle.
func LoginThrottle(limiter *CooldownLimiter, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if interval <= 0 {
			c.Next()
			return
		}

		key := LoginKey(c.ClientIP())
		if result := limiter.CheckOnly(key, interval); !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
			abortDetail(c, http.StatusTooManyRequests, formatRetryMessage(result.RetryAfter))
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusOK:
			limiter.Reset(key)
		case http.StatusUnauthorized:
			limiter.MarkExecuted(key)
		}
	}
}

func formatRetryMessage(d time.Duration) string {
	if d < time.Second {
		return "Request was throttled. Expected available in 1 second."
	}
	return fmt.Sprintf("Request was throttled. Expected available in %d seconds.", int(d.Seconds())+1)
}
