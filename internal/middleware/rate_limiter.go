package middleware

import (
	"net/http"
	"sync"
	"time"

	"ims/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// windowLimiter counts requests per client IP in fixed windows.
// Expired entries are purged lazily, at most once per window.
type windowLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	entries   map[string]*windowEntry
	nextPurge time.Time
}

type windowEntry struct {
	count     int
	windowEnd time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	return &windowLimiter{limit: limit, window: window, now: time.Now, entries: make(map[string]*windowEntry)}
}

// allow records one hit for ip and reports whether it is within the limit,
// plus the time the current window ends.
func (l *windowLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextPurge) {
		l.purge(now)
		l.nextPurge = now.Add(l.window)
	}

	e, ok := l.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *windowLimiter) purge(now time.Time) {
	purged := 0
	for ip, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter entries purged")
	}
}

// LoginRateLimiter limits login and registration attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newWindowLimiter(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.allow(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many login attempts, try again in a minute"))
			return
		}
		c.Next()
	}
}

// RateLimiter returns a general-purpose per-IP limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newWindowLimiter(limit, window)
	return func(c *gin.Context) {
		ok, end := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", end.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}
