// Package ratelimit provides a per-caller token bucket for fiber routes.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/DanielMontoya72/490-The-Team-sub011/pkg/security/jwt"
)

const (
	sweepThreshold = 10000
	idleTTL        = 10 * time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per key.
type Limiter struct {
	mu      sync.Mutex
	perSec  rate.Limit
	burst   int
	buckets map[string]*entry
	now     func() time.Time
}

func New(perSecond float64, burst int) *Limiter {
	return &Limiter{
		perSec:  rate.Limit(perSecond),
		burst:   burst,
		buckets: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow reports whether key may proceed now.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= sweepThreshold {
			l.sweep(now)
		}
		e = &entry{limiter: rate.NewLimiter(l.perSec, l.burst)}
		l.buckets[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (l *Limiter) sweep(now time.Time) {
	for k, e := range l.buckets {
		if now.Sub(e.lastSeen) > idleTTL {
			delete(l.buckets, k)
		}
	}
}

// Middleware limits requests per authenticated user, falling back to the
// client IP. It must run after the auth middleware to see the user.
func (l *Limiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, _ := c.Locals(jwt.LocalUserID).(string)
		if key == "" {
			key = "ip:" + c.IP()
		}
		if !l.Allow(key) {
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(http.StatusTooManyRequests).JSON(fiber.Map{"success": false, "error": "rate limit exceeded"})
		}
		return c.Next()
	}
}
