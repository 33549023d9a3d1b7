package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ironbrigade/recruitment-portal/internal/api/metrics"
)

// Limiter takes one token for key, reporting how long to wait when denied.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RateLimit rejects requests with 429 once the caller's bucket is empty. The
// bucket key is the authenticated user id, or the client IP for anonymous
// callers. Limiter failures let the request through.
func RateLimit(limiter Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if userID, _ := c.Get(ContextUserID).(string); userID != "" {
				key = "user:" + userID
			}

			allowed, retry, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				secs := int(math.Ceil(retry.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				metrics.RateLimitedTotal.WithLabelValues(c.Path()).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

const maxMemoryBuckets = 10000

// MemoryLimiter is an in-process token bucket per key, used when Redis is
// not configured.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
	burst   int
}

// NewMemoryLimiter holds up to capacity tokens per key and adds one token
// every interval.
func NewMemoryLimiter(capacity int, interval time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*rate.Limiter),
		every:   rate.Every(interval),
		burst:   capacity,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	m.mu.Lock()
	l, ok := m.buckets[key]
	if !ok {
		if len(m.buckets) >= maxMemoryBuckets {
			m.buckets = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(m.every, m.burst)
		m.buckets[key] = l
	}
	m.mu.Unlock()

	r := l.Reserve()
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return false, delay, nil
	}
	return true, 0, nil
}
