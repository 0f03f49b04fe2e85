package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimitConfig holds the global request ceiling: Max requests per Window
// per source address, applied uniformly to all routes.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// DefaultRateLimitConfig returns the default ceiling of 100 requests per
// 15-minute window.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Max:    100,
		Window: 15 * time.Minute,
	}
}

// window tracks request counts for one source address in the current
// fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// rateLimiterStore holds per-address windows. Entries from past windows are
// reused in place, so the map grows only with the number of distinct
// addresses seen.
type rateLimiterStore struct {
	windows map[string]*window
	mu      sync.Mutex
	config  RateLimitConfig
	now     func() time.Time
}

func newRateLimiterStore(cfg RateLimitConfig) *rateLimiterStore {
	return &rateLimiterStore{
		windows: make(map[string]*window),
		config:  cfg,
		now:     time.Now,
	}
}

// allow records a request for key and reports whether it is within the
// ceiling, along with the seconds until the window resets.
func (s *rateLimiterStore) allow(key string) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(s.config.Window)}
		s.windows[key] = w
	}

	retryAfter := int(w.resetAt.Sub(now).Seconds()) + 1
	if w.count >= s.config.Max {
		return false, retryAfter
	}
	w.count++
	return true, retryAfter
}

// RateLimit returns middleware enforcing a fixed-window request ceiling per
// source IP. A zero or negative ceiling falls back to the default config.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Max <= 0 || cfg.Window <= 0 {
		cfg = DefaultRateLimitConfig()
	}
	store := newRateLimiterStore(cfg)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, retryAfter := store.allow(c.RealIP())
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
