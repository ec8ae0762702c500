// Package middleware provides HTTP middleware for Academy.
// ratelimit.go implements a per-IP fixed-window rate limiter whose counters
// live in Redis, so every server instance shares the same budget. Used on
// the login, register and refresh endpoints.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// rateLimitKeyPrefix namespaces limiter counters in Redis.
const rateLimitKeyPrefix = "ratelimit:"

// hitScript increments the window counter, starts the window on the first
// hit, and returns {count, remaining ttl in ms}.
var hitScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// RateLimiter hands out rate limiting middleware backed by one Redis client.
type RateLimiter struct {
	rdb *redis.Client
}

// NewRateLimiter creates a limiter that stores its counters in rdb.
func NewRateLimiter(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{rdb: rdb}
}

// Limit returns middleware that allows maxRequests per client IP within
// each window for the named bucket, and answers 429 with Retry-After once
// the budget is spent. If Redis is unreachable the request is let through:
// losing the limiter must not lock everyone out of login.
func (l *RateLimiter) Limit(bucket string, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateLimitKeyPrefix + bucket + ":" + c.RealIP()

			res, err := hitScript.Run(c.Request().Context(), l.rdb,
				[]string{key}, window.Milliseconds(),
			).Int64Slice()
			if err != nil || len(res) != 2 {
				slog.Warn("rate limiter unavailable, allowing request",
					slog.String("bucket", bucket),
					slog.Any("error", err),
				)
				return next(c)
			}

			count, ttl := res[0], time.Duration(res[1])*time.Millisecond
			if count > int64(maxRequests) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(ttl)))
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error":   "rate_limited",
					"message": "Rate limit exceeded. Please try again later.",
				})
			}
			return next(c)
		}
	}
}

// retryAfterSeconds rounds the remaining window up to whole seconds.
func retryAfterSeconds(ttl time.Duration) int {
	secs := int((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
