package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// CounterKey is the Redis key holding the number of requests served.
// The counter handler reads and resets the same key.
const CounterKey = "request_count"

// NewRequestCounter returns a middleware that increments the shared
// request counter in Redis for every incoming request. The counter is
// shared across all instances of the service. When rdb is nil the
// middleware is a pass-through; an increment failure is ignored so a
// Redis outage never blocks request handling.
func NewRequestCounter(rdb *redis.Client) echo.MiddlewareFunc {
	if rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if n, err := rdb.Incr(c.Request().Context(), CounterKey).Result(); err == nil {
				c.Set("request_count", n)
			}
			return next(c)
		}
	}
}
