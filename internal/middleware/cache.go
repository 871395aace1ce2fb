package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-collection-api/internal/config"
)

// cachedResponse is the envelope stored in Redis for one cached GET.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyCapture tees the response body into a buffer up to a size limit
// while forwarding everything to the client. written tracks the full
// response size so an over-limit body is recognizable: the buffer alone
// cannot tell "exactly limit bytes" apart from "truncated at limit".
type bodyCapture struct {
	http.ResponseWriter
	status  int
	buf     bytes.Buffer
	limit   int
	written int
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.written += len(b)
	if w.buf.Len() < w.limit {
		n := w.limit - w.buf.Len()
		if n > len(b) {
			n = len(b)
		}
		w.buf.Write(b[:n])
	}
	return w.ResponseWriter.Write(b)
}

// NewResponseCache returns a middleware that caches successful GET
// responses in Redis. Only 200 responses no larger than
// cfg.MaxBodyBytes are stored; anything else passes through untouched.
// Hits carry an X-Cache: HIT header, misses X-Cache: MISS. Intended for
// read-only routes whose payload is expensive to produce, such as the
// upstream catalog proxy. When disabled or rdb is nil the middleware is
// a pass-through.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg.Prefix, c)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(raw, &cached) == nil {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(cached.Status, cached.ContentType, cached.Body)
				}
			}

			w := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = w
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			// Bodies that exceeded the limit were captured truncated and
			// must never be stored; the client still got the full response.
			if w.status == http.StatusOK && w.written <= cfg.MaxBodyBytes {
				payload, err := json.Marshal(cachedResponse{
					Status:      w.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        w.buf.Bytes(),
				})
				if err == nil {
					_ = rdb.SetEx(ctx, key, payload, ttl).Err()
				}
			}
			return nil
		}
	}
}

func cacheKey(prefix string, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum)
}
