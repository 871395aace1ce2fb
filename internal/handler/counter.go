package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-collection-api/internal/middleware"
)

// CounterHandler exposes the shared request counter that the counter
// middleware maintains in Redis.
type CounterHandler struct {
	RDB *redis.Client
}

func NewCounterHandler(rdb *redis.Client) *CounterHandler {
	return &CounterHandler{RDB: rdb}
}

// Get handles GET /v1/request-count: the number of requests served so
// far, 0 when the counter was never incremented.
func (h *CounterHandler) Get(c echo.Context) error {
	if h.RDB == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "request counter unavailable"})
	}
	n, err := h.RDB.Get(c.Request().Context(), middleware.CounterKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			n = 0
		} else {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read counter failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": n})
}

// Reset handles POST /v1/request-count/reset: set the counter back to
// zero.
func (h *CounterHandler) Reset(c echo.Context) error {
	if h.RDB == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "request counter unavailable"})
	}
	if err := h.RDB.Set(c.Request().Context(), middleware.CounterKey, 0, 0).Err(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset counter failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Request count reset successfully"})
}
