package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-collection-api/internal/config"
)

// MoviesHandler proxies the upstream movie catalog. The service never
// ingests or searches the catalog itself; it only relays the listing so
// clients can pick movies to put into collections without holding the
// upstream credentials.
type MoviesHandler struct {
	Cfg    config.Config
	Client *http.Client
}

func NewMoviesHandler(cfg config.Config) *MoviesHandler {
	return &MoviesHandler{
		Cfg:    cfg,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// List handles GET /v1/movies: authenticated server-side fetch of the
// catalog with basic auth, body relayed as-is on success. Query
// parameters (e.g. page) are forwarded untouched.
func (h *MoviesHandler) List(c echo.Context) error {
	if h.Cfg.MoviesAPIURL == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "movie catalog is not configured"})
	}

	url := h.Cfg.MoviesAPIURL
	if raw := c.Request().URL.RawQuery; raw != "" {
		url += "?" + raw
	}
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, url, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build upstream request failed"})
	}
	req.SetBasicAuth(h.Cfg.MoviesAPIAccount, h.Cfg.MoviesAPIPassword)

	resp, err := h.Client.Do(req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to fetch movies from upstream"})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.JSON(resp.StatusCode, echo.Map{"error": "failed to fetch movies from upstream"})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to read upstream response"})
	}
	contentType := resp.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(http.StatusOK, contentType, body)
}
