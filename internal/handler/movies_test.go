package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-collection-api/internal/config"
)

func moviesCall(t *testing.T, h *MoviesHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.List(echo.New().NewContext(req, rec)))
	return rec
}

func TestMoviesList_RelaysUpstreamBody(t *testing.T) {
	const payload = `{"count": 1, "results": [{"title": "Queerama"}]}`

	var gotAuth, gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer upstream.Close()

	h := NewMoviesHandler(config.Config{
		MoviesAPIURL:      upstream.URL,
		MoviesAPIAccount:  "acct",
		MoviesAPIPassword: "pw",
	})

	rec := moviesCall(t, h, "/v1/movies?page=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, payload, rec.Body.String())
	require.Equal(t, "page=2", gotQuery, "query parameters are forwarded untouched")

	// Credentials stay server-side and reach the upstream as basic auth.
	wantReq, _ := http.NewRequest(http.MethodGet, upstream.URL, nil)
	wantReq.SetBasicAuth("acct", "pw")
	require.Equal(t, wantReq.Header.Get("Authorization"), gotAuth)
}

func TestMoviesList_PropagatesUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	h := NewMoviesHandler(config.Config{MoviesAPIURL: upstream.URL})

	rec := moviesCall(t, h, "/v1/movies")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "failed to fetch movies from upstream")
}

func TestMoviesList_BadGatewayWhenUnreachable(t *testing.T) {
	h := NewMoviesHandler(config.Config{MoviesAPIURL: "http://127.0.0.1:1"})

	rec := moviesCall(t, h, "/v1/movies")
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMoviesList_UnconfiguredUpstream(t *testing.T) {
	h := NewMoviesHandler(config.Config{})

	rec := moviesCall(t, h, "/v1/movies")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
