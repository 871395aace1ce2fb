// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-collection-api/internal/handler"
	"github.com/iliyamo/movie-collection-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently that is only the health check, used by load balancers and
// monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /v1/auth.
// None of them require an existing session; they generate or exchange
// tokens.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/logout-all", a.LogoutAll)
}

// RegisterAPI registers the protected endpoints under /v1. All of them
// run behind the JWTAuth middleware; the collection handlers derive the
// owner identity exclusively from the validated token. cacheMW wraps
// only the catalog proxy, whose upstream payload is worth caching.
func RegisterAPI(e *echo.Echo, jwtSecret string,
	collections *handler.CollectionHandler,
	movies *handler.MoviesHandler,
	counter *handler.CounterHandler,
	cacheMW echo.MiddlewareFunc) {

	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(jwtSecret))

	api.POST("/collections", collections.Create)
	api.GET("/collections", collections.List)
	api.GET("/collections/:uuid", collections.Get)
	api.PUT("/collections/:uuid", collections.Update)
	api.DELETE("/collections/:uuid", collections.Delete)

	api.GET("/movies", movies.List, cacheMW)

	api.GET("/request-count", counter.Get)
	api.POST("/request-count/reset", counter.Reset)
}
