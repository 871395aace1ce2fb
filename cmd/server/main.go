package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-collection-api/internal/config"
	"github.com/iliyamo/movie-collection-api/internal/database"
	"github.com/iliyamo/movie-collection-api/internal/handler"
	"github.com/iliyamo/movie-collection-api/internal/middleware"
	"github.com/iliyamo/movie-collection-api/internal/queue"
	"github.com/iliyamo/movie-collection-api/internal/repository"
	"github.com/iliyamo/movie-collection-api/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; counter, rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	collections := repository.NewCollectionRepo(db, movies)

	e := echo.New()
	e.Use(middleware.NewRequestCounter(rdb))
	e.Use(middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens))
	router.RegisterAPI(e, cfg.JWTSecret,
		handler.NewCollectionHandler(collections),
		handler.NewMoviesHandler(cfg),
		handler.NewCounterHandler(rdb),
		middleware.NewResponseCache(config.LoadCacheConfig(), rdb))

	go func() {
		if err := queue.StartCollectionConsumer(); err != nil {
			log.Printf("collection consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
