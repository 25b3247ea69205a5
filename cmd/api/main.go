package main

import (
	"log"
	"time"

	"threadline/config"
	"threadline/internal/handler"
	appredis "threadline/internal/redis"
	"threadline/internal/repository"
	"threadline/internal/server"
	"threadline/internal/services"
	"threadline/internal/supabase"
	"threadline/pkg/database"
	"threadline/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	defer l.Sync()
	logger.SetGlobalLogger(l)

	// Fail fast on a broken Supabase configuration instead of on the first
	// authenticated request.
	if _, err := supabase.Anon(cfg); err != nil {
		log.Fatalf("Failed to construct Supabase client: %v", err)
	}

	database.Connect(cfg)
	defer database.Close()

	appredis.Initialize(appredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	redisClient := appredis.GetClient()

	cache := appredis.NewCacheStore(redisClient, appredis.DefaultCacheConfig())
	limiter := appredis.NewRateLimiter(redisClient, appredis.RateLimitConfig{
		EnsureLimit:  cfg.EnsureLimit,
		EnsureWindow: time.Duration(cfg.EnsureWindow) * time.Second,
	})

	threadRepo := repository.NewThreadRepository(database.DB)
	profileRepo := repository.NewProfileRepository(database.DB)

	authService := services.NewAuthService(cfg)
	threadService := services.NewThreadService(cfg, database.DB, threadRepo, profileRepo, cache, l)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Thread: handler.NewThreadHandler(threadService),
	}, authService, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
