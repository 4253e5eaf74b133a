package main

import (
	"crypto/tls"

	"github.com/redis/go-redis/v9"
	"github.com/skycast-app/skycast-backend/config"
	"github.com/skycast-app/skycast-backend/handlers"
	"github.com/skycast-app/skycast-backend/logger"
	"github.com/skycast-app/skycast-backend/router"
	"github.com/skycast-app/skycast-backend/services"
)

func main() {
	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		if err := logger.Close(); err != nil {
			log.Errorw("Failed to close logger", "error", err)
		}
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Redis backs relay rate limiting and preference storage.
	redisOptions := &redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.IsProduction() {
		redisOptions.TLSConfig = &tls.Config{
			ServerName: cfg.Redis.Address,
			MinVersion: tls.VersionTLS12,
		}
	}
	redisClient := redis.NewClient(redisOptions)

	rateLimitService := services.NewRateLimitService(redisClient)
	relayHandler := handlers.NewRelayHandler(cfg.Weather)
	healthHandler := handlers.NewHealthHandler(redisClient, cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:        cfg,
		RelayHandler:  relayHandler,
		HealthHandler: healthHandler,
		RateLimiter:   rateLimitService,
		Logger:        log,
	})

	log.Infof("Starting relay on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
