// Package router assembles the gin engine with all routes and middleware.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/skycast-app/skycast-backend/config"
	"github.com/skycast-app/skycast-backend/handlers"
	"github.com/skycast-app/skycast-backend/middleware"
	"github.com/skycast-app/skycast-backend/services"
	"go.uber.org/zap"
)

// Dependencies holds everything required for setting up routes.
type Dependencies struct {
	Config        *config.Config
	RelayHandler  *handlers.RelayHandler
	HealthHandler *handlers.HealthHandler
	RateLimiter   services.RateLimiterInterface
	Logger        *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and metrics, exempt from rate limiting
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(middleware.RelayRateLimiter(deps.RateLimiter, deps.Config.RateLimit))
	}
	api.GET("/weather", deps.RelayHandler.Forward)

	return r
}
