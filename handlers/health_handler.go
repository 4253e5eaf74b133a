package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/skycast-app/skycast-backend/logger"
	"github.com/skycast-app/skycast-backend/types"
)

// HealthHandler serves liveness and readiness probes. Redis is the relay's
// only stateful dependency.
type HealthHandler struct {
	redis     *redis.Client
	version   string
	startTime time.Time
}

func NewHealthHandler(redisClient *redis.Client, version string) *HealthHandler {
	return &HealthHandler{
		redis:     redisClient,
		version:   version,
		startTime: time.Now(),
	}
}

// LivenessCheck handles kubernetes liveness probe
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck reports overall readiness including the Redis component.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := types.HealthCheck{
		Status:     types.HealthStatusUp,
		Version:    h.version,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Components: map[string]types.HealthStatus{},
	}

	redisStatus := types.HealthStatusUp
	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			logger.GetLogger().Warnw("Redis ping failed", "error", err)
			redisStatus = types.HealthStatusDown
		}
	}
	health.Components["redis"] = redisStatus

	if redisStatus == types.HealthStatusDown {
		health.Status = types.HealthStatusDown
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}
