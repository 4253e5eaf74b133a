package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skycast-app/skycast-backend/config"
	"github.com/skycast-app/skycast-backend/logger"
	"github.com/skycast-app/skycast-backend/services"
)

// RelayRateLimiter limits relay requests per client IP with minute and hour
// windows, keeping upstream API key usage bounded. If the limiter backend is
// unavailable the request is allowed through; the relay should not go dark
// because Redis did.
func RelayRateLimiter(rateLimiter services.RateLimiterInterface, cfg config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := c.ClientIP()

		minuteKey := fmt.Sprintf("relay:minute:%s", identifier)
		allowed, retryAfter, err := rateLimiter.CheckLimit(
			c.Request.Context(),
			minuteKey,
			cfg.RequestsPerMinute,
			time.Minute,
		)
		if err != nil {
			logger.GetLogger().Warnw("Rate limit check failed, allowing request",
				"client", identifier,
				"error", err,
			)
			c.Next()
			return
		}
		if !allowed {
			rejectRateLimited(c, cfg.RequestsPerMinute, retryAfter)
			return
		}

		hourKey := fmt.Sprintf("relay:hour:%s", identifier)
		allowed, retryAfter, err = rateLimiter.CheckLimit(
			c.Request.Context(),
			hourKey,
			cfg.RequestsPerHour,
			time.Hour,
		)
		if err != nil {
			logger.GetLogger().Warnw("Rate limit check failed, allowing request",
				"client", identifier,
				"error", err,
			)
			c.Next()
			return
		}
		if !allowed {
			rejectRateLimited(c, cfg.RequestsPerHour, retryAfter)
			return
		}

		c.Next()
	}
}

func rejectRateLimited(c *gin.Context, limit int, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       "Rate limit exceeded",
		"retry_after": seconds,
		"message":     "Too many requests. Please try again later.",
	})
}
