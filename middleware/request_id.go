package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the key used to store the request ID in the gin context.
const RequestIDKey = "request_id"

// RequestIDMiddleware adds a unique request ID to each request so relay calls
// can be correlated in logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Honor an ID assigned by a load balancer or proxy.
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
