package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hugofmello/startup-pitch/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns every request an ID, honoring one supplied by the
// caller, and echoes it back in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Header(requestIDHeader, id)
		c.Set("request_id", id)

		// Propagate to the request context so service-layer logs carry it.
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the ID assigned by RequestID, or "" before it ran.
func GetRequestID(c *gin.Context) string {
	if id, ok := c.Get("request_id"); ok {
		return id.(string)
	}
	return ""
}
