package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

// tags every request with an id, attaches a scoped logger and logs completion
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		reqLogger := defaultLogger.With("request_id", id)
		c.Request = c.Request.WithContext(WithContext(c.Request.Context(), reqLogger))

		start := time.Now()
		c.Next()

		if c.Request.URL.Path == "/health" {
			return
		}

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if userID := c.GetString("user_id"); userID != "" {
			args = append(args, "user_id", userID)
		}

		switch {
		case status >= 500:
			reqLogger.Error("request completed", args...)
		case status >= 400:
			reqLogger.Warn("request completed", args...)
		default:
			reqLogger.Debug("request completed", args...)
		}
	}
}
