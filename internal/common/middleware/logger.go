package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/logger"
)

// Logger writes one line per request. Health checks are logged at debug.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		if raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		event := logger.Info()
		switch c.Request.URL.Path {
		case "/health", "/live", "/ready":
			event = logger.Debug()
		}

		event.
			Str("request_id", getRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Int("body_size", c.Writer.Size()).
			Str("auth", c.GetString(ContextAuthMethod)).
			Msg("Request processed")
	}
}
