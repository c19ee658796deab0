package middleware

import (
	"fmt"
	"time"

	"github.com/citasmedicas/medico-api/util"
	"github.com/gin-gonic/gin"
)

// EndpointCallLogger logs each HTTP request as an audit event.
// It relies on util.SetAuditLoggerDB having been called during startup so
// events will be persisted to the AuditLog table.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}

		actor, _ := c.Get("auth_subject")
		actorStr, _ := actor.(string)

		util.LogAuditEvent(util.AuditEvent{
			EventType: util.EventEndpointCall,
			Actor:     actorStr,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}
