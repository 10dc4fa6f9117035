package middleware

import (
	"github.com/dndoverworld/server/audit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const TraceIDKey = "trace_id"
const TraceIDHeader = "X-Trace-ID"

// maxTraceIDLen bounds client-supplied IDs; longer ones are replaced.
const maxTraceIDLen = 64

// TraceID injects a UUID trace ID into the Gin context, the request context
// (so audited writes carry it) and the response header.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = uuid.New().String()
		}
		c.Set(TraceIDKey, traceID)
		c.Request = c.Request.WithContext(audit.WithTraceID(c.Request.Context(), traceID))
		c.Header(TraceIDHeader, traceID)
		c.Next()
	}
}

// GetTraceID retrieves the trace ID from the Gin context.
func GetTraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}
