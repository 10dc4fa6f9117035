package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery returns a Gin middleware that catches panics, logs them, and
// answers HTTP 500 as HTML or JSON depending on what the client accepts.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("error", r),
					zap.String("trace_id", GetTraceID(c)),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) {
				case gin.MIMEHTML:
					c.Data(http.StatusInternalServerError, "text/html; charset=utf-8",
						[]byte("<h1>Internal Server Error</h1>"))
					c.Abort()
				default:
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"error":    "internal server error",
						"trace_id": GetTraceID(c),
					})
				}
			}
		}()
		c.Next()
	}
}
