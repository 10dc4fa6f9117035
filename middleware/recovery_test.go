package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newPanicRouter(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(TraceID(), Recovery(log))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func TestRecovery_JSON(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := newPanicRouter(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), w.Header().Get(TraceIDHeader))
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRecovery_HTML(t *testing.T) {
	r := newPanicRouter(zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Internal Server Error")
}
