package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	LoginTemplate        = "authorization/login.html"
	RegistrationTemplate = "authorization/registration.html"
)

//go:embed templates
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/authorization/*.html")
}

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the authentication pages and the health probe.
type Handler struct {
	db     Pinger
	logger *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(db Pinger, logger *zap.Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Register installs the page templates on r and mounts the routes.
func (h *Handler) Register(r *gin.Engine) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	r.GET("/", h.Login)
	r.GET("/registration", h.Registration)
	r.GET("/health", h.Health)
	return nil
}

// Login handles GET /.
func (h *Handler) Login(c *gin.Context) {
	c.HTML(http.StatusOK, LoginTemplate, gin.H{"Title": "Sign in"})
}

// Registration handles GET /registration.
func (h *Handler) Registration(c *gin.Context) {
	c.HTML(http.StatusOK, RegistrationTemplate, gin.H{"Title": "Register"})
}

// Health handles GET /health. It answers 503 when the database ping fails.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
