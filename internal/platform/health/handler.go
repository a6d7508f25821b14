package health

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/response"
)

// Checker reports whether a dependency is ready to serve traffic.
type Checker func(ctx context.Context) error

// Handler serves liveness and readiness probes.
type Handler struct {
	check   Checker
	service string
	timeout time.Duration
}

// NewHandler creates a health handler. A nil checker is always ready.
func NewHandler(check Checker, service string) *Handler {
	return &Handler{check: check, service: service, timeout: 2 * time.Second}
}

// RegisterRoutes registers /health and /health/ready.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Live)
	r.GET("/health/ready", h.Ready)
}

// Live handles GET /health.
func (h *Handler) Live(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok", "service": h.service})
}

// Ready handles GET /health/ready.
func (h *Handler) Ready(c *gin.Context) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		if err := h.check(ctx); err != nil {
			_ = c.Error(err)
			response.ServiceUnavailable(c, "storage is not ready")
			return
		}
	}
	response.Success(c, gin.H{"status": "ready", "service": h.service})
}
