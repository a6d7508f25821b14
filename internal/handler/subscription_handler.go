package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/application"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/response"
)

// SubscriptionHandler handles HTTP requests for subscription operations.
type SubscriptionHandler struct {
	service *application.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(service *application.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// RegisterRoutes registers all subscription routes. The webhook route is an
// alias of the direct create route.
func (h *SubscriptionHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/new-subscription", h.CreateSubscription)
	r.POST("/webhooks/new-subscription", h.CreateSubscription)
	r.GET("/subscriptions", h.ListSubscriptions)

	sub := r.Group("/subscription")
	{
		sub.GET("/:id", h.GetSubscription)
		sub.PUT("/:id", h.UpdateSubscription)
		sub.DELETE("/:id", h.DeleteSubscription)
	}
}

// CreateSubscription handles POST /new-subscription and POST /webhooks/new-subscription.
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req application.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindingError(err))
		return
	}

	result, err := h.service.CreateSubscription(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// GetSubscription handles GET /subscription/:id.
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	result, err := h.service.GetSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteSubscription handles DELETE /subscription/:id.
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	result, err := h.service.DeleteSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateSubscription handles PUT /subscription/:id.
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	var req application.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindingError(err))
		return
	}

	result, err := h.service.UpdateSubscription(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}

// ListSubscriptions handles GET /subscriptions.
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	result, err := h.service.ListSubscriptions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, result)
}
