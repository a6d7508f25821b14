package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/metrics"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/middleware"
)

// Options carries everything the router needs.
type Options struct {
	Logger              *zap.Logger
	SubscriptionHandler *handler.SubscriptionHandler
	HealthHandler       *health.Handler
	Metrics             *metrics.HTTPMetrics
	CORSAllowedOrigins  []string
}

// NewRouter builds the gin engine with global middleware and all routes.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggerMiddleware(opts.Logger))
	router.Use(middleware.CORSMiddleware(opts.CORSAllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())
	if opts.Metrics.Enabled() {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", opts.Metrics.Handler())
	}

	if opts.HealthHandler != nil {
		opts.HealthHandler.RegisterRoutes(router)
	}
	opts.SubscriptionHandler.RegisterRoutes(router)

	return router
}
