package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/application"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/config"
	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
	subEvents "github.com/Kilat-Pet-Delivery/service-subscription/internal/events"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/logger"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/metrics"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/server"
)

const serviceName = "service-subscription"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, cfg.LogLevel, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.StorageDriver),
	)

	// Connect storage
	subRepo, readiness, closeStorage := openStorage(cfg, zapLogger)
	defer closeStorage()

	// Initialize event publisher
	var publisher application.EventPublisher
	if cfg.KafkaConfig.Enabled() {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
		defer producer.Close()
		publisher = subEvents.NewSubscriptionEventPublisher(producer, cfg.KafkaConfig.Topic, zapLogger)
		zapLogger.Info("subscription events enabled", zap.String("topic", cfg.KafkaConfig.Topic))
	}

	// Initialize subscription service and handler
	subService := application.NewSubscriptionService(subRepo, publisher, zapLogger)
	subHandler := handler.NewSubscriptionHandler(subService)

	// Initialize metrics
	var httpMetrics *metrics.HTTPMetrics
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		httpMetrics = metrics.NewHTTPMetrics(reg)
	}

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.Options{
		Logger:              zapLogger,
		SubscriptionHandler: subHandler,
		HealthHandler:       health.NewHandler(readiness, serviceName),
		Metrics:             httpMetrics,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down " + serviceName + "...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info(serviceName + " stopped")
}

// openStorage returns the repository selected by STORAGE_DRIVER, its
// readiness probe and a function releasing its resources.
func openStorage(cfg *config.ServiceConfig, zapLogger *zap.Logger) (subDomain.SubscriptionRepository, health.Checker, func()) {
	if cfg.StorageDriver == config.StorageMemory {
		zapLogger.Warn("using in-memory storage, data is lost on restart")
		return repository.NewMemorySubscriptionRepository(), nil, func() {}
	}

	client, err := database.Connect(context.Background(), cfg.MongoConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to mongo", zap.Error(err))
	}

	repo := repository.NewMongoSubscriptionRepository(database.Collection(client, cfg.MongoConfig))
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			zapLogger.Error("failed to disconnect from mongo", zap.Error(err))
		}
	}
	return repo, database.Healthcheck(client), closeFn
}
