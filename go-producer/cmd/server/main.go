package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medeiros-dev/notification-template-service/go-producer/configs"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/infrastructure/broker"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/tracing"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/usecases/listnotifications"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/usecases/notificationspans"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/usecases/sendnotification"
	"github.com/medeiros-dev/notification-template-service/go-producer/pkg/logger"
	"github.com/medeiros-dev/notification-template-service/internal/inbox"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	if err := logger.InitializeLogger(os.Getenv("APP_ENV") == "development"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Error syncing logger: %v", err)
		}
	}()

	cfg, err := configs.NewConfig(".")
	if err != nil {
		logger.L().Fatal("Failed to load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.L().Fatal("Invalid configuration", zap.Error(err))
	}

	if _, err := tracing.InitTracer(cfg); err != nil {
		logger.L().Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tracing.ShutdownTracer(ctx)
	}()

	publisher, err := broker.NewKafkaBroker(broker.Config{Brokers: cfg.KafkaBrokers})
	if err != nil {
		logger.L().Fatal("Failed to initialize Kafka broker", zap.Error(err))
	}
	defer publisher.Close()

	metrics.InitMetrics()

	srv := gin.New()
	srv.Use(gin.Recovery())
	srv.Use(otelgin.Middleware(cfg.OtelServiceName))
	srv.Use(requestMetrics())

	srv.POST("/send-notification", sendnotification.NewSendNotification(publisher).Handle)
	srv.POST("/notification-spans", notificationspans.NewResolveSpans(cfg.HighlightClassPrefix).Handle)
	srv.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	if cfg.InboxEnabled() {
		repo, err := inbox.Open(cfg.InboxDBDriver, cfg.InboxDBDSN)
		if err != nil {
			logger.L().Fatal("Failed to open inbox store", zap.Error(err))
		}
		defer repo.Close()
		srv.GET("/users/:userId/notifications", listnotifications.NewListNotifications(repo, cfg.HighlightClassPrefix).Handle)
	} else {
		logger.L().Warn("INBOX_DB_DSN is not set, notification feed endpoint disabled")
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.L().Info("Server starting", zap.String("address", cfg.HTTPAddress))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.L().Info("Received signal, shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.L().Error("HTTP server shutdown error", zap.Error(err))
	}
}

// requestMetrics records request count and latency per route, skipping the
// scrape endpoint itself.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}
		if endpoint == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		metrics.HttpRequestsTotal.WithLabelValues(endpoint, http.StatusText(c.Writer.Status())).Inc()
		metrics.HttpRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}
