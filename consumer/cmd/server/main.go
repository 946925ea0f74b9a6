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

	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/app/registry"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/dedup"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/infrastructure/broker"
	redisdedup "github.com/medeiros-dev/notification-template-service/consumer/internal/infrastructure/dedup"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/observability/tracing"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/usecases/notification"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/usecases/queueconsumer"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"go.uber.org/zap"

	// Channel packages register their factories in init.
	_ "github.com/medeiros-dev/notification-template-service/consumer/internal/infrastructure/channel/email"
	_ "github.com/medeiros-dev/notification-template-service/consumer/internal/infrastructure/channel/inbox"
	_ "github.com/medeiros-dev/notification-template-service/consumer/internal/infrastructure/channel/sms"
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

	logger.L().Info("Starting notification consumer service...")

	cfg, err := configs.NewConfig(".")
	if err != nil {
		logger.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.L().Info("Configuration loaded",
		zap.Strings("kafkaBrokers", cfg.KafkaBrokers),
		zap.Strings("enabledChannels", cfg.EnabledChannels),
		zap.Strings("registeredChannels", registry.Names()),
		zap.String("metricsServerAddress", cfg.MetricsServerAddress),
	)

	tracerShutdown, err := tracing.InitTracer(cfg)
	if err != nil {
		logger.L().Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			logger.L().Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	metricsServer := startMetricsServer(cfg.MetricsServerAddress)

	messageBroker, err := broker.NewKafkaBroker(broker.Config{Brokers: cfg.KafkaBrokers})
	if err != nil {
		logger.L().Fatal("Failed to initialize Kafka broker", zap.Error(err))
	}
	defer func() {
		if err := messageBroker.Close(); err != nil {
			logger.L().Error("Error closing kafka broker", zap.Error(err))
		}
	}()

	deduplicator, closeDedup := newDeduplicator(context.Background())
	defer closeDedup()

	built, err := registry.Build(cfg)
	if err != nil {
		logger.L().Warn("Some channels could not be initialized and will be skipped", zap.Error(err))
	}
	handlers := make(map[string]*notification.DispatchNotificationHandler, len(built))
	for name, ch := range built {
		handlers[name] = notification.NewDispatchNotification(ch)
		logger.L().Info("Channel ready", zap.String("channelName", name))
	}
	if len(handlers) == 0 {
		logger.L().Fatal("No channels were initialized. Check ENABLED_CHANNELS and channel configuration.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	queueConsumer := queueconsumer.NewQueueConsumer(messageBroker, handlers, deduplicator, configs.GetQueueConsumerConfig())

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := queueConsumer.Handle(ctx); err != nil {
			logger.L().Error("Kafka consumer exited with error", zap.Error(err))
		}
	}()

	select {
	case sig := <-sigChan:
		logger.L().Info("Received signal, shutting down gracefully...", zap.String("signal", sig.String()))
	case <-consumerDone:
		logger.L().Warn("Kafka consumer stopped unexpectedly, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.L().Error("Metrics server shutdown error", zap.Error(err))
	}

	cancel()
	<-consumerDone
	logger.L().Info("Notification consumer service shut down complete.")
}

func startMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.MetricsHandler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.L().Info("Starting metrics server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Error("Metrics server ListenAndServe failed", zap.Error(err))
		}
	}()
	return srv
}

// newDeduplicator connects to Redis when REDIS_ADDR is set. A nil
// Deduplicator disables the duplicate check.
func newDeduplicator(ctx context.Context) (dedup.Deduplicator, func()) {
	conf := configs.GetRedisConf()
	if conf == nil {
		logger.L().Warn("REDIS_ADDR is not set, delivery deduplication disabled")
		return nil, func() {}
	}
	d, err := redisdedup.NewFromConfig(ctx, conf)
	if err != nil {
		logger.L().Fatal("Failed to connect to Redis for deduplication", zap.Error(err))
	}
	logger.L().Info("Delivery deduplication enabled",
		zap.String("redisAddr", conf.Addr),
		zap.Duration("ttl", conf.TTL),
	)
	return d, func() {
		if err := d.Close(); err != nil {
			logger.L().Error("Error closing redis client", zap.Error(err))
		}
	}
}
