package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/medeiros-dev/notification-template-service/go-producer/configs"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/domain"
	port "github.com/medeiros-dev/notification-template-service/go-producer/internal/domain/port/broker"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/tracing"
	"github.com/medeiros-dev/notification-template-service/go-producer/pkg/logger"
	"github.com/medeiros-dev/notification-template-service/pkg/kafkatrace"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const publishTimeout = 10 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaBroker publishes notifications to KAFKA_TOPIC.
type KafkaBroker struct {
	writer messageWriter
	mu     sync.Mutex
}

var _ port.Publisher = (*KafkaBroker)(nil)

// Config holds configuration for the KafkaBroker.
type Config struct {
	Brokers []string
}

// NewKafkaBroker creates a synchronous writer that waits for the leader ack.
func NewKafkaBroker(cfg Config) (*KafkaBroker, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers cannot be empty")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaBroker{writer: w}, nil
}

// Publish publishes the notification keyed by its ID, carrying the
// caller's trace context in the message headers.
func (kb *KafkaBroker) Publish(ctx context.Context, notification domain.Notification) error {
	ctx, span := tracing.Tracer.Start(ctx, "KafkaBroker.Publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("notification.id", notification.ID),
			attribute.String("notification.channel", notification.ChannelType),
		),
	)
	defer span.End()

	payload, err := json.Marshal(notification)
	if err != nil {
		metrics.ErrorTotal.WithLabelValues("marshal_json").Inc()
		return fmt.Errorf("failed to marshal notification %s to JSON: %w", notification.ID, err)
	}

	headers := make([]kafka.Header, 0, 1)
	kafkatrace.Inject(ctx, &headers)
	msg := kafka.Message{
		Topic:   configs.GetConfig().KafkaTopic,
		Key:     []byte(notification.ID),
		Value:   payload,
		Headers: headers,
	}

	writeCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	start := time.Now()
	err = kb.writer.WriteMessages(writeCtx, msg)
	metrics.KafkaPublishDuration.Observe(time.Since(start).Seconds())
	traceID := logger.TraceIDFromContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.L().Error("Failed to write message to kafka",
			zap.String("notificationID", notification.ID),
			zap.String("channelType", notification.ChannelType),
			zap.String("traceID", traceID),
			zap.Error(err),
		)
		metrics.KafkaPublishTotal.WithLabelValues("failure").Inc()
		metrics.ErrorTotal.WithLabelValues("kafka_publish").Inc()
		metrics.MessagesSentFailedTotal.WithLabelValues(notification.ChannelType).Inc()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	logger.L().Info("Notification published to Kafka",
		zap.String("notificationID", notification.ID),
		zap.String("channelType", notification.ChannelType),
		zap.Int("spans", len(notification.Spans)),
		zap.String("traceID", traceID),
	)
	metrics.KafkaPublishTotal.WithLabelValues("success").Inc()
	metrics.MessagesSentSuccessTotal.WithLabelValues(notification.ChannelType).Inc()
	return nil
}

// Close flushes and closes the writer.
func (kb *KafkaBroker) Close() error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	if err := kb.writer.Close(); err != nil {
		logger.L().Error("Failed to close kafka writer", zap.Error(err))
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	logger.L().Info("Kafka writer closed.")
	return nil
}
