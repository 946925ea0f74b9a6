package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"github.com/medeiros-dev/notification-template-service/pkg/kafkatrace"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const publishTimeout = 10 * time.Second

// KafkaMessage wraps a kafka-go message and implements broker.Message.
type KafkaMessage struct {
	broker       *KafkaBroker
	kafkaMsg     kafka.Message
	unmarshalled domain.Notification
}

func (m *KafkaMessage) Data() domain.Notification {
	return m.unmarshalled
}

func (m *KafkaMessage) GetRetryCount() int {
	return getRetryCount(m.kafkaMsg.Headers)
}

// Ack commits the offset for the current message.
func (m *KafkaMessage) Ack(ctx context.Context) error {
	if err := m.broker.reader.CommitMessages(ctx, m.kafkaMsg); err != nil {
		logger.Ctx(ctx).Error("Failed to commit Kafka message offset",
			zap.Int64("offset", m.kafkaMsg.Offset),
			zap.Int("partition", m.kafkaMsg.Partition),
			zap.String("notificationID", m.unmarshalled.ID),
			zap.Error(err),
		)
		return fmt.Errorf("commit offset %d: %w", m.kafkaMsg.Offset, err)
	}
	return nil
}

// republish writes the original key and payload to topic with headers,
// stamping the current span context.
func (m *KafkaMessage) republish(ctx context.Context, topic string, headers []kafka.Header) error {
	kafkatrace.Inject(ctx, &headers)
	out := kafka.Message{
		Topic:   topic,
		Key:     m.kafkaMsg.Key,
		Value:   m.kafkaMsg.Value,
		Headers: headers,
		Time:    time.Now(),
	}
	writeCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return m.broker.writer.WriteMessages(writeCtx, out)
}

// Retry republishes the message on its topic with an incremented retry count
// and acknowledges the original. Callers wait out delay before calling Retry;
// it is recorded in the x-retry-delay header for inspection.
func (m *KafkaMessage) Retry(ctx context.Context, delay time.Duration) error {
	log := logger.Ctx(ctx).With(zap.String("notificationID", m.unmarshalled.ID))
	next := m.GetRetryCount() + 1

	headers := updateRetryHeader(m.kafkaMsg.Headers, next)
	headers = setHeader(headers, retryDelayHeader, delay.String())
	if err := m.republish(ctx, m.kafkaMsg.Topic, headers); err != nil {
		log.Error("Failed to publish retry message", zap.Error(err))
		return fmt.Errorf("failed to publish retry message: %w", err)
	}
	if err := m.Ack(ctx); err != nil {
		return fmt.Errorf("failed to ack original message after retry: %w", err)
	}

	log.Info("Retry published, original acknowledged",
		zap.Int("nextRetryCount", next),
		zap.Duration("requestedDelay", delay),
	)
	return nil
}

// MoveToDLQ publishes the message to the dead letter topic with the failure
// reason, then acknowledges the original. Without a DLQ topic the message is
// only acknowledged.
func (m *KafkaMessage) MoveToDLQ(ctx context.Context, processingError error) error {
	log := logger.Ctx(ctx).With(
		zap.String("notificationID", m.unmarshalled.ID),
		zap.String("dlqTopic", m.broker.dlqTopic),
	)
	channelType := channelLabel(m.unmarshalled.ChannelType)

	if m.broker.dlqTopic == "" {
		log.Warn("DLQ topic not configured, discarding message", zap.Error(processingError))
		metrics.MessagesDLQ.WithLabelValues(channelType).Inc()
		return m.Ack(ctx)
	}

	headers := setHeader(m.kafkaMsg.Headers, dlqReasonHeader, processingError.Error())
	headers = updateRetryHeader(headers, m.GetRetryCount())
	if err := m.republish(ctx, m.broker.dlqTopic, headers); err != nil {
		log.Error("Failed to publish message to DLQ", zap.Error(err))
		return fmt.Errorf("failed to publish message to DLQ: %w", err)
	}
	metrics.MessagesDLQ.WithLabelValues(channelType).Inc()

	if err := m.Ack(ctx); err != nil {
		return fmt.Errorf("failed to ack original message after DLQ: %w", err)
	}
	log.Warn("Message moved to DLQ", zap.Error(processingError))
	return nil
}
