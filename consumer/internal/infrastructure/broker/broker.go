package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/broker"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"github.com/medeiros-dev/notification-template-service/pkg/kafkatrace"
	"github.com/segmentio/kafka-go"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var ErrInvalidNotification = errors.New("invalid notification payload")

// messageReader is the subset of *kafka.Reader used by the broker.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// messageWriter is the subset of *kafka.Writer used by the broker.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaBroker implements the broker.MessageBroker interface using Kafka.
type KafkaBroker struct {
	writer   messageWriter
	reader   messageReader
	topic    string
	groupID  string
	dlqTopic string
	mu       sync.Mutex
}

var _ broker.MessageBroker = (*KafkaBroker)(nil)

// Config holds configuration for the KafkaBroker.
type Config struct {
	Brokers []string
}

// NewKafkaBroker creates a consumer-group reader on KAFKA_TOPIC and a writer
// used for retries and the dead letter topic.
func NewKafkaBroker(cfg Config) (*KafkaBroker, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers cannot be empty")
	}

	appConfig := configs.GetConfig()
	if appConfig.KafkaTopic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC must be set")
	}
	if appConfig.KafkaGroupID == "" {
		return nil, fmt.Errorf("KAFKA_GROUP_ID must be set")
	}
	if appConfig.KafkaDLQTopic == "" {
		logger.L().Warn("KAFKA_DLQ_TOPIC is not set. Failed messages exceeding retries will be discarded.")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          appConfig.KafkaTopic,
		GroupID:        appConfig.KafkaGroupID,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // offsets are committed explicitly by Ack
	})

	logger.L().Info("Kafka Broker initialized",
		zap.String("topic", appConfig.KafkaTopic),
		zap.String("groupID", appConfig.KafkaGroupID),
		zap.String("dlqTopic", appConfig.KafkaDLQTopic),
		zap.Strings("brokers", cfg.Brokers),
	)
	return newKafkaBroker(r, w, appConfig.KafkaTopic, appConfig.KafkaGroupID, appConfig.KafkaDLQTopic), nil
}

func newKafkaBroker(r messageReader, w messageWriter, topic, groupID, dlqTopic string) *KafkaBroker {
	return &KafkaBroker{
		writer:   w,
		reader:   r,
		topic:    topic,
		groupID:  groupID,
		dlqTopic: dlqTopic,
	}
}

// decodeNotification unmarshals and sanity-checks a message value.
func decodeNotification(value []byte) (domain.Notification, error) {
	var data domain.Notification
	if err := json.Unmarshal(value, &data); err != nil {
		return data, fmt.Errorf("unmarshalling error: %w", err)
	}
	if data.ID == "" {
		return data, fmt.Errorf("%w: missing id", ErrInvalidNotification)
	}
	if data.Text == "" {
		return data, fmt.Errorf("%w: missing text", ErrInvalidNotification)
	}
	return data, nil
}

// Consume fetches messages until ctx is cancelled and passes each decoded
// notification to consumeFunc. Undecodable messages go to the DLQ directly.
func (kb *KafkaBroker) Consume(
	ctx context.Context,
	consumeFunc func(ctx context.Context, msg broker.Message) error,
) error {
	logger.L().Info("Starting Kafka consumer loop",
		zap.String("topic", kb.topic),
		zap.String("groupID", kb.groupID),
	)

	for {
		message, err := kb.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger.L().Info("Context cancelled, stopping consumer loop",
					zap.String("topic", kb.topic),
					zap.Error(err),
				)
				return nil
			}
			logger.L().Error("Error fetching message from Kafka, continuing loop",
				zap.String("topic", kb.topic),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		msgCtx := kafkatrace.Extract(ctx, message.Headers)

		data, err := decodeNotification(message.Value)
		if err != nil {
			logger.L().Error("Undecodable notification, moving to DLQ",
				zap.String("topic", message.Topic),
				zap.Int64("offset", message.Offset),
				zap.Error(err),
			)
			poison := &KafkaMessage{broker: kb, kafkaMsg: message}
			if dlqErr := poison.MoveToDLQ(msgCtx, err); dlqErr != nil {
				logger.L().Error("Failed to move undecodable message to DLQ. Message may be reprocessed.",
					zap.Int64("offset", message.Offset),
					zap.Error(dlqErr),
				)
			}
			continue
		}

		metrics.MessagesReceived.WithLabelValues(channelLabel(data.ChannelType)).Inc()

		appMsg := &KafkaMessage{broker: kb, kafkaMsg: message, unmarshalled: data}
		if err := consumeFunc(msgCtx, appMsg); err != nil {
			logger.L().Error("Error returned by consumeFunc",
				zap.Int64("offset", message.Offset),
				zap.String("notificationID", data.ID),
				zap.Error(err),
			)
		}

		if ctx.Err() != nil {
			logger.L().Info("Context cancelled during processing, stopping consumer loop")
			return nil
		}
	}
}

// Close cleans up the Kafka reader and writer.
func (kb *KafkaBroker) Close() error {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	var err error
	if kb.reader != nil {
		err = multierr.Append(err, kb.reader.Close())
	}
	if kb.writer != nil {
		err = multierr.Append(err, kb.writer.Close())
	}
	if err != nil {
		logger.L().Error("Errors occurred during Kafka resource closing", zap.Error(err))
		return fmt.Errorf("error closing Kafka resources: %w", err)
	}
	logger.L().Info("Kafka resources closed successfully.")
	return nil
}

func channelLabel(channelType string) string {
	if channelType == "" {
		return "unknown"
	}
	return channelType
}
