package broker

import (
	"context"
	"time"

	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain"
)

// Message is a notification fetched from the broker together with its
// lifecycle operations.
type Message interface {
	Data() domain.Notification
	// GetRetryCount returns how many times the message was already retried.
	GetRetryCount() int
	Ack(ctx context.Context) error
	// Retry republishes the message with an incremented retry count.
	Retry(ctx context.Context, delay time.Duration) error
	MoveToDLQ(ctx context.Context, processingError error) error
}

// MessageBroker consumes messages and hands each one to consumeFunc, which is
// responsible for calling Ack, Retry or MoveToDLQ. Consume blocks until ctx
// is cancelled.
type MessageBroker interface {
	Consume(ctx context.Context, consumeFunc func(ctx context.Context, msg Message) error) error
	Close() error
}
