package interfaces

import (
	"context"

	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain"
)

// NotificationHandlerInterface delivers one decoded notification on a single
// channel. A returned error makes the queue consumer retry or dead-letter it.
type NotificationHandlerInterface interface {
	Handle(ctx context.Context, notification domain.Notification) error
}

// HandlerFunc adapts a plain function to NotificationHandlerInterface.
type HandlerFunc func(ctx context.Context, notification domain.Notification) error

func (f HandlerFunc) Handle(ctx context.Context, notification domain.Notification) error {
	return f(ctx, notification)
}
