package broker

import (
	"context"

	"github.com/medeiros-dev/notification-template-service/go-producer/internal/domain"
)

// Publisher hands a notification, already bound to one channel, to the queue
// the consumer reads from.
type Publisher interface {
	Publish(ctx context.Context, notification domain.Notification) error
}
