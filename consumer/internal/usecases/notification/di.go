package notification

import "github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"

// NewDispatchNotification wires a channel into a ready-to-use handler.
func NewDispatchNotification(ch channel.Channel) *DispatchNotificationHandler {
	return NewDispatchNotificationHandler(NewDispatchNotificationUseCase(ch))
}
