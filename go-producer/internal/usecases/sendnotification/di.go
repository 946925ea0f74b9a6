package sendnotification

import "github.com/medeiros-dev/notification-template-service/go-producer/internal/domain/port/broker"

// NewSendNotification wires the POST /send-notification handler to publisher.
func NewSendNotification(publisher broker.Publisher) *SendNotificationHandler {
	return NewSendNotificationHandler(NewSendNotificationUseCase(publisher))
}
