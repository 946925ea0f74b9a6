package queueconsumer

import (
	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/broker"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/dedup"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/interfaces"
)

// NewQueueConsumer builds the consumer with a worker pool of cfg.WorkerPoolSize.
func NewQueueConsumer[H interfaces.NotificationHandlerInterface](
	messageBroker broker.MessageBroker,
	handlers map[string]H,
	deduplicator dedup.Deduplicator,
	cfg *configs.QueueConsumerConfig,
) *QueueConsumerHandler {
	channels := make(map[string]interfaces.NotificationHandlerInterface, len(handlers))
	for name, h := range handlers {
		channels[name] = h
	}
	poolSize := cfg.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = 1
	}
	useCase := NewQueueConsumerUseCase(messageBroker, channels, deduplicator, cfg.MaxRetries, make(chan struct{}, poolSize))
	if cfg.DrainTimeout > 0 {
		useCase.drainTimeout = cfg.DrainTimeout
	}
	return NewQueueConsumerHandler(useCase, cfg.DrainTimeout)
}
