package queueconsumer

import (
	"context"
	"errors"
	"time"

	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"go.uber.org/zap"
)

const (
	defaultDrainTimeout = 10 * time.Second
	// settleTimeout is the extra time given to deliveries interrupted at the
	// drain deadline to release their claim and republish.
	settleTimeout = 5 * time.Second
)

// QueueConsumerHandler runs the consume loop until ctx ends, then waits up to
// drainTimeout (plus settleTimeout) for deliveries already handed to workers.
type QueueConsumerHandler struct {
	useCase      *QueueConsumerUseCase
	drainTimeout time.Duration
}

func NewQueueConsumerHandler(useCase *QueueConsumerUseCase, drainTimeout time.Duration) *QueueConsumerHandler {
	if drainTimeout <= 0 {
		drainTimeout = defaultDrainTimeout
	}
	return &QueueConsumerHandler{useCase: useCase, drainTimeout: drainTimeout}
}

func (h *QueueConsumerHandler) Handle(ctx context.Context) error {
	err := h.useCase.Execute(ctx)

	drainCtx, cancel := context.WithTimeout(context.Background(), h.drainTimeout+settleTimeout)
	defer cancel()
	if pending := h.useCase.Wait(drainCtx); pending > 0 {
		logger.L().Warn("Shutdown drain timed out with deliveries still running",
			zap.Int("pending", pending),
			zap.Duration("drainTimeout", h.drainTimeout),
		)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
