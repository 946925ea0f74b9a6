package queueconsumer

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"time"

	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/broker"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/dedup"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/interfaces"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/observability/tracing"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/usecases/notification"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/backoff"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultMaxRetries = 3

var (
	ErrChannelNotEnabled     = errors.New("channel is not enabled")
	ErrChannelNotImplemented = errors.New("no channel implementation")
)

type QueueConsumerUseCase struct {
	messageBroker broker.MessageBroker
	channels      map[string]interfaces.NotificationHandlerInterface
	deduplicator  dedup.Deduplicator
	maxRetries    int
	semaphore     chan struct{}
	// drainTimeout bounds how long a delivery keeps running after Execute's
	// context is cancelled.
	drainTimeout time.Duration
	wait         func(ctx context.Context, d time.Duration) error
}

// NewQueueConsumerUseCase wires the consumer loop. deduplicator may be nil,
// in which case every delivery is attempted.
func NewQueueConsumerUseCase(
	messageBroker broker.MessageBroker,
	channels map[string]interfaces.NotificationHandlerInterface,
	deduplicator dedup.Deduplicator,
	maxRetries int,
	semaphore chan struct{},
) *QueueConsumerUseCase {
	if maxRetries <= 0 {
		logger.L().Warn("Invalid maxRetries provided, defaulting",
			zap.Int("providedMaxRetries", maxRetries),
			zap.Int("defaultMaxRetries", DefaultMaxRetries),
		)
		maxRetries = DefaultMaxRetries
	}
	if len(channels) == 0 {
		logger.L().Warn("No channels provided to QueueConsumerUseCase.")
	}
	return &QueueConsumerUseCase{
		messageBroker: messageBroker,
		channels:      channels,
		deduplicator:  deduplicator,
		maxRetries:    maxRetries,
		semaphore:     semaphore,
		drainTimeout:  defaultDrainTimeout,
		wait:          sleepContext,
	}
}

// Execute blocks consuming messages until ctx is cancelled. Each message is
// processed on its own goroutine, bounded by the semaphore. Cancelling ctx
// stops consumption but not the deliveries already started; those get up to
// drainTimeout to finish.
func (u *QueueConsumerUseCase) Execute(ctx context.Context) error {
	consumeFunc := func(msgCtx context.Context, msg broker.Message) error {
		select {
		case u.semaphore <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}

		data := msg.Data()
		spanCtx, span := tracing.Tracer.Start(msgCtx, "QueueConsumer.processMessage",
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("notification.id", data.ID),
				attribute.String("notification.channel", data.ChannelType),
			),
		)

		go func() {
			defer span.End()
			defer func() { <-u.semaphore }()
			workCtx, cancel := u.workerContext(ctx, spanCtx)
			defer cancel()
			u.processMessage(workCtx, msg)
		}()
		return nil
	}

	logger.L().Info("QueueConsumerUseCase starting consumption...")
	return u.messageBroker.Consume(ctx, consumeFunc)
}

// workerContext returns a context carrying the values of msgCtx that is
// cancelled drainTimeout after ctx, instead of together with it.
func (u *QueueConsumerUseCase) workerContext(ctx, msgCtx context.Context) (context.Context, context.CancelFunc) {
	workCtx, cancel := context.WithCancel(context.WithoutCancel(msgCtx))
	stop := context.AfterFunc(ctx, func() {
		time.AfterFunc(u.drainTimeout, cancel)
	})
	return workCtx, func() {
		stop()
		cancel()
	}
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every in-flight delivery has finished or ctx is done and
// returns how many were still running.
func (u *QueueConsumerUseCase) Wait(ctx context.Context) int {
	held := 0
	defer func() {
		for i := 0; i < held; i++ {
			<-u.semaphore
		}
	}()
	for held < cap(u.semaphore) {
		select {
		case u.semaphore <- struct{}{}:
			held++
		case <-ctx.Done():
			return cap(u.semaphore) - held
		}
	}
	return 0
}

// resolveChannel returns the handler for the notification's channel. A
// disabled or unknown channel can never succeed, so the message is sent to the
// DLQ without retrying.
func (u *QueueConsumerUseCase) resolveChannel(ctx context.Context, msg broker.Message, n domain.Notification) (interfaces.NotificationHandlerInterface, error) {
	var err error
	handler, ok := u.channels[n.ChannelType]
	switch {
	case !slices.Contains(configs.GetConfig().EnabledChannels, n.ChannelType):
		err = fmt.Errorf("%w: %q", ErrChannelNotEnabled, n.ChannelType)
	case !ok:
		err = fmt.Errorf("%w: %q", ErrChannelNotImplemented, n.ChannelType)
	default:
		return handler, nil
	}

	logger.L().Warn("Rejecting message, moving to DLQ",
		zap.String("notificationID", n.ID),
		zap.String("channelType", n.ChannelType),
		zap.String("traceID", logger.TraceIDFromContext(ctx)),
		zap.Error(err),
	)
	if dlqErr := msg.MoveToDLQ(ctx, err); dlqErr != nil {
		logger.L().Error("Error moving rejected message to DLQ",
			zap.String("notificationID", n.ID),
			zap.Error(dlqErr),
		)
	}
	return nil, err
}

func dedupKey(n domain.Notification) string {
	return n.ChannelType + ":" + n.ID
}

// claim reports whether this delivery should proceed. Deduplication fails
// open: a store error lets the message through.
func (u *QueueConsumerUseCase) claim(ctx context.Context, n domain.Notification) bool {
	if u.deduplicator == nil {
		return true
	}
	ok, err := u.deduplicator.Claim(ctx, dedupKey(n))
	if err != nil {
		logger.L().Warn("Deduplication store unavailable, delivering anyway",
			zap.String("notificationID", n.ID),
			zap.Error(err),
		)
		return true
	}
	return ok
}

func (u *QueueConsumerUseCase) release(ctx context.Context, n domain.Notification) {
	if u.deduplicator == nil {
		return
	}
	if err := u.deduplicator.Release(ctx, dedupKey(n)); err != nil {
		logger.L().Warn("Failed to release deduplication claim",
			zap.String("notificationID", n.ID),
			zap.Error(err),
		)
	}
}

// processMessage delivers one message and settles it with exactly one of
// Ack, Retry or MoveToDLQ. Settling and releasing the claim use a context
// detached from ctx, so a delivery cut short by shutdown is still retried and
// its claim does not outlive it.
func (u *QueueConsumerUseCase) processMessage(ctx context.Context, msg broker.Message) {
	traceID := logger.TraceIDFromContext(ctx)
	n := msg.Data()
	settleCtx := context.WithoutCancel(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.L().Error("Panic recovered while processing message",
				zap.Any("panicValue", r),
				zap.String("stacktrace", string(debug.Stack())),
				zap.String("notificationID", n.ID),
				zap.String("traceID", traceID),
			)
			u.release(settleCtx, n)
			if err := msg.MoveToDLQ(settleCtx, fmt.Errorf("panic recovered: %v", r)); err != nil {
				logger.L().Error("Failed to move message to DLQ after panic",
					zap.String("notificationID", n.ID),
					zap.Error(err),
				)
			}
		}
	}()

	startTime := time.Now()
	currentAttempt := msg.GetRetryCount() + 1
	channelType := n.ChannelType
	if channelType == "" {
		channelType = "unknown"
	}
	ctx = notification.WithAttempt(ctx, currentAttempt)

	logger.L().Info("Processing message",
		zap.String("notificationID", n.ID),
		zap.String("channelType", channelType),
		zap.Int("attempt", currentAttempt),
		zap.Int("maxRetries", u.maxRetries),
		zap.String("traceID", traceID),
	)

	handler, err := u.resolveChannel(settleCtx, msg, n)
	if err != nil {
		metrics.ObserveDuration(channelType, false, startTime)
		metrics.MessagesFailed.WithLabelValues(channelType).Inc()
		return
	}

	if !u.claim(ctx, n) {
		logger.L().Info("Notification already delivered on this channel, acknowledging duplicate",
			zap.String("notificationID", n.ID),
			zap.String("channelType", channelType),
			zap.String("traceID", traceID),
		)
		metrics.MessagesDuplicate.WithLabelValues(channelType).Inc()
		if ackErr := msg.Ack(settleCtx); ackErr != nil {
			logger.L().Error("Error acknowledging duplicate message",
				zap.String("notificationID", n.ID),
				zap.Error(ackErr),
			)
		}
		return
	}

	if err := handler.Handle(ctx, n); err != nil {
		u.release(settleCtx, n)
		if currentAttempt == 1 {
			metrics.MessagesFailed.WithLabelValues(channelType).Inc()
		}
		metrics.ObserveDuration(channelType, false, startTime)
		u.handleSendError(ctx, msg, n, err, currentAttempt)
		return
	}

	if err := msg.Ack(settleCtx); err != nil {
		// The claim stays in place, so a redelivery is acknowledged as a duplicate.
		logger.L().Error("Error acknowledging message after successful processing",
			zap.String("notificationID", n.ID),
			zap.String("channelType", channelType),
			zap.Int("attempt", currentAttempt),
			zap.String("traceID", traceID),
			zap.Error(err),
		)
		metrics.ObserveDuration(channelType, true, startTime)
		return
	}

	logger.L().Info("Successfully processed message",
		zap.String("notificationID", n.ID),
		zap.String("channelType", channelType),
		zap.Int("attempt", currentAttempt),
		zap.String("traceID", traceID),
	)
	metrics.MessagesProcessed.WithLabelValues(channelType).Inc()
	metrics.ObserveDuration(channelType, true, startTime)
}

// handleSendError dead-letters permanent failures and messages out of
// attempts. Otherwise it waits out the backoff for the next attempt and
// republishes the message; if ctx is cancelled during the wait the message is
// republished at once.
func (u *QueueConsumerUseCase) handleSendError(ctx context.Context, msg broker.Message, n domain.Notification, sendErr error, currentAttempt int) {
	traceID := logger.TraceIDFromContext(ctx)
	settleCtx := context.WithoutCancel(ctx)
	channelType := n.ChannelType
	if channelType == "" {
		channelType = "unknown"
	}

	logger.L().Error("Error processing notification",
		zap.String("notificationID", n.ID),
		zap.String("channelType", channelType),
		zap.Int("attempt", currentAttempt),
		zap.Int("maxRetries", u.maxRetries),
		zap.String("traceID", traceID),
		zap.Error(sendErr),
	)

	switch {
	case errors.Is(sendErr, channel.ErrPermanent):
		logger.L().Warn("Delivery cannot succeed on retry, moving message to DLQ",
			zap.String("notificationID", n.ID),
			zap.String("channelType", channelType),
			zap.Int("attempt", currentAttempt),
			zap.String("traceID", traceID),
		)
	case currentAttempt < u.maxRetries:
		delay := backoff.CalculateRetryDelayFromConfig(currentAttempt + 1)
		logger.L().Info("Scheduling retry",
			zap.String("notificationID", n.ID),
			zap.Int("nextAttempt", currentAttempt+1),
			zap.Duration("backoffDuration", delay),
			zap.String("traceID", traceID),
		)
		if err := u.wait(ctx, delay); err != nil {
			logger.L().Warn("Backoff interrupted, republishing retry immediately",
				zap.String("notificationID", n.ID),
				zap.String("traceID", traceID),
				zap.Error(err),
			)
		}
		retryErr := msg.Retry(settleCtx, delay)
		if retryErr == nil {
			metrics.MessagesRetried.WithLabelValues(channelType).Inc()
			return
		}
		logger.L().Error("Failed to schedule retry, moving to DLQ",
			zap.String("notificationID", n.ID),
			zap.String("traceID", traceID),
			zap.Error(retryErr),
		)
		sendErr = fmt.Errorf("retry failed: %w; original error: %w", retryErr, sendErr)
	default:
		logger.L().Warn("Max retries reached, moving message to DLQ",
			zap.String("notificationID", n.ID),
			zap.String("channelType", channelType),
			zap.Int("attempt", currentAttempt),
			zap.String("traceID", traceID),
		)
	}

	if err := msg.MoveToDLQ(settleCtx, sendErr); err != nil {
		logger.L().Error("Failed to move message to DLQ",
			zap.String("notificationID", n.ID),
			zap.String("traceID", traceID),
			zap.Error(err),
		)
	}
}
