package notification

import (
	"context"
	"errors"

	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/observability/tracing"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var ErrEmptyText = channel.Permanent(errors.New("notification text cannot be empty"))

// DispatchNotificationUseCaseInterface defines the core dispatch logic.
type DispatchNotificationUseCaseInterface interface {
	Execute(ctx context.Context, input DispatchNotificationInput) error
}

type DispatchNotificationUseCase struct {
	channel channel.Channel
}

func NewDispatchNotificationUseCase(channel channel.Channel) *DispatchNotificationUseCase {
	return &DispatchNotificationUseCase{
		channel: channel,
	}
}

// Execute resolves the template spans (unless the producer already did),
// renders the body with the channel's highlighter and sends it.
func (u *DispatchNotificationUseCase) Execute(ctx context.Context, input DispatchNotificationInput) error {
	ctx, span := tracing.Tracer.Start(ctx, "DispatchNotificationUseCase.Execute")
	defer span.End()

	if input.Text == "" {
		return ErrEmptyText
	}

	spans := input.Spans
	if len(spans) == 0 && input.Template != "" {
		spans = notiftemplate.Parse(input.Text, input.Template)
	}
	metrics.ObserveSpans(spans)

	unresolved := len(spans) - len(notiftemplate.Resolved(spans))
	span.SetAttributes(
		attribute.Int("notification.placeholders", len(spans)),
		attribute.Int("notification.unresolved_placeholders", unresolved),
	)
	if unresolved > 0 {
		logger.L().Debug("Some template placeholders could not be located in the text",
			zap.String("notificationID", input.NotificationID),
			zap.Int("placeholders", len(spans)),
			zap.Int("unresolved", unresolved),
			zap.String("traceID", logger.TraceIDFromContext(ctx)),
		)
	}

	msg := channel.Message{
		NotificationID: input.NotificationID,
		UserID:         input.UserID,
		Destination:    input.Destination,
		Subject:        input.Subject,
		Body:           notiftemplate.Highlight(input.Text, spans, u.channel.Highlighter()),
		Text:           input.Text,
		Template:       input.Template,
		Spans:          spans,
	}
	return u.channel.Send(ctx, msg)
}
