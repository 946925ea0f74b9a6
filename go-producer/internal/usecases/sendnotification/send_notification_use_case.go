package sendnotification

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/medeiros-dev/notification-template-service/go-producer/configs"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/domain"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/domain/port/broker"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/tracing"
	"github.com/medeiros-dev/notification-template-service/go-producer/pkg/logger"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SendNotificationUseCase defines the contract for the send notification use case.
type SendNotificationUseCase interface {
	Execute(ctx context.Context, input SendNotificationInputDTO) (SendNotificationOutputDTO, error)
}

type sendNotificationUseCase struct {
	publisher broker.Publisher
	newID     func() string
	now       func() time.Time
}

func NewSendNotificationUseCase(publisher broker.Publisher) SendNotificationUseCase {
	return &sendNotificationUseCase{
		publisher: publisher,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Execute resolves the template spans once, then publishes one message per
// enabled channel. Publish failures are reported per channel, not as an error.
func (s *sendNotificationUseCase) Execute(ctx context.Context, input SendNotificationInputDTO) (SendNotificationOutputDTO, error) {
	ctx, span := tracing.Tracer.Start(ctx, "SendNotificationUseCase.Execute")
	defer span.End()

	spans := []notiftemplate.PlaceholderSpan{}
	if input.Template != "" {
		spans = notiftemplate.Parse(input.Text, input.Template)
		metrics.ObserveSpans(spans)
	}
	resolved := len(notiftemplate.Resolved(spans))
	span.SetAttributes(
		attribute.Int("notification.placeholders", len(spans)),
		attribute.Int("notification.resolved_placeholders", resolved),
	)
	if resolved < len(spans) {
		logger.L().Debug("Template placeholders left unresolved",
			zap.String("requestID", input.ID),
			zap.Int("placeholders", len(spans)),
			zap.Int("resolved", resolved),
			zap.String("traceID", logger.TraceIDFromContext(ctx)),
		)
	}

	enabled := configs.GetConfig().EnabledChannels
	messages := []MessageResponse{}
	for _, channel := range input.Channels {
		if !channel.Enabled || !slices.Contains(enabled, channel.Type) {
			continue
		}
		metrics.MessagesReceivedTotal.WithLabelValues(channel.Type).Inc()

		notification := domain.Notification{
			ID:          s.newID(),
			Text:        input.Text,
			Template:    input.Template,
			Subject:     input.Subject,
			ChannelType: channel.Type,
			Destination: channel.Destination,
			UserProfile: input.UserProfile,
			Spans:       spans,
			CreatedAt:   s.now().UTC(),
		}
		resp := MessageResponse{ID: notification.ID, ChannelType: channel.Type, Status: StatusSuccess}
		if err := s.publisher.Publish(ctx, notification); err != nil {
			resp.Status = StatusError
			resp.Error = err.Error()
		}
		messages = append(messages, resp)
	}

	return SendNotificationOutputDTO{Spans: notiftemplate.ForClient(input.Text, spans), Messages: messages}, nil
}
