package notification

import (
	"context"

	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"go.uber.org/zap"
)

// DispatchNotificationHandler adapts a queued domain.Notification to the
// dispatch use case of one channel.
type DispatchNotificationHandler struct {
	useCase DispatchNotificationUseCaseInterface
}

func NewDispatchNotificationHandler(useCase DispatchNotificationUseCaseInterface) *DispatchNotificationHandler {
	return &DispatchNotificationHandler{useCase: useCase}
}

func (h *DispatchNotificationHandler) Handle(ctx context.Context, n domain.Notification) error {
	log := logger.Ctx(ctx).With(
		zap.String("notificationID", n.ID),
		zap.String("channelType", n.ChannelType),
		zap.Int("attempt", AttemptFromContext(ctx)),
	)
	log.Debug("Dispatching notification", zap.String("userID", n.UserProfile.UserID))

	err := h.useCase.Execute(ctx, inputFrom(n))
	if err != nil {
		log.Error("Notification dispatch failed", zap.Error(err))
		return err
	}
	log.Info("Notification dispatched")
	return nil
}

func inputFrom(n domain.Notification) DispatchNotificationInput {
	return DispatchNotificationInput{
		NotificationID: n.ID,
		UserID:         n.UserProfile.UserID,
		Destination:    n.Destination,
		Subject:        n.Subject,
		Text:           n.Text,
		Template:       n.Template,
		Spans:          n.Spans,
	}
}
