// Package inbox delivers notifications to the in-app feed store.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/app/registry"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"github.com/medeiros-dev/notification-template-service/internal/inbox"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"go.uber.org/zap"
)

const ChannelName = "inbox"

// Store persists inbox records.
type Store interface {
	Save(ctx context.Context, rec *inbox.Record) error
}

// Service implements channel.Channel by writing the raw text and spans, so
// clients can highlight however they like.
type Service struct {
	store Store
	now   func() time.Time
}

var _ channel.Channel = (*Service)(nil)

func init() {
	if err := registry.RegisterChannelFactory(ChannelName, NewServiceFactory); err != nil {
		panic(fmt.Sprintf("Failed to register channel factory '%s': %v", ChannelName, err))
	}
}

func NewServiceFactory(cfg *configs.Config) (channel.Channel, error) {
	if cfg.InboxDBDSN == "" {
		return nil, errors.New("INBOX_DB_DSN must be set")
	}
	repo, err := inbox.Open(cfg.InboxDBDriver, cfg.InboxDBDSN)
	if err != nil {
		return nil, err
	}
	logger.L().Info("Initializing inbox channel", zap.String("driver", cfg.InboxDBDriver))
	return NewService(repo), nil
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Highlighter() notiftemplate.Highlighter {
	return notiftemplate.Plain()
}

// Send stores the notification for msg.UserID. Destination is ignored.
func (s *Service) Send(ctx context.Context, msg channel.Message) error {
	rec := &inbox.Record{
		NotificationID: msg.NotificationID,
		UserID:         msg.UserID,
		Text:           msg.Text,
		Template:       msg.Template,
		Spans:          msg.Spans,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		logger.L().Error("Error saving inbox notification",
			zap.String("notificationID", msg.NotificationID),
			zap.String("userID", msg.UserID),
			zap.String("traceID", logger.TraceIDFromContext(ctx)),
			zap.Error(err),
		)
		if errors.Is(err, inbox.ErrEmptyUserID) {
			return channel.Permanent(err)
		}
		return err
	}

	logger.L().Info("Notification stored in inbox",
		zap.String("notificationID", msg.NotificationID),
		zap.String("userID", msg.UserID),
		zap.Int("spans", len(msg.Spans)),
		zap.String("traceID", logger.TraceIDFromContext(ctx)),
	)
	return nil
}
