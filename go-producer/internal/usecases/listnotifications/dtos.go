package listnotifications

import (
	"time"

	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
)

type ListNotificationsInputDTO struct {
	UserID string
	Limit  int
	Format string
}

type NotificationItem struct {
	ID          string                     `json:"id"`
	Text        string                     `json:"text"`
	Spans       []notiftemplate.ClientSpan `json:"spans"`
	Highlighted string                     `json:"highlighted,omitempty"`
	Read        bool                       `json:"read"`
	CreatedAt   time.Time                  `json:"created_at"`
}

type ListNotificationsOutputDTO struct {
	UserID        string             `json:"user_id"`
	Notifications []NotificationItem `json:"notifications"`
}
