package sendnotification

import (
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/domain"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
)

// SendNotificationInputDTO is the body of POST /send-notification. Text is the
// rendered notification; Template is the same sentence with placeholders.
type SendNotificationInputDTO struct {
	ID          string             `json:"id"`
	Text        string             `json:"text" binding:"required"`
	Template    string             `json:"template"`
	Subject     string             `json:"subject"`
	Channels    []Channel          `json:"channels" binding:"required,min=1,dive"`
	UserProfile domain.UserProfile `json:"user_profile"`
}

type Channel struct {
	Type        string `json:"type" binding:"required"`
	Destination string `json:"destination"`
	Enabled     bool   `json:"enabled"`
}

type SendNotificationOutputDTO struct {
	Spans    []notiftemplate.ClientSpan `json:"spans"`
	Messages []MessageResponse          `json:"messages"`
}

type MessageResponse struct {
	ID          string `json:"id"`
	ChannelType string `json:"channel_type"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}
