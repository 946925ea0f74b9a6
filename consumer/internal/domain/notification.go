package domain

import (
	"time"

	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
)

// Notification is the message published by the producer for one channel.
// Spans may be empty when the producer did not resolve them; the consumer
// parses Template against Text in that case.
type Notification struct {
	ID          string                          `json:"id"`
	Text        string                          `json:"text"`
	Template    string                          `json:"template"`
	Subject     string                          `json:"subject,omitempty"`
	ChannelType string                          `json:"channel_type"`
	Destination string                          `json:"destination"`
	UserProfile UserProfile                     `json:"user_profile"`
	Spans       []notiftemplate.PlaceholderSpan `json:"spans,omitempty"`
	CreatedAt   time.Time                       `json:"created_at"`
}

type UserProfile struct {
	UserID            string `json:"user_id"`
	Name              string `json:"name"`
	PreferredLanguage string `json:"preferred_language"`
	Timezone          string `json:"timezone"`
}
