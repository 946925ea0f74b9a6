package notificationspans

import "github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"

// ResolveSpansInputDTO is the body of POST /notification-spans. Format selects
// the highlighter for Highlighted: html (default), markdown or plain.
type ResolveSpansInputDTO struct {
	Text     string `json:"text" binding:"required"`
	Template string `json:"template"`
	Format   string `json:"format" binding:"omitempty,oneof=html markdown plain"`
}

type ResolveSpansOutputDTO struct {
	Spans       []notiftemplate.ClientSpan `json:"spans"`
	Highlighted string                     `json:"highlighted"`
	Unresolved  int                        `json:"unresolved"`
}
