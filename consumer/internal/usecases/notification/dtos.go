package notification

import "github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"

type DispatchNotificationInput struct {
	NotificationID string
	UserID         string
	Destination    string
	Subject        string
	Text           string
	Template       string
	Spans          []notiftemplate.PlaceholderSpan
}
