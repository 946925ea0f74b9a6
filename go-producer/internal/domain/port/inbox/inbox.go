package inbox

import (
	"context"

	"github.com/medeiros-dev/notification-template-service/internal/inbox"
)

// Reader lists a user's stored notifications, newest first.
type Reader interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]inbox.Record, error)
}
