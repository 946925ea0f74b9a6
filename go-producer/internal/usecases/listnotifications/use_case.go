// Package listnotifications serves a user's in-app notification feed.
package listnotifications

import (
	"context"

	inboxport "github.com/medeiros-dev/notification-template-service/go-producer/internal/domain/port/inbox"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/tracing"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"go.opentelemetry.io/otel/attribute"
)

type ListNotificationsUseCase interface {
	Execute(ctx context.Context, input ListNotificationsInputDTO) (ListNotificationsOutputDTO, error)
}

type listNotificationsUseCase struct {
	reader      inboxport.Reader
	classPrefix string
}

func NewListNotificationsUseCase(reader inboxport.Reader, classPrefix string) ListNotificationsUseCase {
	return &listNotificationsUseCase{reader: reader, classPrefix: classPrefix}
}

// Execute returns stored records with their spans. When input.Format is set
// each item also carries the highlighted text.
func (u *listNotificationsUseCase) Execute(ctx context.Context, input ListNotificationsInputDTO) (ListNotificationsOutputDTO, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ListNotificationsUseCase.Execute")
	defer span.End()

	records, err := u.reader.ListByUser(ctx, input.UserID, input.Limit)
	if err != nil {
		metrics.InboxReadsTotal.WithLabelValues("failure").Inc()
		span.RecordError(err)
		return ListNotificationsOutputDTO{}, err
	}
	metrics.InboxReadsTotal.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.Int("inbox.records", len(records)))

	var h notiftemplate.Highlighter
	switch input.Format {
	case "":
	case "html":
		h = notiftemplate.HTML(u.classPrefix)
	default:
		h = notiftemplate.HighlighterFor(input.Format)
	}

	items := make([]NotificationItem, 0, len(records))
	for _, rec := range records {
		item := NotificationItem{
			ID:        rec.NotificationID,
			Text:      rec.Text,
			Spans:     notiftemplate.ForClient(rec.Text, rec.Spans),
			Read:      rec.Read,
			CreatedAt: rec.CreatedAt,
		}
		if h != nil {
			item.Highlighted = notiftemplate.Highlight(rec.Text, rec.Spans, h)
		}
		items = append(items, item)
	}
	return ListNotificationsOutputDTO{UserID: input.UserID, Notifications: items}, nil
}
