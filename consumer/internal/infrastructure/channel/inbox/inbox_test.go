package inbox

import (
	"context"
	"fmt"
	"testing"

	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"github.com/medeiros-dev/notification-template-service/internal/inbox"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRepo(t *testing.T) *inbox.Repository {
	t.Helper()
	repo, err := inbox.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestService_SendStoresSpans(t *testing.T) {
	repo := openRepo(t)
	svc := NewService(repo)

	text := "Alice posted in Family Group"
	tmpl := "{{ userId: u1 }} posted in {{ communityId: c1 }}"
	spans := notiftemplate.Parse(text, tmpl)

	msg := channel.Message{
		NotificationID: "n-1",
		UserID:         "bob",
		Text:           text,
		Template:       tmpl,
		Spans:          spans,
		Body:           text,
	}
	require.NoError(t, svc.Send(context.Background(), msg))
	// Redelivery is a no-op.
	require.NoError(t, svc.Send(context.Background(), msg))

	records, err := repo.ListByUser(context.Background(), "bob", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "n-1", records[0].NotificationID)
	assert.Equal(t, text, records[0].Text)
	assert.Equal(t, spans, []notiftemplate.PlaceholderSpan(records[0].Spans))
}

func TestService_SendRequiresUser(t *testing.T) {
	svc := NewService(openRepo(t))
	err := svc.Send(context.Background(), channel.Message{NotificationID: "n-2", Text: "hello"})
	assert.ErrorIs(t, err, inbox.ErrEmptyUserID)
	assert.ErrorIs(t, err, channel.ErrPermanent)
}

func TestNewServiceFactory(t *testing.T) {
	_, err := NewServiceFactory(&configs.Config{InboxDBDriver: "sqlite"})
	assert.Error(t, err)

	_, err = NewServiceFactory(&configs.Config{InboxDBDriver: "oracle", InboxDBDSN: "x"})
	assert.ErrorIs(t, err, inbox.ErrUnsupportedDriver)

	ch, err := NewServiceFactory(&configs.Config{
		InboxDBDriver: "sqlite",
		InboxDBDSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	})
	require.NoError(t, err)
	assert.IsType(t, &Service{}, ch)
}
