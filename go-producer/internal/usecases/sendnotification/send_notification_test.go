package sendnotification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/medeiros-dev/notification-template-service/go-producer/configs"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/domain"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/metrics"
	"github.com/medeiros-dev/notification-template-service/go-producer/internal/observability/tracing"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type MockSendNotificationUseCase struct {
	mock.Mock
}

func (m *MockSendNotificationUseCase) Execute(ctx context.Context, input SendNotificationInputDTO) (SendNotificationOutputDTO, error) {
	args := m.Called(ctx, input)
	output, _ := args.Get(0).(SendNotificationOutputDTO)
	return output, args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, n domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func setupUseCaseTest(t *testing.T, enabled []string) {
	t.Helper()
	metrics.InitMetrics()
	prevTracer, prevCfg := tracing.Tracer, configs.GetConfig()
	tracing.Tracer = noop.NewTracerProvider().Tracer("test-usecase-tracer")
	configs.SetConfig(&configs.Config{EnabledChannels: enabled})
	t.Cleanup(func() {
		tracing.Tracer = prevTracer
		configs.SetConfig(prevCfg)
	})
}

func newTestUseCase(mb *MockPublisher) *sendNotificationUseCase {
	ids := 0
	return &sendNotificationUseCase{
		publisher: mb,
		newID: func() string {
			ids++
			return []string{"id-1", "id-2", "id-3"}[ids-1]
		},
		now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestSendNotificationUseCase_Execute(t *testing.T) {
	text := "Alice posted in Family Group"
	tmpl := "{{ userId: u1 }} posted in {{ communityId: c1 }}"
	wantSpans := notiftemplate.ForClient(text, notiftemplate.Parse(text, tmpl))

	tests := []struct {
		name         string
		enabled      []string
		input        SendNotificationInputDTO
		brokerSetup  func(mb *MockPublisher)
		wantMessages []MessageResponse
		wantSpans    []notiftemplate.ClientSpan
	}{
		{
			name:    "publishes enabled channels with spans",
			enabled: []string{"email", "inbox"},
			input: SendNotificationInputDTO{
				Text:        text,
				Template:    tmpl,
				UserProfile: domain.UserProfile{UserID: "bob"},
				Channels: []Channel{
					{Type: "email", Destination: "bob@example.com", Enabled: true},
					{Type: "inbox", Enabled: true},
				},
			},
			brokerSetup: func(mb *MockPublisher) {
				mb.On("Publish", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
					return n.Text == text && n.UserProfile.UserID == "bob" && len(n.Spans) == 2 && n.Spans[0].Text == "Alice"
				})).Return(nil).Twice()
			},
			wantMessages: []MessageResponse{
				{ID: "id-1", ChannelType: "email", Status: StatusSuccess},
				{ID: "id-2", ChannelType: "inbox", Status: StatusSuccess},
			},
			wantSpans: wantSpans,
		},
		{
			name:    "skips disabled and unconfigured channels",
			enabled: []string{"email"},
			input: SendNotificationInputDTO{
				Text: "plain text",
				Channels: []Channel{
					{Type: "email", Destination: "a@b.c", Enabled: false},
					{Type: "sms", Destination: "+1", Enabled: true},
				},
			},
			brokerSetup:  func(*MockPublisher) {},
			wantMessages: []MessageResponse{},
			wantSpans:    []notiftemplate.ClientSpan{},
		},
		{
			name:    "reports publish failure per channel",
			enabled: []string{"sms"},
			input: SendNotificationInputDTO{
				Text:     "hello",
				Channels: []Channel{{Type: "sms", Destination: "+1", Enabled: true}},
			},
			brokerSetup: func(mb *MockPublisher) {
				mb.On("Publish", mock.Anything, mock.Anything).Return(errors.New("kafka down")).Once()
			},
			wantMessages: []MessageResponse{{ID: "id-1", ChannelType: "sms", Status: StatusError, Error: "kafka down"}},
			wantSpans:    []notiftemplate.ClientSpan{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupUseCaseTest(t, tt.enabled)
			mb := new(MockPublisher)
			tt.brokerSetup(mb)

			out, err := newTestUseCase(mb).Execute(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.wantMessages, out.Messages)
			assert.Equal(t, tt.wantSpans, out.Spans)
			mb.AssertExpectations(t)
		})
	}
}

func TestNewSendNotification(t *testing.T) {
	assert.NotNil(t, NewSendNotification(new(MockPublisher)))
}
