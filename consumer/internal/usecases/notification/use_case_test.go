package notification

import (
	"context"
	"errors"
	"testing"

	port "github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockChannel is a mock implementation of the channel.Channel interface
type MockChannel struct {
	mock.Mock
	highlighter notiftemplate.Highlighter
}

var _ port.Channel = (*MockChannel)(nil)

func (m *MockChannel) Send(ctx context.Context, msg port.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChannel) Highlighter() notiftemplate.Highlighter {
	if m.highlighter == nil {
		return notiftemplate.Plain()
	}
	return m.highlighter
}

func TestDispatchNotificationUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	text := "Bob commented on Photography Club"
	template := "{{ userId: u1 }} commented on {{ communityId: c1 }}"
	parsed := notiftemplate.Parse(text, template)

	tests := []struct {
		name          string
		input         DispatchNotificationInput
		highlighter   notiftemplate.Highlighter
		expectedBody  string
		sendErr       error
		expectedError error
		expectSend    bool
	}{
		{
			name: "Parses Template When Spans Missing",
			input: DispatchNotificationInput{
				NotificationID: "n1",
				UserID:         "user-1",
				Destination:    "bob@example.com",
				Text:           text,
				Template:       template,
			},
			highlighter:  notiftemplate.Markdown(),
			expectedBody: "**Bob** commented on **Photography Club**",
			expectSend:   true,
		},
		{
			name: "Uses Spans From Producer",
			input: DispatchNotificationInput{
				NotificationID: "n2",
				Text:           text,
				Template:       "ignored {{ userId: zz }}",
				Spans:          parsed[:1],
			},
			highlighter:  notiftemplate.Markdown(),
			expectedBody: "**Bob** commented on Photography Club",
			expectSend:   true,
		},
		{
			name: "No Template Sends Plain Text",
			input: DispatchNotificationInput{
				NotificationID: "n3",
				Text:           "Welcome to the community",
			},
			highlighter:  notiftemplate.HTML(""),
			expectedBody: "Welcome to the community",
			expectSend:   true,
		},
		{
			name: "Channel Error",
			input: DispatchNotificationInput{
				NotificationID: "n4",
				Text:           text,
				Template:       template,
			},
			expectedBody:  text,
			sendErr:       errors.New("channel failed"),
			expectedError: errors.New("channel failed"),
			expectSend:    true,
		},
		{
			name:          "Empty Text",
			input:         DispatchNotificationInput{NotificationID: "n5", Template: template},
			expectedError: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCh := &MockChannel{highlighter: tt.highlighter}
			if tt.expectSend {
				mockCh.On("Send", mock.Anything, mock.MatchedBy(func(msg port.Message) bool {
					return msg.Body == tt.expectedBody &&
						msg.NotificationID == tt.input.NotificationID &&
						msg.Text == tt.input.Text
				})).Return(tt.sendErr)
			}

			err := NewDispatchNotificationUseCase(mockCh).Execute(ctx, tt.input)

			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}
			mockCh.AssertExpectations(t)
			if !tt.expectSend {
				mockCh.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestDispatchNotificationUseCase_ForwardsSpans(t *testing.T) {
	text := "Alice liked your post"
	mockCh := &MockChannel{}
	var sent port.Message
	mockCh.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(port.Message)
	}).Return(nil)

	err := NewDispatchNotificationUseCase(mockCh).Execute(context.Background(), DispatchNotificationInput{
		NotificationID: "n1",
		UserID:         "user-9",
		Text:           text,
		Template:       "{{ userId: u1 }} liked your post",
	})

	assert.NoError(t, err)
	assert.Equal(t, "user-9", sent.UserID)
	assert.Equal(t, []notiftemplate.PlaceholderSpan{
		{ID: "u1", Type: notiftemplate.TypeUser, Text: "Alice", Range: notiftemplate.Range{Offset: 0, Length: 5}},
	}, sent.Spans)
}

func TestDispatchNotificationUseCase_EmptyTextIsPermanent(t *testing.T) {
	err := NewDispatchNotificationUseCase(&MockChannel{}).Execute(context.Background(), DispatchNotificationInput{NotificationID: "n6"})
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.ErrorIs(t, err, port.ErrPermanent)
}
