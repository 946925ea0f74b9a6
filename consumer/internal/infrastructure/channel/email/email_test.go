package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *configs.Config {
	return &configs.Config{
		EmailDriver:          DriverSMTP,
		EmailHost:            "smtp.example.com",
		EmailPort:            "587",
		EmailFromAddress:     "noreply@example.com",
		EmailSubject:         "New activity",
		HighlightClassPrefix: "n",
	}
}

func testMessage() channel.Message {
	text := "Alice posted in Family Group"
	spans := notiftemplate.Parse(text, "{{ userId: u1 }} posted in {{ communityId: c1 }}")
	return channel.Message{
		NotificationID: "notif-1",
		Destination:    "bob@example.com",
		Text:           text,
		Spans:          spans,
		Body:           notiftemplate.Highlight(text, spans, notiftemplate.HTML("n")),
	}
}

func TestNewEmailChannelFactory(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *configs.Config)
		wantErr error
		want    any
	}{
		{name: "smtp driver", mutate: func(*configs.Config) {}, want: &SMTPEmailService{}},
		{name: "empty driver defaults to smtp", mutate: func(c *configs.Config) { c.EmailDriver = "" }, want: &SMTPEmailService{}},
		{name: "unknown driver", mutate: func(c *configs.Config) { c.EmailDriver = "carrier-pigeon" }, wantErr: ErrUnsupportedDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			ch, err := NewEmailChannelFactory(cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, ch)
		})
	}
}

func TestNewSMTPEmailService_RequiresHost(t *testing.T) {
	cfg := testConfig()
	cfg.EmailHost = ""
	_, err := NewSMTPEmailService(cfg)
	assert.Error(t, err)
}

func TestSMTPEmailService_Send(t *testing.T) {
	svc, err := NewSMTPEmailService(testConfig())
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	svc.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	msg := testMessage()
	require.NoError(t, svc.Send(context.Background(), msg))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"bob@example.com"}, gotTo)
	raw := string(gotMsg)
	assert.Contains(t, raw, "From: Notification Service <noreply@example.com>\r\n")
	assert.Contains(t, raw, "Subject: New activity\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.Contains(t, raw, `<b class="n-user" data-id="u1">Alice</b> posted in <b class="n-community" data-id="c1">Family Group</b>`)
}

func TestSMTPEmailService_SendErrors(t *testing.T) {
	svc, err := NewSMTPEmailService(testConfig())
	require.NoError(t, err)
	svc.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err = svc.Send(context.Background(), testMessage())
	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, channel.ErrPermanent)

	empty := testMessage()
	empty.Destination = ""
	assert.ErrorIs(t, svc.Send(context.Background(), empty), ErrEmptyDestination)
	assert.ErrorIs(t, svc.Send(context.Background(), empty), channel.ErrPermanent)
}

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ses.SendEmailOutput)
	return out, args.Error(1)
}

func TestSESEmailService_Send(t *testing.T) {
	client := new(mockSES)
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return in.Destination.ToAddresses[0] == "bob@example.com" &&
			aws.ToString(in.Message.Subject.Data) == "Custom subject" &&
			aws.ToString(in.Message.Body.Text.Data) == "Alice posted in Family Group" &&
			aws.ToString(in.Source) == "Notification Service <noreply@example.com>"
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("ses-1")}, nil)

	svc := newSESEmailService(testConfig(), client)
	msg := testMessage()
	msg.Subject = "Custom subject"

	require.NoError(t, svc.Send(context.Background(), msg))
	client.AssertExpectations(t)
}

func TestSESEmailService_SendError(t *testing.T) {
	client := new(mockSES)
	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	svc := newSESEmailService(testConfig(), client)
	err := svc.Send(context.Background(), testMessage())
	assert.ErrorContains(t, err, "throttled")
}

func TestHighlighterIsHTML(t *testing.T) {
	svc := newSESEmailService(testConfig(), new(mockSES))
	assert.Equal(t, "a &amp; b", svc.Highlighter().Literal("a & b"))
}
