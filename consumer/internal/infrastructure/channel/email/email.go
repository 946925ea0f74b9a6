// Package email delivers notifications as HTML mail, through SMTP or AWS SES
// depending on EMAIL_DRIVER.
package email

import (
	"errors"
	"fmt"
	"strings"

	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/app/registry"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"go.uber.org/zap"
)

const (
	ChannelName = "email"

	DriverSMTP = "smtp"
	DriverSES  = "ses"

	defaultFromName = "Notification Service"
)

var (
	ErrEmptyDestination  = channel.Permanent(errors.New("email destination cannot be empty"))
	ErrUnsupportedDriver = errors.New("unsupported email driver")
)

func init() {
	if err := registry.RegisterChannelFactory(ChannelName, NewEmailChannelFactory); err != nil {
		panic(fmt.Sprintf("Failed to register channel factory '%s': %v", ChannelName, err))
	}
}

// NewEmailChannelFactory picks the delivery backend from EMAIL_DRIVER.
func NewEmailChannelFactory(cfg *configs.Config) (channel.Channel, error) {
	driver := strings.ToLower(cfg.EmailDriver)
	logger.L().Info("Initializing email channel", zap.String("driver", driver))

	switch driver {
	case "", DriverSMTP:
		return NewSMTPEmailService(cfg)
	case DriverSES:
		return NewSESEmailService(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.EmailDriver)
	}
}

// sender holds what both drivers need to address and render a message.
type sender struct {
	fromName       string
	fromAddress    string
	defaultSubject string
	highlighter    notiftemplate.Highlighter
}

func newSender(cfg *configs.Config) sender {
	fromName := cfg.EmailFromName
	if fromName == "" {
		fromName = defaultFromName
	}
	return sender{
		fromName:       fromName,
		fromAddress:    cfg.EmailFromAddress,
		defaultSubject: cfg.EmailSubject,
		highlighter:    notiftemplate.HTML(cfg.HighlightClassPrefix),
	}
}

func (s sender) from() string {
	return fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
}

func (s sender) subject(msg channel.Message) string {
	if msg.Subject != "" {
		return msg.Subject
	}
	return s.defaultSubject
}

func (s sender) Highlighter() notiftemplate.Highlighter {
	return s.highlighter
}
