package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"go.uber.org/zap"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPEmailService implements channel.Channel using SMTP.
type SMTPEmailService struct {
	sender
	addr     string
	auth     smtp.Auth
	sendMail sendMailFunc
}

var _ channel.Channel = (*SMTPEmailService)(nil)

func NewSMTPEmailService(cfg *configs.Config) (*SMTPEmailService, error) {
	if cfg.EmailHost == "" || cfg.EmailPort == "" || cfg.EmailFromAddress == "" {
		return nil, errors.New("SMTP configuration (host, port, from_address) cannot be empty")
	}

	var auth smtp.Auth
	if cfg.EmailUsername != "" {
		auth = smtp.PlainAuth("", cfg.EmailUsername, cfg.EmailPassword, cfg.EmailHost)
	}

	logger.L().Info("Initializing SMTP Email Service",
		zap.String("host", cfg.EmailHost),
		zap.String("port", cfg.EmailPort),
		zap.Bool("authEnabled", auth != nil),
	)
	return &SMTPEmailService{
		sender:   newSender(cfg),
		addr:     cfg.EmailHost + ":" + cfg.EmailPort,
		auth:     auth,
		sendMail: smtp.SendMail,
	}, nil
}

// Send delivers msg.Body as a text/html message.
func (s *SMTPEmailService) Send(ctx context.Context, msg channel.Message) error {
	if msg.Destination == "" {
		return ErrEmptyDestination
	}
	traceID := logger.TraceIDFromContext(ctx)

	raw := buildMIMEMessage(s.from(), msg.Destination, s.subject(msg), msg.Body)
	if err := s.sendMail(s.addr, s.auth, s.fromAddress, []string{msg.Destination}, raw); err != nil {
		logger.L().Error("Error sending email via SMTP",
			zap.String("notificationID", msg.NotificationID),
			zap.String("smtpAddr", s.addr),
			zap.String("traceID", traceID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}

	logger.L().Info("Email sent via SMTP",
		zap.String("notificationID", msg.NotificationID),
		zap.String("smtpAddr", s.addr),
		zap.String("traceID", traceID),
	)
	return nil
}

func buildMIMEMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}
