package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"go.uber.org/zap"
)

// SESAPI is the part of the SES client used to send mail.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESEmailService implements channel.Channel using AWS SES.
type SESEmailService struct {
	sender
	client SESAPI
}

var _ channel.Channel = (*SESEmailService)(nil)

// NewSESEmailService loads the default AWS credential chain for AWS_REGION.
func NewSESEmailService(cfg *configs.Config) (*SESEmailService, error) {
	if cfg.EmailFromAddress == "" {
		return nil, errors.New("SES configuration (from_address) cannot be empty")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	logger.L().Info("Initializing SES Email Service", zap.String("region", cfg.AWSRegion))
	return newSESEmailService(cfg, ses.NewFromConfig(awsCfg)), nil
}

func newSESEmailService(cfg *configs.Config, client SESAPI) *SESEmailService {
	return &SESEmailService{sender: newSender(cfg), client: client}
}

// Send delivers msg.Body as the HTML part and the unhighlighted text as the
// plain part.
func (s *SESEmailService) Send(ctx context.Context, msg channel.Message) error {
	if msg.Destination == "" {
		return ErrEmptyDestination
	}
	traceID := logger.TraceIDFromContext(ctx)

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{msg.Destination}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(s.subject(msg)), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(s.from()),
	})
	if err != nil {
		logger.L().Error("Error sending email via SES",
			zap.String("notificationID", msg.NotificationID),
			zap.String("traceID", traceID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	logger.L().Info("Email sent via SES",
		zap.String("notificationID", msg.NotificationID),
		zap.String("messageID", aws.ToString(out.MessageId)),
		zap.String("traceID", traceID),
	)
	return nil
}
