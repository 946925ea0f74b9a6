// Package sms delivers notifications as text messages through AWS SNS.
package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/medeiros-dev/notification-template-service/consumer/configs"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/app/registry"
	"github.com/medeiros-dev/notification-template-service/consumer/internal/domain/port/channel"
	"github.com/medeiros-dev/notification-template-service/consumer/pkg/logger"
	"github.com/medeiros-dev/notification-template-service/pkg/notiftemplate"
	"go.uber.org/zap"
)

const ChannelName = "sms"

var ErrEmptyDestination = channel.Permanent(errors.New("sms destination cannot be empty"))

// SNSAPI is the part of the SNS client used to publish messages.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSService implements channel.Channel by publishing directly to a phone
// number.
type SNSService struct {
	client   SNSAPI
	senderID string
}

var _ channel.Channel = (*SNSService)(nil)

func init() {
	if err := registry.RegisterChannelFactory(ChannelName, NewSNSServiceFactory); err != nil {
		panic(fmt.Sprintf("Failed to register channel factory '%s': %v", ChannelName, err))
	}
}

func NewSNSServiceFactory(cfg *configs.Config) (channel.Channel, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	logger.L().Info("Initializing SNS SMS Service",
		zap.String("region", cfg.AWSRegion),
		zap.Bool("senderID", cfg.SMSSenderID != ""),
	)
	return NewSNSService(sns.NewFromConfig(awsCfg), cfg.SMSSenderID), nil
}

func NewSNSService(client SNSAPI, senderID string) *SNSService {
	return &SNSService{client: client, senderID: senderID}
}

// Highlighter leaves the text as is; SMS has no markup.
func (s *SNSService) Highlighter() notiftemplate.Highlighter {
	return notiftemplate.Plain()
}

func (s *SNSService) Send(ctx context.Context, msg channel.Message) error {
	if msg.Destination == "" {
		return ErrEmptyDestination
	}
	traceID := logger.TraceIDFromContext(ctx)

	input := &sns.PublishInput{
		PhoneNumber: aws.String(msg.Destination),
		Message:     aws.String(msg.Body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
		},
	}
	if s.senderID != "" {
		input.MessageAttributes["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}

	out, err := s.client.Publish(ctx, input)
	if err != nil {
		logger.L().Error("Error publishing SMS via SNS",
			zap.String("notificationID", msg.NotificationID),
			zap.String("traceID", traceID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish SMS: %w", err)
	}

	logger.L().Info("SMS published via SNS",
		zap.String("notificationID", msg.NotificationID),
		zap.String("messageID", aws.ToString(out.MessageId)),
		zap.String("traceID", traceID),
	)
	return nil
}
