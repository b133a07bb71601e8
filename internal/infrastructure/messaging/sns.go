package messaging

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/wa-otp-auth/internal/config"
)

// SNSSender delivers passcodes as plain SMS via AWS SNS. It is the fallback
// channel for deployments without a WhatsApp business account; selected with
// OTP_CHANNEL=sms.
type SNSSender struct {
	client *sns.Client
}

func NewSNSSender(cfg *config.Config) (*SNSSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &SNSSender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *SNSSender) Send(ctx context.Context, phoneNumber, code string) error {
	message := fmt.Sprintf("%s is your verification code.", code)
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &phoneNumber,
		Message:     &message,
	})
	if err != nil {
		return &SendError{Kind: KindAPI, Response: "SNS_PUBLISH_FAILED", Data: err.Error()}
	}
	return nil
}
