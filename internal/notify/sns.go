package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/scadatwin/telemetry-engine/internal/analytics"
	"github.com/scadatwin/telemetry-engine/internal/domain"
)

// SNSNotifier publishes critical-health alerts to an SNS topic.
type SNSNotifier struct {
	svc      *sns.Client
	topicArn string
}

func NewSNSNotifier(ctx context.Context, region, topicArn string) (*SNSNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSNotifier{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}, nil
}

func (n *SNSNotifier) CriticalAlert(ctx context.Context, r domain.Reading, report analytics.HealthReport) error {
	subject := fmt.Sprintf("SCADA Alert: CRITICAL condition on %s", r.AssetID)
	message := fmt.Sprintf(
		"Critical Sensor Alert\n\n"+
			"Asset: %s\n"+
			"Time: %s\n"+
			"Temperature: %.1f°F\n"+
			"Motor Current: %.2fA\n"+
			"Vibration: %.3fmm/s\n\n"+
			"%s\n",
		r.AssetID,
		r.Timestamp.Format(time.RFC3339),
		r.Temperature,
		r.MotorAmps,
		r.Vibration,
		strings.Join(report.Issues, "\n"),
	)

	_, err := n.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}
