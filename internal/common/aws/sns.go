// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const (
	EventApplicationCreated       = "application.created"
	EventApplicationStatusChanged = "application.status_changed"
)

// Event is the envelope published for every application lifecycle change.
type Event struct {
	Type       string      `json:"type"`
	Subject    string      `json:"subject"`
	OccurredAt string      `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// snsAPI is the subset of the SNS client used here.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client   snsAPI
	topicARN string
	now      func() time.Time
}

func NewSNSClient(ctx context.Context, region, topicARN string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSNSClient(sns.NewFromConfig(cfg), topicARN), nil
}

func newSNSClient(api snsAPI, topicARN string) *SNSClient {
	return &SNSClient{client: api, topicARN: topicARN, now: time.Now}
}

// PublishEvent sends data as a JSON event. eventType and subject are copied
// into message attributes so subscribers can filter without parsing.
func (s *SNSClient) PublishEvent(ctx context.Context, eventType, subject string, data interface{}) (string, error) {
	body, err := json.Marshal(Event{
		Type:       eventType,
		Subject:    subject,
		OccurredAt: s.now().UTC().Format(time.RFC3339),
		Data:       data,
	})
	if err != nil {
		return "", fmt.Errorf("encode %s event: %w", eventType, err)
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(eventType)},
			"subject":   {DataType: aws.String("String"), StringValue: aws.String(subject)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return aws.ToString(out.MessageId), nil
}

// NoopPublisher is used when event publication is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishEvent(context.Context, string, string, interface{}) (string, error) {
	return "", nil
}
