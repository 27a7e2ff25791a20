package events

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSBackend is the part of the SNS wrapper used for publishing.
type SNSBackend interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// SNSPublisher sends events to an SNS topic with the event type as a
// message attribute for subscription filtering.
type SNSPublisher struct {
	backend  SNSBackend
	topicARN string
}

func NewSNSPublisher(backend SNSBackend, topicARN string) *SNSPublisher {
	return &SNSPublisher{backend: backend, topicARN: topicARN}
}

func (p *SNSPublisher) Name() string { return "sns" }

func (p *SNSPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = p.backend.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(payload)),
		Subject:  aws.String(event.Type),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(event.Type)},
			"activity":  {DataType: aws.String("String"), StringValue: aws.String(event.Activity)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish to %s failed: %w", p.topicARN, err)
	}
	return nil
}
