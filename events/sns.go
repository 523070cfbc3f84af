package events

import (
	"context"

	"github.com/shopswift/storefront/awsclient"
)

// SNSPublisher fans events out through an SNS topic. SNS has no partition
// key so key is ignored.
type SNSPublisher struct {
	client   awsclient.SNSPublisher
	topicArn string
}

func NewSNSPublisher(client awsclient.SNSPublisher, topicArn string) *SNSPublisher {
	return &SNSPublisher{client: client, topicArn: topicArn}
}

func (p *SNSPublisher) Publish(ctx context.Context, _ string, payload []byte) error {
	return p.client.Publish(ctx, p.topicArn, payload)
}

func (p *SNSPublisher) Close() error { return nil }
