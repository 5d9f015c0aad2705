package pubsub

import (
	"context"

	"loan-case-tracker/internal/pkg/log_messages"
	"loan-case-tracker/internal/pkg/logger"
	"loan-case-tracker/internal/service/interfaces"

	"cloud.google.com/go/pubsub/v2"
	"go.uber.org/zap"
)

// PubSubPublisher publishes case notifications to a single topic.
type PubSubPublisher struct {
	PubSubClient interfaces.PubSubPublisherClientInterface
	Topic        string
}

// PubSubPublisherClientFactory makes new clients (mockable in tests).
type PubSubPublisherClientFactory interface {
	NewPubSubPublisherClient(ctx context.Context, projectID string) (interfaces.PubSubPublisherClientInterface, error)
}

type defaultPubSubPublisherClientFactory struct{}

func (f *defaultPubSubPublisherClientFactory) NewPubSubPublisherClient(ctx context.Context,
	projectID string) (interfaces.PubSubPublisherClientInterface, error) {
	sdkClient, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &pubSubPublisherClientAdapter{client: sdkClient}, nil
}

type pubSubPublisherClientAdapter struct {
	client *pubsub.Client
}

func (c *pubSubPublisherClientAdapter) Publisher(topic string) interfaces.PublisherInterface {
	return &publisherAdapter{publisher: c.client.Publisher(topic)}
}

func (c *pubSubPublisherClientAdapter) Close() error {
	return c.client.Close()
}

type publisherAdapter struct {
	publisher *pubsub.Publisher
}

func (p *publisherAdapter) Publish(ctx context.Context, msg []byte, attributes map[string]string) error {
	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       msg,
		Attributes: attributes,
	})
	_, err := result.Get(ctx)
	return err
}

// NewPubSubPublisher is the production constructor. Declared as a variable so
// tests can replace it.
var NewPubSubPublisher = func(ctx context.Context, projectID, topic string) (*PubSubPublisher, error) {
	return NewPubSubPublisherWithFactory(ctx, projectID, topic, &defaultPubSubPublisherClientFactory{})
}

func NewPubSubPublisherWithFactory(ctx context.Context, projectID, topic string,
	factory PubSubPublisherClientFactory) (*PubSubPublisher, error) {
	client, err := factory.NewPubSubPublisherClient(ctx, projectID)
	if err != nil {
		logger.CtxError(ctx, "Failed creating PubSub client", err)
		return nil, err
	}
	logger.CtxInfo(ctx, log_messages.PubsubPublisherCreated, zap.String("topic", topic))

	return &PubSubPublisher{
		PubSubClient: client,
		Topic:        topic,
	}, nil
}

// Publish sends msg to the configured topic. The key travels as the case_id
// attribute.
func (p *PubSubPublisher) Publish(ctx context.Context, key string, msg []byte) error {
	return p.PubSubClient.Publisher(p.Topic).Publish(ctx, msg, map[string]string{"case_id": key})
}

func (p *PubSubPublisher) Close() error {
	return p.PubSubClient.Close()
}
