package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubPublisher publishes tracking events to a Google Pub/Sub topic.
type PubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub publisher.
type PubSubConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPubSubPublisher creates a new Pub/Sub tracking event publisher.
func NewPubSubPublisher(ctx context.Context, cfg PubSubConfig) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubPublisher{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger,
	}, nil
}

// PublishLocationUpdate publishes a location event. Publishing is
// fire-and-forget from the caller's perspective but this method waits for
// the broker acknowledgement so delivery failures surface here, not later.
func (p *PubSubPublisher) PublishLocationUpdate(ctx context.Context, event LocationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal location event: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"tracking_number": event.TrackingNumber,
			"event_type":      "location_update",
		},
	})

	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publish location event: %w", err)
	}

	p.logger.Debug().
		Str("message_id", id).
		Str("tracking_number", event.TrackingNumber).
		Bool("status_changed", event.StatusChanged).
		Msg("published location event")

	return nil
}

// Close flushes pending messages and closes the client.
func (p *PubSubPublisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}

var _ Notifier = (*PubSubPublisher)(nil)
