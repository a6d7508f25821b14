package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	subDomain "github.com/Kilat-Pet-Delivery/service-subscription/internal/domain/subscription"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/kafka"
)

// Source is the CloudEvent source of every subscription event.
const Source = "service-subscription"

// Publisher is the subset of *kafka.Producer used for subscription events.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, ce kafka.CloudEvent) error
}

// SubscriptionEventPublisher publishes subscription changes to a Kafka topic.
type SubscriptionEventPublisher struct {
	producer Publisher
	topic    string
	logger   *zap.Logger
	now      func() time.Time
}

// NewSubscriptionEventPublisher creates a publisher writing to topic.
func NewSubscriptionEventPublisher(producer Publisher, topic string, logger *zap.Logger) *SubscriptionEventPublisher {
	return &SubscriptionEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
		now:      time.Now,
	}
}

// Publish sends a CloudEvent of eventType describing s, keyed by its id so
// that every change of one subscription lands on the same partition.
func (p *SubscriptionEventPublisher) Publish(ctx context.Context, eventType string, s *subDomain.Subscription) error {
	key := s.ID().Hex()
	ce, err := kafka.NewCloudEvent(Source, eventType, key, subDomain.NewChangedEvent(s, p.now()))
	if err != nil {
		return err
	}

	if err := p.producer.PublishEvent(ctx, p.topic, key, ce); err != nil {
		return err
	}

	p.logger.Debug("subscription event published",
		zap.String("type", eventType),
		zap.String("subscription_id", key),
	)
	return nil
}
