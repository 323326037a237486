package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"physiocare/config"

	"github.com/segmentio/kafka-go"
)

// Event is a clinic change notification, emitted after a mutation commits.
type Event struct {
	Action     string      `json:"action"`
	EntityName string      `json:"entity"`
	EntityID   string      `json:"entity_id"`
	ActorID    string      `json:"actor_id,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewEventPublisher returns a Kafka-backed publisher, or a no-op one when no
// broker is configured.
func NewEventPublisher(cfg config.KafkaConfig) EventPublisher {
	if cfg.Broker == "" {
		return NoopPublisher{}
	}

	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Broker),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.LeastBytes{},
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EntityName + ":" + event.EntityID),
		Value: value,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
