// Package event publishes cart instance lifecycle events to Kafka. It
// implements the manager's Publisher interface.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pkgkafka "github.com/acidvertigo/cart/pkg/kafka"
)

// Kafka topic constants for instance lifecycle events.
const (
	TopicInstanceCreated   = "cart.instance.created"
	TopicInstanceDestroyed = "cart.instance.destroyed"
	TopicInstanceSaved     = "cart.instance.saved"
)

// Aggregate type constant.
const AggregateTypeCartInstance = "cart_instance"

// Source identifier for events originating from this service.
const SourceCartService = "cart-service"

// InstanceCreatedData is the payload for an instance.created event.
type InstanceCreatedData struct {
	InstanceID string    `json:"instance_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// InstanceDestroyedData is the payload for an instance.destroyed event.
type InstanceDestroyedData struct {
	InstanceID     string `json:"instance_id"`
	StorageCleared bool   `json:"storage_cleared"`
}

// InstanceSavedData is the payload for an instance.saved event.
type InstanceSavedData struct {
	InstanceID  string `json:"instance_id"`
	ItemCount   int    `json:"item_count"`
	TotalAmount int64  `json:"total_amount"`
}

// Producer publishes lifecycle events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a lifecycle event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// InstanceCreated publishes an instance.created event.
func (p *Producer) InstanceCreated(ctx context.Context, id string) error {
	data := InstanceCreatedData{
		InstanceID: id,
		CreatedAt:  time.Now().UTC(),
	}

	event, err := pkgkafka.NewEvent(TopicInstanceCreated, id, AggregateTypeCartInstance, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create instance.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicInstanceCreated, event); err != nil {
		return fmt.Errorf("publish instance.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published instance.created event",
		slog.String("cart_id", id),
	)

	return nil
}

// InstanceDestroyed publishes an instance.destroyed event.
func (p *Producer) InstanceDestroyed(ctx context.Context, id string, storageCleared bool) error {
	data := InstanceDestroyedData{
		InstanceID:     id,
		StorageCleared: storageCleared,
	}

	event, err := pkgkafka.NewEvent(TopicInstanceDestroyed, id, AggregateTypeCartInstance, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create instance.destroyed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicInstanceDestroyed, event); err != nil {
		return fmt.Errorf("publish instance.destroyed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published instance.destroyed event",
		slog.String("cart_id", id),
		slog.Bool("storage_cleared", storageCleared),
	)

	return nil
}

// InstanceSaved publishes an instance.saved event.
func (p *Producer) InstanceSaved(ctx context.Context, id string, itemCount int, totalAmount int64) error {
	data := InstanceSavedData{
		InstanceID:  id,
		ItemCount:   itemCount,
		TotalAmount: totalAmount,
	}

	event, err := pkgkafka.NewEvent(TopicInstanceSaved, id, AggregateTypeCartInstance, SourceCartService, data)
	if err != nil {
		return fmt.Errorf("create instance.saved event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicInstanceSaved, event); err != nil {
		return fmt.Errorf("publish instance.saved event: %w", err)
	}

	p.logger.DebugContext(ctx, "published instance.saved event",
		slog.String("cart_id", id),
		slog.Int("item_count", itemCount),
	)

	return nil
}
