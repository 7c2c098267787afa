package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/vladpirlog/takenote-api-sub000/internal/events"
	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
)

// EntityEventHandler processes a single entity event.
type EntityEventHandler func(ctx context.Context, event events.EntityEvent) error

// Consumer reads the entity.activity topic and dispatches events to the
// handlers registered per event type.
type Consumer struct {
	reader   *kafka.Reader
	handlers map[string][]EntityEventHandler
}

func NewConsumer(brokers []string, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   events.EntityActivityTopic,
	})

	return &Consumer{
		reader:   reader,
		handlers: make(map[string][]EntityEventHandler),
	}
}

// RegisterHandler registers a handler for a specific event type.
func (c *Consumer) RegisterHandler(eventType string, handler EntityEventHandler) {
	c.handlers[eventType] = append(c.handlers[eventType], handler)
}

// Start consumes messages until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.Error().Err(err).Msg("Failed to read message")
			continue
		}

		var event events.EntityEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to unmarshal entity event")
			continue
		}

		for _, handler := range c.handlers[event.EventType] {
			if err := handler(ctx, event); err != nil {
				logger.Log.Error().Err(err).Str("eventType", event.EventType).Msg("Error handling event")
			}
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
