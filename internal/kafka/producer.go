package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/vladpirlog/takenote-api-sub000/internal/events"
	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
)

type Producer struct {
	accountWriter *kafka.Writer
	entityWriter  *kafka.Writer
}

// NewProducer creates a new Kafka producer with writers for both activity
// topics.
func NewProducer(brokers []string) *Producer {
	accountWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        events.AccountActivityTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	entityWriter := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        events.EntityActivityTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	return &Producer{
		accountWriter: accountWriter,
		entityWriter:  entityWriter,
	}
}

// PublishAccountEvent publishes an account event to account.activity.
func (p *Producer) PublishAccountEvent(ctx context.Context, event *events.AccountEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
		Time:  event.Timestamp,
	}

	if err := p.accountWriter.WriteMessages(ctx, message); err != nil {
		logger.Log.Error().Err(err).Str("eventType", event.EventType).Msg("Failed to publish account event")
		return err
	}

	logger.Log.Info().Str("eventType", event.EventType).Str("userId", event.UserID).Msg("Published account event")
	return nil
}

// PublishEntityEvent publishes an entity event to entity.activity.
func (p *Producer) PublishEntityEvent(ctx context.Context, event *events.EntityEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(event.EntityID),
		Value: value,
		Time:  event.Timestamp,
	}

	if err := p.entityWriter.WriteMessages(ctx, message); err != nil {
		logger.Log.Error().Err(err).Str("eventType", event.EventType).Msg("Failed to publish entity event")
		return err
	}

	logger.Log.Info().Str("eventType", event.EventType).Str("entityId", event.EntityID).Msg("Published entity event")
	return nil
}

// Close closes the Kafka writers.
func (p *Producer) Close() error {
	var err1, err2 error
	if p.accountWriter != nil {
		err1 = p.accountWriter.Close()
	}
	if p.entityWriter != nil {
		err2 = p.entityWriter.Close()
	}

	if err1 != nil {
		return err1
	}
	return err2
}
