package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/smokwena/dispute-backend/internal/models"
)

const (
	TopicDisputeCreated = "bank.disputes.created"
	TopicDisputeUpdated = "bank.disputes.updated"
)

// Publisher emits dispute lifecycle messages for downstream consumers.
type Publisher struct {
	created *kafka.Writer
	updated *kafka.Writer
	log     *slog.Logger
}

func NewPublisher(brokers []string, log *slog.Logger) *Publisher {
	writer := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		}
	}
	return &Publisher{
		created: writer(TopicDisputeCreated),
		updated: writer(TopicDisputeUpdated),
		log:     log.With(slog.String("component", "dispute-publisher")),
	}
}

func (p *Publisher) DisputeCreated(ctx context.Context, d models.Dispute) error {
	return p.publish(ctx, p.created, d)
}

func (p *Publisher) DisputeUpdated(ctx context.Context, d models.Dispute) error {
	return p.publish(ctx, p.updated, d)
}

func (p *Publisher) publish(ctx context.Context, w *kafka.Writer, d models.Dispute) error {
	value, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("events: encode dispute: %w", err)
	}
	msg := kafka.Message{Key: []byte(d.ID), Value: value}
	if err := w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: publish %s: %w", w.Topic, err)
	}
	p.log.Debug("dispute event published", "topic", w.Topic, "dispute_id", d.ID)
	return nil
}

func (p *Publisher) Close() error {
	if err := p.created.Close(); err != nil {
		return err
	}
	return p.updated.Close()
}
