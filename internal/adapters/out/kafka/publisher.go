// Package kafka publishes outbox messages to a Kafka topic.
package kafka

import (
	"context"
	"fmt"

	"iskxpress/internal/core/ports"

	kafkago "github.com/segmentio/kafka-go"
)

const eventTypeHeader = "event_type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher writes each message keyed by its aggregate id, so all events of one
// order land on one partition in the order they were recorded.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(topic string, brokers ...string) *Publisher {
	return NewPublisherWithWriter(&kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	})
}

func NewPublisherWithWriter(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish writes the whole batch synchronously. On error the caller must assume
// none of it was delivered; consumers dedupe on the message_id header.
func (p *Publisher) Publish(ctx context.Context, messages ...ports.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	batch := make([]kafkago.Message, 0, len(messages))
	for _, m := range messages {
		batch = append(batch, kafkago.Message{
			Key:   []byte(m.AggregateID.String()),
			Value: m.Payload,
			Time:  m.CreatedAt,
			Headers: []kafkago.Header{
				{Key: eventTypeHeader, Value: []byte(m.EventType)},
				{Key: "message_id", Value: []byte(m.ID.String())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, batch...); err != nil {
		return fmt.Errorf("write %d messages to kafka: %w", len(batch), err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
