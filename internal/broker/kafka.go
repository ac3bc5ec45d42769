package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmehdipour/eventhub-gateway/internal/kafka"
)

// MessageWriter is the part of kafka.Producer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	name  string
	topic string
	w     MessageWriter
}

// NewKafkaPublisher sends batches through w. name is the driver label (eventhub | kafka).
func NewKafkaPublisher(name, topic string, w MessageWriter) Publisher {
	return &kafkaPublisher{name: name, topic: topic, w: w}
}

func (p *kafkaPublisher) Name() string { return p.name }

func (p *kafkaPublisher) SendBatch(ctx context.Context, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return ErrEmptyBatch
	}

	events := b.Events()
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, kafka.Message{
			Value: ev.Body,
			Time:  ev.ReceivedAt,
			Headers: []kafka.Header{
				{Key: HeaderEventID, Value: []byte(ev.ID)},
				{Key: HeaderContentType, Value: []byte(ev.ContentType)},
				{Key: HeaderReceivedAt, Value: []byte(ev.ReceivedAt.UTC().Format(time.RFC3339Nano))},
			},
		})
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		var tooLarge kafka.MessageTooLargeError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: %v", ErrMessageTooLarge, err)
		}
		return fmt.Errorf("%s write to %s: %w", p.name, p.topic, err)
	}

	return nil
}

func (p *kafkaPublisher) Close() error { return p.w.Close() }
