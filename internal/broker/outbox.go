package broker

import (
	"context"
	"fmt"
	"io"

	"github.com/jmehdipour/eventhub-gateway/internal/model"
	"github.com/jmehdipour/eventhub-gateway/internal/repository"
)

type outboxPublisher struct {
	repo      repository.OutboxRepository
	closer    io.Closer
	aggregate string
	topic     string
}

// NewOutboxPublisher writes events to the MySQL outbox table. The CDC relay
// publishes them to topic afterwards.
func NewOutboxPublisher(repo repository.OutboxRepository, closer io.Closer, aggregate, topic string) Publisher {
	if aggregate == "" {
		aggregate = "event"
	}
	return &outboxPublisher{repo: repo, closer: closer, aggregate: aggregate, topic: topic}
}

func (p *outboxPublisher) Name() string { return DriverOutbox }

func (p *outboxPublisher) SendBatch(ctx context.Context, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return ErrEmptyBatch
	}

	events := b.Events()
	rows := make([]model.OutboxEvent, 0, len(events))
	for _, ev := range events {
		rows = append(rows, model.OutboxEvent{
			Aggregate:   p.aggregate,
			AggregateID: ev.ID,
			Topic:       p.topic,
			Payload:     ev.Body,
			ContentType: ev.ContentType,
			CreatedAt:   ev.ReceivedAt,
		})
	}

	if err := p.repo.InsertBatch(ctx, nil, rows); err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}

	return nil
}

func (p *outboxPublisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
