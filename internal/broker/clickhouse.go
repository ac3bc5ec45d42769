package broker

import (
	"context"
	"fmt"
	"io"

	"github.com/jmehdipour/eventhub-gateway/internal/repository"
)

type clickhousePublisher struct {
	repo   repository.CHEventsRepository
	closer io.Closer
	topic  string
}

// NewClickHousePublisher appends events to the ClickHouse events table,
// tagged with topic.
func NewClickHousePublisher(repo repository.CHEventsRepository, closer io.Closer, topic string) Publisher {
	return &clickhousePublisher{repo: repo, closer: closer, topic: topic}
}

func (p *clickhousePublisher) Name() string { return DriverClickHouse }

func (p *clickhousePublisher) SendBatch(ctx context.Context, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return ErrEmptyBatch
	}
	if err := p.repo.InsertBatch(ctx, p.topic, b.Events()); err != nil {
		return fmt.Errorf("clickhouse insert: %w", err)
	}
	return nil
}

func (p *clickhousePublisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
