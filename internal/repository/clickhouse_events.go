package repository

import (
	"context"
	"fmt"

	"github.com/jmehdipour/eventhub-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// CHEventsRepository appends events to the ClickHouse event log table.
type CHEventsRepository interface {
	InsertBatch(ctx context.Context, topic string, events []model.Event) error
}

type chEventsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHEventsRepository(ch *sqlx.DB) CHEventsRepository {
	return &chEventsRepository{ch: ch}
}

// InsertBatch uses clickhouse-go's begin/prepare/exec/commit flow, which the
// driver turns into a single native block insert.
func (r *chEventsRepository) InsertBatch(ctx context.Context, topic string, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.ch.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO events (id, topic, body, content_type, received_at)
	`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, ev.ID, topic, string(ev.Body), ev.ContentType, ev.ReceivedAt); err != nil {
			return fmt.Errorf("append %s: %w", ev.ID, err)
		}
	}

	return tx.Commit()
}
