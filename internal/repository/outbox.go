package repository

import (
	"context"

	"github.com/jmehdipour/eventhub-gateway/internal/model"
	"github.com/jmoiron/sqlx"
)

// OutboxRepository defines persistence methods for the outbox table.
type OutboxRepository interface {
	// InsertBatch writes all rows with a single statement. If tx is nil, it will
	// open/commit an internal transaction; otherwise it uses the given tx.
	InsertBatch(ctx context.Context, tx *sqlx.Tx, rows []model.OutboxEvent) error
}

// OutboxRepositoryImpl is a sqlx-backed implementation.
type OutboxRepositoryImpl struct {
	db *sqlx.DB
}

// NewOutboxRepository constructs an OutboxRepositoryImpl.
func NewOutboxRepository(db *sqlx.DB) *OutboxRepositoryImpl {
	return &OutboxRepositoryImpl{db: db}
}

// withTx runs fn in the provided tx, or starts a new transaction when tx is nil.
func (r *OutboxRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}

	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}

	return t.Commit()
}

// InsertBatch adds event rows to outbox. Debezium Outbox SMT will pick them up and
// publish to Kafka based on the `topic` column.
func (r *OutboxRepositoryImpl) InsertBatch(ctx context.Context, tx *sqlx.Tx, rows []model.OutboxEvent) error {
	if len(rows) == 0 {
		return nil
	}
	const q = `
		INSERT INTO outbox (aggregate, aggregate_id, topic, payload, content_type, created_at)
		VALUES (:aggregate, :aggregate_id, :topic, :payload, :content_type, :created_at)
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, q, rows)

		return err
	})
}
