package model

import "time"

// OutboxEvent is one row of the outbox table. A CDC connector (Debezium
// outbox SMT) relays rows to the Kafka topic named in Topic.
type OutboxEvent struct {
	ID          int64     `db:"id"`
	Aggregate   string    `db:"aggregate"`    // e.g. "event"
	AggregateID string    `db:"aggregate_id"` // Event.ID
	Topic       string    `db:"topic"`
	Payload     []byte    `db:"payload"`
	ContentType string    `db:"content_type"`
	CreatedAt   time.Time `db:"created_at"`
}
