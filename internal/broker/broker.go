// Package broker hides the event log behind a small publishing seam.
//
// A Publisher receives a Batch and either delivers every event in it or
// returns an error. Drivers exist for Event Hubs (Kafka endpoint), plain
// Kafka, Redis streams, NATS, a MySQL outbox table and ClickHouse.
package broker

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmehdipour/eventhub-gateway/internal/model"
)

const (
	DriverEventHub   = "eventhub"
	DriverKafka      = "kafka"
	DriverRedis      = "redis"
	DriverNATS       = "nats"
	DriverOutbox     = "outbox"
	DriverClickHouse = "clickhouse"
)

// Metadata keys carried next to the body (headers, stream fields, columns).
const (
	HeaderEventID     = "event-id"
	HeaderContentType = "content-type"
	HeaderReceivedAt  = "received-at"
)

// DefaultMaxMessageBytes matches the Event Hubs standard tier limit.
const DefaultMaxMessageBytes = 1 << 20

var (
	ErrMessageTooLarge = errors.New("event is too large for the batch")
	ErrEmptyBatch      = errors.New("batch has no events")
	ErrUnknownDriver   = errors.New("unknown broker driver")
)

// Publisher is the event-publishing seam. Implementations are safe for concurrent use.
type Publisher interface {
	Name() string
	SendBatch(ctx context.Context, b *Batch) error
	Close() error
}

// Batch is an ordered set of events bounded by a total body size.
type Batch struct {
	maxBytes int
	size     int
	events   []model.Event
}

func NewBatch(maxBytes int) *Batch {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxMessageBytes
	}
	return &Batch{maxBytes: maxBytes}
}

// Add appends e, or fails with ErrMessageTooLarge if it would overflow the batch.
func (b *Batch) Add(e model.Event) error {
	if b.size+e.Size() > b.maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrMessageTooLarge, b.size+e.Size(), b.maxBytes)
	}
	b.events = append(b.events, e)
	b.size += e.Size()

	return nil
}

func (b *Batch) Len() int       { return len(b.events) }
func (b *Batch) SizeBytes() int { return b.size }
func (b *Batch) MaxBytes() int  { return b.maxBytes }

// Events returns the batch contents in insertion order.
func (b *Batch) Events() []model.Event {
	out := make([]model.Event, len(b.events))
	copy(out, b.events)
	return out
}
