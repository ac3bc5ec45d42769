package model

import "time"

const ContentTypeJSON = "application/json"

// Event is one payload accepted by the gateway and forwarded to the event log.
type Event struct {
	ID          string    `db:"id"`           // ULID
	Body        []byte    `db:"body"`         // compact JSON, caller's bytes
	ContentType string    `db:"content_type"` // always application/json today
	ReceivedAt  time.Time `db:"received_at"`
}

// Size is the number of body bytes the broker will carry.
func (e Event) Size() int { return len(e.Body) }
