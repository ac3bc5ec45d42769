package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

func TestPlainAuth(t *testing.T) {
	a := PlainAuth("$ConnectionString", "Endpoint=sb://x/", true)
	m, ok := a.SASL.(plain.Mechanism)
	if !ok {
		t.Fatalf("SASL=%T, want plain.Mechanism", a.SASL)
	}
	if m.Username != "$ConnectionString" || m.Password != "Endpoint=sb://x/" {
		t.Fatalf("unexpected credentials: %+v", m)
	}
	if a.TLS == nil {
		t.Fatalf("TLS must be enabled")
	}

	none := PlainAuth("", "", false)
	if none.SASL != nil || none.TLS != nil {
		t.Fatalf("zero auth expected, got %+v", none)
	}
}

func TestNewProducerFromConfig_SingleMessageBatches(t *testing.T) {
	p := NewProducerFromConfig(ProducerConfig{
		Brokers: []string{"127.0.0.1:9092"},
		Topic:   "events",
	})
	defer p.Close()

	if p.Topic() != "events" {
		t.Fatalf("topic=%q", p.Topic())
	}
	if p.w.BatchSize != 1 {
		t.Fatalf("batch size=%d, want 1", p.w.BatchSize)
	}
	if p.w.BatchBytes != 1<<20 {
		t.Fatalf("batch bytes=%d, want %d", p.w.BatchBytes, 1<<20)
	}
	if p.w.RequiredAcks != kafka.RequireAll {
		t.Fatalf("required acks=%v, want all", p.w.RequiredAcks)
	}
	if p.w.Async {
		t.Fatalf("writer must be synchronous")
	}
}

func TestHeaderValue(t *testing.T) {
	m := Message{Headers: []kafka.Header{{Key: "event-id", Value: []byte("01J")}}}
	if v, ok := HeaderValue(m, "event-id"); !ok || v != "01J" {
		t.Fatalf("HeaderValue=%q,%v", v, ok)
	}
	if _, ok := HeaderValue(m, "missing"); ok {
		t.Fatalf("missing header reported present")
	}
}
