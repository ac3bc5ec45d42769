package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

type ProducerConfig struct {
	Brokers         []string
	Topic           string
	Auth            Auth
	MaxMessageBytes int           // default 1MB
	DialTimeout     time.Duration // default 10s
	WriteTimeout    time.Duration // default 10s
}

// Producer is a thin wrapper around segmentio/kafka-go Writer.
// Every Write is flushed synchronously as its own request.
type Producer struct {
	w *kafka.Writer
}

func NewProducerFromConfig(c ProducerConfig) *Producer {
	maxBytes := c.MaxMessageBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20 // 1MB
	}
	wt := c.WriteTimeout
	if wt <= 0 {
		wt = 10 * time.Second
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(c.Brokers...),
		Topic:        c.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		BatchSize:    1,
		BatchBytes:   int64(maxBytes),
		BatchTimeout: time.Millisecond,
		WriteTimeout: wt,
		Transport:    c.Auth.transport(c.DialTimeout),
	}

	return &Producer{w: w}
}

type Header = kafka.Header

func (p *Producer) Topic() string { return p.w.Topic }

func (p *Producer) WriteMessages(ctx context.Context, msgs ...Message) error {
	return p.w.WriteMessages(ctx, msgs...)
}

func (p *Producer) Close() error { return p.w.Close() }

// MessageTooLargeError is returned by the writer when a message exceeds MaxMessageBytes.
type MessageTooLargeError = kafka.MessageTooLargeError
