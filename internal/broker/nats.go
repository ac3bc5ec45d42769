package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type natsPublisher struct {
	nc      *nats.Conn
	js      jetstream.JetStream // nil = core NATS
	subject string
}

// NewNATSPublisher connects to url. With useJetStream, every publish waits for
// the stream ack and is deduplicated on the event ID.
func NewNATSPublisher(url, subject string, useJetStream bool, timeout time.Duration) (Publisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	if subject == "" {
		subject = "events"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	nc, err := nats.Connect(url, nats.Name("eventhub-gateway"), nats.Timeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}

	p := &natsPublisher{nc: nc, subject: subject}
	if useJetStream {
		js, err := jetstream.New(nc)
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("jetstream: %w", err)
		}
		p.js = js
	}

	return p, nil
}

func (p *natsPublisher) Name() string { return DriverNATS }

func (p *natsPublisher) SendBatch(ctx context.Context, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return ErrEmptyBatch
	}

	for _, ev := range b.Events() {
		msg := nats.NewMsg(p.subject)
		msg.Data = ev.Body
		msg.Header.Set(HeaderEventID, ev.ID)
		msg.Header.Set(HeaderContentType, ev.ContentType)
		msg.Header.Set(HeaderReceivedAt, ev.ReceivedAt.UTC().Format(time.RFC3339Nano))

		if p.js != nil {
			if _, err := p.js.PublishMsg(ctx, msg, jetstream.WithMsgID(ev.ID)); err != nil {
				return fmt.Errorf("jetstream publish %s: %w", p.subject, err)
			}
			continue
		}
		if err := p.nc.PublishMsg(msg); err != nil {
			return fmt.Errorf("nats publish %s: %w", p.subject, err)
		}
	}

	if p.js != nil {
		return nil
	}

	// core NATS is fire-and-forget; flush so the server has seen the batch
	var err error
	if _, ok := ctx.Deadline(); ok {
		err = p.nc.FlushWithContext(ctx)
	} else {
		err = p.nc.Flush()
	}
	if err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	return nil
}

func (p *natsPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
