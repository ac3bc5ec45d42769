package broker

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisPublisher struct {
	rdb    redis.Cmdable
	closer io.Closer
	stream string
	maxLen int64
}

// NewRedisPublisher appends events to a Redis stream. maxLen caps the stream
// approximately; 0 leaves it unbounded. closer may be nil when the caller owns
// the connection.
func NewRedisPublisher(rdb redis.Cmdable, closer io.Closer, stream string, maxLen int64) Publisher {
	if stream == "" {
		stream = "events"
	}
	return &redisPublisher{rdb: rdb, closer: closer, stream: stream, maxLen: maxLen}
}

func (p *redisPublisher) Name() string { return DriverRedis }

// SendBatch issues one XADD per event inside a MULTI/EXEC pipeline.
func (p *redisPublisher) SendBatch(ctx context.Context, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return ErrEmptyBatch
	}

	pipe := p.rdb.TxPipeline()
	for _, ev := range b.Events() {
		args := &redis.XAddArgs{
			Stream: p.stream,
			ID:     "*",
			Values: map[string]any{
				"id":           ev.ID,
				"body":         ev.Body,
				"content_type": ev.ContentType,
				"received_at":  ev.ReceivedAt.UTC().Format(time.RFC3339Nano),
			},
		}
		if p.maxLen > 0 {
			args.MaxLen = p.maxLen
			args.Approx = true
		}
		pipe.XAdd(ctx, args)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis xadd %s: %w", p.stream, err)
	}

	return nil
}

func (p *redisPublisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
