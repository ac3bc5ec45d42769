package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmehdipour/eventhub-gateway/internal/broker"
	"github.com/jmehdipour/eventhub-gateway/internal/kafka"
	"github.com/jmehdipour/eventhub-gateway/internal/util"
	"go.uber.org/zap"
)

// Fetcher is the consumer side used by Tailer; *kafka.Consumer satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

// Tailer reads events back from the stream the gateway writes to and logs them.
// It is a debugging aid: every message is logged then committed.
type Tailer struct {
	Consumer Fetcher
	Log      *zap.Logger

	Limit      int           // stop after this many messages; 0 = until ctx is done
	RetryDelay time.Duration // pause after a fetch error

	now func() time.Time
}

func NewTailer(c Fetcher, log *zap.Logger) *Tailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tailer{
		Consumer:   c,
		Log:        log,
		RetryDelay: 200 * time.Millisecond,
		now:        time.Now,
	}
}

// Run blocks until ctx is cancelled or Limit messages were handled.
func (t *Tailer) Run(ctx context.Context) error {
	seen := 0
	for {
		m, err := t.Consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			t.Log.Warn("tail: fetch failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(t.RetryDelay):
			}
			continue
		}

		t.handle(m)

		if err := t.Consumer.Commit(ctx, m); err != nil {
			t.Log.Warn("tail: commit failed", zap.Int64("offset", m.Offset), zap.Error(err))
		}

		seen++
		if t.Limit > 0 && seen >= t.Limit {
			return nil
		}
	}
}

func (t *Tailer) handle(m kafka.Message) {
	fields := []zap.Field{
		zap.String("topic", m.Topic),
		zap.Int("partition", m.Partition),
		zap.Int64("offset", m.Offset),
		zap.Bool("valid_json", json.Valid(m.Value)),
		zap.ByteString("body", m.Value),
	}
	if id, ok := kafka.HeaderValue(m, broker.HeaderEventID); ok {
		fields = append(fields, zap.String("event_id", id))
		// ULIDs carry their mint time, which gives end-to-end lag for free
		if ts, err := util.ULIDTime(id); err == nil {
			fields = append(fields, zap.Duration("lag", t.now().Sub(ts)))
		}
	}

	t.Log.Info("event", fields...)
}
