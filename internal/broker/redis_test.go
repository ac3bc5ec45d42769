package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmehdipour/eventhub-gateway/internal/model"
	"github.com/redis/go-redis/v9"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisPublisher_SendBatch(t *testing.T) {
	rdb := newRedis(t)
	pub := NewRedisPublisher(rdb, rdb, "evgw:events", 0)
	t.Cleanup(func() { _ = pub.Close() })
	ctx := context.Background()

	b := NewBatch(0)
	if err := b.Add(event("01JA", `{"a": 1}`)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := pub.SendBatch(ctx, b); err != nil {
		t.Fatalf("SendBatch: %v", err)
	}

	msgs, err := rdb.XRange(ctx, "evgw:events", "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("entries=%d, want 1", len(msgs))
	}
	want := map[string]string{
		"id":           "01JA",
		"body":         `{"a": 1}`,
		"content_type": model.ContentTypeJSON,
		"received_at":  "2026-01-02T03:04:05Z",
	}
	for k, v := range want {
		if got := msgs[0].Values[k]; got != v {
			t.Errorf("field %s=%v, want %q", k, got, v)
		}
	}
	if pub.Name() != DriverRedis {
		t.Fatalf("name=%q", pub.Name())
	}
}

func TestRedisPublisher_MaxLenCapsStream(t *testing.T) {
	rdb := newRedis(t)
	pub := NewRedisPublisher(rdb, nil, "evgw:capped", 2)
	ctx := context.Background()

	for _, id := range []string{"01JA", "01JB", "01JC"} {
		b := NewBatch(0)
		_ = b.Add(event(id, `{}`))
		if err := pub.SendBatch(ctx, b); err != nil {
			t.Fatalf("SendBatch(%s): %v", id, err)
		}
	}

	n, err := rdb.XLen(ctx, "evgw:capped").Result()
	if err != nil {
		t.Fatalf("XLen: %v", err)
	}
	if n != 2 {
		t.Fatalf("stream length=%d, want 2", n)
	}
	msgs, err := rdb.XRange(ctx, "evgw:capped", "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if msgs[0].Values["id"] != "01JB" || msgs[1].Values["id"] != "01JC" {
		t.Fatalf("oldest entries must be trimmed, got %v", msgs)
	}

	// nil closer leaves the client to its owner
	if err := pub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("client closed by publisher: %v", err)
	}
	_ = rdb.Close()
}

func TestRedisPublisher_EmptyBatch(t *testing.T) {
	rdb := newRedis(t)
	pub := NewRedisPublisher(rdb, rdb, "", 0)
	t.Cleanup(func() { _ = pub.Close() })

	if err := pub.SendBatch(context.Background(), NewBatch(0)); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("err=%v, want ErrEmptyBatch", err)
	}
}
