package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmehdipour/eventhub-gateway/internal/broker"
	"github.com/jmehdipour/eventhub-gateway/internal/metrics"
	"github.com/jmehdipour/eventhub-gateway/internal/model"
	"github.com/jmehdipour/eventhub-gateway/internal/util"
	"go.uber.org/zap"
)

var (
	// ErrInvalidPayload marks caller input that is not a JSON document.
	ErrInvalidPayload = errors.New("invalid json payload")
	// ErrPublish marks a failure on the broker side of the request.
	ErrPublish = errors.New("publish failed")
)

// Service forwards one JSON payload per call to the event log.
type Service struct {
	pub            broker.Publisher
	log            *zap.Logger
	maxBytes       int
	publishTimeout time.Duration
	now            func() time.Time
}

// New constructs the ingest service around a long-lived publisher.
func New(pub broker.Publisher, log *zap.Logger, maxMessageBytes int, publishTimeout time.Duration) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		pub:            pub,
		log:            log,
		maxBytes:       maxMessageBytes,
		publishTimeout: publishTimeout,
		now:            time.Now,
	}
}

// Forward validates raw as JSON, wraps it in a batch of one event and sends
// the batch synchronously. The returned error wraps ErrInvalidPayload when the
// input is at fault and ErrPublish when the batch could not be built or sent.
func (s *Service) Forward(ctx context.Context, raw []byte) (model.Event, error) {
	body, err := encodePayload(raw)
	if err != nil {
		metrics.EventsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return model.Event{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	now := s.now().UTC()
	ev := model.Event{
		ID:          util.NewULID(now),
		Body:        body,
		ContentType: model.ContentTypeJSON,
		ReceivedAt:  now,
	}
	s.log.Info("received payload", zap.String("event_id", ev.ID), zap.ByteString("payload", ev.Body))

	batch := broker.NewBatch(s.maxBytes)
	if err := batch.Add(ev); err != nil {
		metrics.EventsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return ev, fmt.Errorf("%w: %w", ErrPublish, err)
	}

	if s.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.publishTimeout)
		defer cancel()
	}

	start := time.Now()
	err = s.pub.SendBatch(ctx, batch)
	metrics.PublishDuration.WithLabelValues(s.pub.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EventsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		return ev, fmt.Errorf("%w: %w", ErrPublish, err)
	}

	metrics.EventsTotal.WithLabelValues(metrics.ResultForwarded).Inc()
	metrics.PayloadBytes.Observe(float64(ev.Size()))
	s.log.Info("sent to event log", zap.String("event_id", ev.ID), zap.String("driver", s.pub.Name()))

	return ev, nil
}
