package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jmehdipour/eventhub-gateway/internal/broker"
	"github.com/jmehdipour/eventhub-gateway/internal/metrics"
	"github.com/jmehdipour/eventhub-gateway/internal/model"
	"github.com/jmehdipour/eventhub-gateway/internal/service/ingest"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Forwarder is the ingest service as seen by the handler.
type Forwarder interface {
	Forward(ctx context.Context, raw []byte) (model.Event, error)
}

// sendEventsHandler forwards the request body as one event.
// Failures are reported in the body; the status stays 200 unless strict is set.
func sendEventsHandler(fwd Forwarder, log *zap.Logger, bodyLimit int64, strict bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := readBody(c.Request().Body, bodyLimit)
		if err != nil {
			metrics.EventsTotal.WithLabelValues(metrics.ResultRejected).Inc()
			return sendError(c, log, err, strict)
		}

		ev, err := fwd.Forward(c.Request().Context(), raw)
		if err != nil {
			var fields []zap.Field
			if ev.ID != "" {
				fields = append(fields, zap.String("event_id", ev.ID))
			}
			return sendError(c, log, err, strict, fields...)
		}

		return c.JSON(http.StatusOK, model.Success())
	}
}

func readBody(body io.Reader, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ingest.ErrInvalidPayload, err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: request body exceeds %d bytes", broker.ErrMessageTooLarge, limit)
	}
	return raw, nil
}

func sendError(c echo.Context, log *zap.Logger, err error, strict bool, fields ...zap.Field) error {
	fields = append(fields, zap.Error(err))
	if errors.Is(err, ingest.ErrInvalidPayload) {
		log.Warn("rejected payload", fields...)
	} else {
		log.Error("forward failed", fields...)
	}

	status := http.StatusOK
	if strict {
		status = statusFor(err)
	}

	return c.JSON(status, model.Failure(err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ingest.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, broker.ErrMessageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingest.ErrPublish):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
