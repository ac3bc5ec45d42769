package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultForwarded = "forwarded"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

var (
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evgw_events_total",
			Help: "Ingest requests by outcome",
		},
		[]string{"result"}, // forwarded|rejected|failed
	)

	PublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evgw_publish_duration_seconds",
			Help:    "Time spent in the broker send call",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver"},
	)

	PayloadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evgw_payload_bytes",
			Help:    "Size of accepted payloads after compaction",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8), // 64B .. 1MiB
		},
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		EventsTotal,
		PublishDuration,
		PayloadBytes,
	)
}
