package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMustRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)

	EventsTotal.WithLabelValues(ResultForwarded).Inc()
	PublishDuration.WithLabelValues("eventhub").Observe(0.01)
	PayloadBytes.Observe(128)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	got := make(map[string]bool, len(families))
	for _, f := range families {
		got[f.GetName()] = true
	}
	for _, name := range []string{"evgw_events_total", "evgw_publish_duration_seconds", "evgw_payload_bytes"} {
		if !got[name] {
			t.Fatalf("metric %s not registered", name)
		}
	}
}
