package dbroute

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for routing decisions.
type Metrics struct {
	// DecisionsTotal counts routing decisions by classified intent and the
	// key the operation was routed to.
	DecisionsTotal *prometheus.CounterVec

	// FallbacksTotal counts reads degraded to the write pool because no
	// replica was available. A non-zero value signals a misconfigured or
	// degraded deployment.
	FallbacksTotal prometheus.Counter
}

// NewMetrics creates and registers routing metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		DecisionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dbroute",
				Subsystem: "router",
				Name:      "decisions_total",
				Help:      "Routing decisions by classified intent and selected key.",
			},
			[]string{"intent", "key"},
		),
		FallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "dbroute",
				Subsystem: "router",
				Name:      "replica_fallbacks_total",
				Help:      "Reads degraded to the write pool because no replica was available.",
			},
		),
	}
}

func (m *Metrics) decision(intent Intent, key Key) {
	if m == nil {
		return
	}
	m.DecisionsTotal.WithLabelValues(intent.String(), string(key)).Inc()
}

func (m *Metrics) fallback() {
	if m == nil {
		return
	}
	m.FallbacksTotal.Inc()
}
