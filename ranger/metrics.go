package ranger

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes an execution context is counted under.
const (
	OutcomeFault     = "fault"
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
)

// Metrics counts execution contexts on a registry private to one *Ranger.
type Metrics struct {
	Dispatches *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics constructs *Metrics with every collector registered.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Dispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "trailhead",
				Name:      "dispatches_total",
				Help:      "Total number of execution contexts dispatched, by outcome",
			},
			[]string{"outcome"},
		),
		registry: reg,
	}
}

// Observe counts one execution context ending with outcome.
func (m *Metrics) Observe(outcome string) {
	if m == nil {
		return
	}

	m.Dispatches.WithLabelValues(outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
