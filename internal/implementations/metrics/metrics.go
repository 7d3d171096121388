package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus counts use case outcomes on its own registry.
type Prometheus struct {
	registry *prometheus.Registry
	outcomes *prometheus.CounterVec
}

func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streemi",
			Name:      "operation_outcomes_total",
			Help:      "Number of finished operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)
	registry.MustRegister(
		outcomes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Prometheus{registry: registry, outcomes: outcomes}
}

func (p *Prometheus) RecordOutcome(operation string, outcome string) {
	p.outcomes.WithLabelValues(operation, outcome).Inc()
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
