// Package metrics exposes resolver and use-case counters in Prometheus
// format.
package metrics

import (
	"context"
	"net/http"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/service"
	"github.com/alexanderramin/estimo/internal/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "estimo"

// Metrics implements source.Observer and service.UseCaseObserver.
type Metrics struct {
	registry *prometheus.Registry
	resolved *prometheus.CounterVec
	rejected *prometheus.CounterVec
	useCases *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	_ source.Observer         = (*Metrics)(nil)
	_ service.UseCaseObserver = (*Metrics)(nil)
)

// New registers every collector on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datasets_resolved_total",
			Help:      "Active datasets chosen by the resolver, by provenance.",
		}, []string{"provenance"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafts_rejected_total",
			Help:      "Drafts skipped because they could not be decoded or validated.",
		}, []string{"origin"}),
		useCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "use_cases_total",
			Help:      "Service use cases executed, by outcome.",
		}, []string{"use_case", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case"}),
	}
	m.registry.MustRegister(
		m.resolved,
		m.rejected,
		m.useCases,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Resolved(p domain.Provenance) {
	m.resolved.WithLabelValues(string(p)).Inc()
}

func (m *Metrics) DraftRejected(origin source.DraftOrigin) {
	m.rejected.WithLabelValues(string(origin)).Inc()
}

func (m *Metrics) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	outcome := "success"
	if !event.Success {
		outcome = "error"
	}
	m.useCases.WithLabelValues(event.Name, outcome).Inc()
	m.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
