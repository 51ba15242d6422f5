package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes
const (
	OutcomeSuccess        = "success"
	OutcomeFailure        = "failure"
	OutcomeTransportError = "transport_error"
	OutcomeAbandoned      = "abandoned"
)

// Metrics holds the collectors exported on /metrics
type Metrics struct {
	registry *prometheus.Registry

	generations   *prometheus.CounterVec
	duration      prometheus.Histogram
	ignored       prometheus.Counter
	notifications *prometheus.CounterVec
}

// New creates the collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qrstudio",
			Name:      "generations_total",
			Help:      "Generation requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "qrstudio",
			Name:      "generation_duration_seconds",
			Help:      "Time from submit to completion of a generation request.",
			Buckets:   prometheus.DefBuckets,
		}),
		ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "qrstudio",
			Name:      "submissions_ignored_total",
			Help:      "Submissions ignored because the page was not idle.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qrstudio",
			Name:      "notifications_total",
			Help:      "Notifications raised by kind.",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		m.generations,
		m.duration,
		m.ignored,
		m.notifications,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveGeneration records the outcome and duration of one request
func (m *Metrics) ObserveGeneration(outcome string, d time.Duration) {
	m.generations.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
}

// SubmissionIgnored counts a submit that arrived while not idle
func (m *Metrics) SubmissionIgnored() {
	m.ignored.Inc()
}

// NotificationRaised counts a notification of the given kind
func (m *Metrics) NotificationRaised(kind string) {
	m.notifications.WithLabelValues(kind).Inc()
}

// Generations returns the outcome counter
func (m *Metrics) Generations() *prometheus.CounterVec {
	return m.generations
}

// Ignored returns the ignored submission counter
func (m *Metrics) Ignored() prometheus.Counter {
	return m.ignored
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
