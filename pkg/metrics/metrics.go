// Package metrics exposes contact submission counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/contactrelay/pkg/contact"
)

const namespace = "contactrelay"

// Metrics records submission outcomes and delivery latency.
// It implements contact.Observer.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	deliveries  *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry.
// Go runtime and process collectors are registered alongside.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		deliveries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delivery_duration_seconds",
			Help:      "Time spent in the delivery provider call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.submissions,
		m.deliveries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveSubmission implements contact.Observer.
func (m *Metrics) ObserveSubmission(o contact.Outcome) {
	m.submissions.WithLabelValues(o.String()).Inc()
}

// ObserveDelivery implements contact.Observer.
func (m *Metrics) ObserveDelivery(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.deliveries.WithLabelValues(result).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the /metrics exposition handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

var _ contact.Observer = (*Metrics)(nil)
