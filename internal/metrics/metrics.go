// Package metrics exposes Prometheus instruments for the advisor service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"email-advisor/internal/advisor"
)

const namespace = "email_advisor"

// Metrics owns a private registry so tests and multiple servers do not collide
// on the global one.
type Metrics struct {
	registry        *prometheus.Registry
	decisions       *prometheus.CounterVec
	confidence      prometheus.Histogram
	references      prometheus.Histogram
	failures        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates and registers every collector, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Processed queries by routing decision.",
		}, []string{"decision"}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "top_confidence",
			Help:      "Confidence of the best matching article per processed query.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.55, 0.6, 0.7, 0.8, 0.9, 0.95, 1},
		}),
		references: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "references_per_reply",
			Help:      "Number of supporting references attached to a reply.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed requests by operation.",
		}, []string{"operation"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.decisions,
		m.confidence,
		m.references,
		m.failures,
		m.requestDuration,
	)
	return m
}

// ObserveResponse records the decision, confidence and reference count of a reply.
func (m *Metrics) ObserveResponse(resp *advisor.Response) {
	if resp == nil {
		return
	}
	m.decisions.WithLabelValues(string(resp.Decision)).Inc()
	m.confidence.Observe(resp.Confidence)
	m.references.Observe(float64(len(resp.References)))
}

// ObserveFailure counts a failed operation.
func (m *Metrics) ObserveFailure(operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

// ObserveHTTP records the latency of one HTTP request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Registry returns the registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
