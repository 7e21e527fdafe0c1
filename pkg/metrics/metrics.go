package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics - метрики сервиса переходов статусов.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	TransitionsTotal    *prometheus.CounterVec
	TransitionDuration  *prometheus.HistogramVec
	PersistenceRetries  prometheus.Counter
	SideEffectFailures  *prometheus.CounterVec
	SideEffectDuration  *prometheus.HistogramVec
	CircuitBreakerState *prometheus.GaugeVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
	m.TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Status transitions by kind and result",
		},
		[]string{"kind", "result"},
	)
	m.TransitionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transition_duration_seconds",
			Help:      "Transition duration including side effects",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	m.PersistenceRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_conflict_retries_total",
			Help:      "Compare-and-set retries after a concurrent status change",
		},
	)
	m.SideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_effect_failures_total",
			Help:      "Failed side-effect hooks by name",
		},
		[]string{"hook"},
	)
	m.SideEffectDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "side_effect_duration_seconds",
			Help:      "Side-effect hook duration",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5},
		},
		[]string{"hook"},
	)
	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.TransitionsTotal, m.TransitionDuration, m.PersistenceRetries,
		m.SideEffectFailures, m.SideEffectDuration,
		m.CircuitBreakerState,
	)
	return m
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordTransition(kind, result string, duration time.Duration) {
	m.TransitionsTotal.WithLabelValues(kind, result).Inc()
	m.TransitionDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *Metrics) RecordSideEffect(hook string, failed bool, duration time.Duration) {
	m.SideEffectDuration.WithLabelValues(hook).Observe(duration.Seconds())
	if failed {
		m.SideEffectFailures.WithLabelValues(hook).Inc()
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
