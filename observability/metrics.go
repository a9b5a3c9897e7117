package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// metrics implements the Metrics interface using Prometheus
type metrics struct {
	config   MetricsConfig
	registry *prometheus.Registry

	registrations      *prometheus.CounterVec
	activations        *prometheus.CounterVec
	activationDuration *prometheus.HistogramVec
	openScopes         prometheus.Gauge
	scopesDisposed     prometheus.Counter
	instancesDisposed  prometheus.Counter
	disposalFailures   prometheus.Counter
}

// NewMetrics creates a new metrics instance. A disabled config yields a
// no-op implementation.
func NewMetrics(config MetricsConfig) (Metrics, error) {
	if !config.Enabled {
		return &noopMetrics{}, nil
	}

	defaults := DefaultMetricsConfig()
	if config.Namespace == "" {
		config.Namespace = defaults.Namespace
	}
	if config.Subsystem == "" {
		config.Subsystem = defaults.Subsystem
	}
	if len(config.Buckets) == 0 {
		config.Buckets = defaults.Buckets
	}

	m := &metrics{
		config:   config,
		registry: prometheus.NewRegistry(),
	}

	if err := m.initialize(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *metrics) initialize() error {
	if m.config.EnableGo {
		if err := m.registry.Register(collectors.NewGoCollector()); err != nil {
			return err
		}
	}
	if m.config.EnableProcess {
		if err := m.registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
			return err
		}
	}

	namespace := m.config.Namespace
	subsystem := m.config.Subsystem

	m.registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "registrations_total",
			Help:      "Total number of committed registrations",
		},
		[]string{"lifetime"},
	)

	m.activations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "activations_total",
			Help:      "Total number of service activations",
		},
		[]string{"lifetime", "outcome"},
	)

	m.activationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "activation_duration_seconds",
			Help:      "Service activation duration in seconds",
			Buckets:   m.config.Buckets,
		},
		[]string{"lifetime"},
	)

	m.openScopes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "open_scopes",
		Help:      "Number of lifetime scopes not yet disposed",
	})

	m.scopesDisposed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "scopes_disposed_total",
		Help:      "Total number of disposed lifetime scopes",
	})

	m.instancesDisposed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "instances_disposed_total",
		Help:      "Total number of tracked instances disposed with their scope",
	})

	m.disposalFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "disposal_failures_total",
		Help:      "Total number of scope disposals that returned an error",
	})

	for _, c := range []prometheus.Collector{
		m.registrations,
		m.activations,
		m.activationDuration,
		m.openScopes,
		m.scopesDisposed,
		m.instancesDisposed,
		m.disposalFailures,
	} {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *metrics) RecordRegistration(lifetime string) {
	m.registrations.WithLabelValues(lifetime).Inc()
}

func (m *metrics) RecordActivation(lifetime string, elapsed time.Duration, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}

	m.activations.WithLabelValues(lifetime, outcome).Inc()
	m.activationDuration.WithLabelValues(lifetime).Observe(elapsed.Seconds())
}

func (m *metrics) ScopeOpened() {
	m.openScopes.Inc()
}

func (m *metrics) ScopeClosed(disposed int, err error) {
	m.openScopes.Dec()
	m.scopesDisposed.Inc()
	m.instancesDisposed.Add(float64(disposed))
	if err != nil {
		m.disposalFailures.Inc()
	}
}

func (m *metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// noopMetrics is a no-op implementation for when metrics are disabled
type noopMetrics struct{}

// NewNoopMetrics returns metrics that record nothing.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (n *noopMetrics) RecordRegistration(string)                     {}
func (n *noopMetrics) RecordActivation(string, time.Duration, error) {}
func (n *noopMetrics) ScopeOpened()                                  {}
func (n *noopMetrics) ScopeClosed(int, error)                        {}
func (n *noopMetrics) Registry() *prometheus.Registry                { return nil }

func (n *noopMetrics) Handler() http.Handler {
	return http.NotFoundHandler()
}
