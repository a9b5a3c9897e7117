package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records container activity.
type Metrics interface {
	// RecordRegistration counts a committed registration.
	RecordRegistration(lifetime string)

	// RecordActivation counts an activation and observes its latency.
	RecordActivation(lifetime string, elapsed time.Duration, err error)

	// ScopeOpened and ScopeClosed track the open-scope gauge.
	ScopeOpened()
	ScopeClosed(disposed int, err error)

	// Registry returns the Prometheus registry, nil when disabled.
	Registry() *prometheus.Registry

	// Handler serves the registry in the Prometheus text format.
	Handler() http.Handler
}

// Tracer turns scope lifetimes and activation failures into spans.
type Tracer interface {
	// ScopeStarted opens a span for the scope, nested under its parent's span.
	ScopeStarted(scopeID, parentID string, depth int)

	// ScopeEnded closes the scope's span.
	ScopeEnded(scopeID string, disposed int, err error)

	// ActivationFailed records a short error span for a failed activation.
	ActivationFailed(scopeID, service, lifetime string, err error)

	Shutdown(ctx context.Context) error
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"BRIDGE_METRICS_ENABLED"`
	Namespace string `yaml:"namespace" env:"BRIDGE_METRICS_NAMESPACE"`
	Subsystem string `yaml:"subsystem"`

	// Buckets for the activation latency histogram.
	Buckets []float64 `yaml:"buckets"`

	EnableGo      bool `yaml:"enable_go"`
	EnableProcess bool `yaml:"enable_process"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled        bool    `yaml:"enabled" env:"BRIDGE_TRACING_ENABLED"`
	ServiceName    string  `yaml:"service_name" env:"BRIDGE_TRACING_SERVICE_NAME"`
	ServiceVersion string  `yaml:"service_version"`
	SampleRate     float64 `yaml:"sample_rate" env:"BRIDGE_TRACING_SAMPLE_RATE"`
}

// DefaultMetricsConfig returns the defaults used when nothing is configured.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "bridge",
		Subsystem: "container",
		Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}
}

// DefaultTracingConfig returns the defaults used when nothing is configured.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "bridge",
		SampleRate:  1,
	}
}
