package bridge

import (
	errs "github.com/xraph/bridge/internal/errors"
	"github.com/xraph/bridge/logger"
	"github.com/xraph/bridge/observability"
)

// Option configures BuildServiceProvider.
type Option func(*options)

type options struct {
	config    Config
	configSet bool

	logger     logger.Logger
	metrics    observability.Metrics
	tracer     observability.Tracer
	ownsTracer bool

	validateScopes     *bool
	scopeRegistrations []ServiceDescriptor
}

// WithConfig sets the configuration. Logger, metrics and tracer are built
// from it unless supplied directly.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
		o.configSet = true
	}
}

// WithLogger sets the logger. Without a logger or a config the provider logs
// nothing.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics sets the container metrics.
func WithMetrics(m observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer. The caller keeps ownership of it.
func WithTracer(t observability.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithValidateScopes overrides Config.ValidateScopes.
func WithValidateScopes(validate bool) Option {
	return func(o *options) {
		o.validateScopes = &validate
	}
}

// WithScopeRegistrations adds descriptors to every scope created from the
// provider. Each scope becomes a child container: singletons registered this
// way are created once per scope and disposed with it.
func WithScopeRegistrations(descriptors ...ServiceDescriptor) Option {
	return func(o *options) {
		o.scopeRegistrations = append(o.scopeRegistrations, descriptors...)
	}
}

func newOptions(opts []Option) (*options, error) {
	o := &options{config: DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}

	if o.validateScopes != nil {
		o.config.ValidateScopes = *o.validateScopes
	}

	if o.logger == nil {
		if o.configSet {
			o.logger = logger.NewLogger(o.config.Logging)
		} else {
			o.logger = logger.NewNoopLogger()
		}
	}

	if o.metrics == nil {
		m, err := observability.NewMetrics(o.config.Metrics)
		if err != nil {
			return nil, errs.ErrConfigError("failed to create metrics", err)
		}
		o.metrics = m
	}

	if o.tracer == nil {
		t, err := observability.NewTracer(o.config.Tracing)
		if err != nil {
			return nil, errs.ErrConfigError("failed to create tracer", err)
		}
		o.tracer = t
		o.ownsTracer = true
	}
	return o, nil
}
