package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/xraph/bridge"

// tracer implements the Tracer interface using OpenTelemetry
type tracer struct {
	config   TracingConfig
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer

	// open scope spans by scope ID
	spans sync.Map
}

// NewTracer creates a tracer backed by an SDK tracer provider. Span
// processors and exporters are supplied by the host through opts. A disabled
// config yields a no-op implementation.
func NewTracer(config TracingConfig, opts ...sdktrace.TracerProviderOption) (Tracer, error) {
	if !config.Enabled {
		return &noopTracer{}, nil
	}

	if config.ServiceName == "" {
		config.ServiceName = DefaultTracingConfig().ServiceName
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", config.ServiceName)}
	if config.ServiceVersion != "" {
		attrs = append(attrs, attribute.String("service.version", config.ServiceVersion))
	}

	base := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
		sdktrace.WithSampler(createSampler(config)),
	}

	provider := sdktrace.NewTracerProvider(append(base, opts...)...)

	return &tracer{
		config:   config,
		provider: provider,
		tracer: provider.Tracer(
			instrumentationName,
			oteltrace.WithInstrumentationVersion(config.ServiceVersion),
		),
	}, nil
}

// NewTracerFromProvider wraps an existing tracer provider. Shutdown is left to
// the provider's owner.
func NewTracerFromProvider(provider oteltrace.TracerProvider) Tracer {
	return &tracer{
		tracer: provider.Tracer(instrumentationName),
	}
}

func createSampler(config TracingConfig) sdktrace.Sampler {
	switch {
	case config.SampleRate <= 0 || config.SampleRate >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SampleRate))
	}
}

func (t *tracer) ScopeStarted(scopeID, parentID string, depth int) {
	ctx := context.Background()
	if parentID != "" {
		if parent, ok := t.spans.Load(parentID); ok {
			ctx = oteltrace.ContextWithSpan(ctx, parent.(oteltrace.Span))
		}
	}

	_, span := t.tracer.Start(ctx, "bridge.scope",
		oteltrace.WithSpanKind(oteltrace.SpanKindInternal),
		oteltrace.WithAttributes(
			attribute.String("bridge.scope.id", scopeID),
			attribute.String("bridge.scope.parent_id", parentID),
			attribute.Int("bridge.scope.depth", depth),
		),
	)
	t.spans.Store(scopeID, span)
}

func (t *tracer) ScopeEnded(scopeID string, disposed int, err error) {
	v, ok := t.spans.LoadAndDelete(scopeID)
	if !ok {
		return
	}

	span := v.(oteltrace.Span)
	span.SetAttributes(attribute.Int("bridge.scope.disposed", disposed))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "disposal failed")
	}
	span.End()
}

func (t *tracer) ActivationFailed(scopeID, service, lifetime string, err error) {
	ctx := context.Background()
	if parent, ok := t.spans.Load(scopeID); ok {
		ctx = oteltrace.ContextWithSpan(ctx, parent.(oteltrace.Span))
	}

	_, span := t.tracer.Start(ctx, "bridge.activate",
		oteltrace.WithAttributes(
			attribute.String("bridge.service", service),
			attribute.String("bridge.lifetime", lifetime),
		),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, "activation failed")
	span.End()
}

func (t *tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// noopTracer is a no-op implementation for when tracing is disabled
type noopTracer struct{}

// NewNoopTracer returns a tracer that records nothing.
func NewNoopTracer() Tracer {
	return &noopTracer{}
}

func (n *noopTracer) ScopeStarted(string, string, int)               {}
func (n *noopTracer) ScopeEnded(string, int, error)                  {}
func (n *noopTracer) ActivationFailed(string, string, string, error) {}
func (n *noopTracer) Shutdown(context.Context) error                 { return nil }
