package bridge

import (
	"context"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/xraph/bridge/internal/container"
	errs "github.com/xraph/bridge/internal/errors"
	"github.com/xraph/bridge/logger"
	"github.com/xraph/bridge/observability"
)

// Provider resolves services from one lifetime scope.
//
// The optional forms return (nil, nil) when nothing is registered; the
// required forms fail with an error matching ErrServiceNotFoundSentinel.
// Every form fails once the scope is disposed.
type Provider interface {
	ScopeFactory

	GetService(serviceType reflect.Type) (any, error)
	GetRequiredService(serviceType reflect.Type) (any, error)
	GetKeyedService(serviceType reflect.Type, key any) (any, error)
	GetRequiredKeyedService(serviceType reflect.Type, key any) (any, error)

	// GetServices resolves every registration in registration order.
	GetServices(serviceType reflect.Type) ([]any, error)
	GetKeyedServices(serviceType reflect.Type, key any) ([]any, error)
}

// ScopeFactory creates child scopes.
type ScopeFactory interface {
	CreateScope() (*ServiceScope, error)
}

var (
	providerType      = TypeOf[Provider]()
	scopeFactoryType  = TypeOf[ScopeFactory]()
	presenceType      = TypeOf[ServicePresence]()
	lifetimeScopeType = TypeOf[LifetimeScope]()
)

// locator is the native resolution surface shared by scopes and activation
// contexts.
type locator interface {
	TryLocate(serviceType reflect.Type, key any) (any, bool, error)
	LocateAll(serviceType reflect.Type, key any) ([]any, error)
}

// resolver implements Provider and ServicePresence over a locator.
type resolver struct {
	scope   *container.Scope
	locator locator
}

func (r resolver) GetService(serviceType reflect.Type) (any, error) {
	return r.resolve(serviceType, nil, false)
}

func (r resolver) GetRequiredService(serviceType reflect.Type) (any, error) {
	return r.resolve(serviceType, nil, true)
}

func (r resolver) GetKeyedService(serviceType reflect.Type, key any) (any, error) {
	return r.resolve(serviceType, key, false)
}

func (r resolver) GetRequiredKeyedService(serviceType reflect.Type, key any) (any, error) {
	return r.resolve(serviceType, key, true)
}

func (r resolver) GetServices(serviceType reflect.Type) ([]any, error) {
	return r.resolveAll(serviceType, nil)
}

func (r resolver) GetKeyedServices(serviceType reflect.Type, key any) ([]any, error) {
	return r.resolveAll(serviceType, key)
}

func (r resolver) CreateScope() (*ServiceScope, error) {
	p, err := providerFor(r.scope)
	if err != nil {
		return nil, err
	}
	return p.CreateScope()
}

func (r resolver) resolve(serviceType reflect.Type, key any, required bool) (any, error) {
	instance, found, err := r.locator.TryLocate(serviceType, key)
	return normalize(r.scope.ID(), serviceType, key, required, instance, found, err)
}

func (r resolver) resolveAll(serviceType reflect.Type, key any) ([]any, error) {
	instances, err := r.locator.LocateAll(serviceType, key)
	if err != nil {
		return nil, normalizeError(r.scope.ID(), serviceType, key, err)
	}
	return instances, nil
}

// normalize is the only place native resolution results are mapped onto the
// Provider contract. Only a native miss on the requested service itself counts
// as not found; failures of its dependencies are errors.
func normalize(scopeID string, serviceType reflect.Type, key any, required bool, instance any, found bool, err error) (any, error) {
	if err != nil {
		if !required && isMiss(err, serviceType, key) {
			return nil, nil
		}
		return nil, normalizeError(scopeID, serviceType, key, err)
	}

	if !found || instance == nil {
		if required {
			return nil, notFound(serviceType, key)
		}
		return nil, nil
	}
	return instance, nil
}

func normalizeError(scopeID string, serviceType reflect.Type, key any, err error) error {
	var cycle *container.CircularDependencyError
	switch {
	case isMiss(err, serviceType, key):
		return notFound(serviceType, key)
	case errs.Is(err, container.ErrScopeDisposed):
		return errs.ErrScopeDisposed(scopeID, err)
	case errs.IsCircularDependency(err):
		return err
	case errs.As(err, &cycle):
		return errs.ErrCircularDependency(cycle.Chain, err)
	default:
		return errs.NewServiceError(typeName(serviceType), "resolve", err)
	}
}

// isMiss reports whether err is the native miss for exactly (serviceType, key),
// not one raised while activating a dependency.
func isMiss(err error, serviceType reflect.Type, key any) bool {
	locateErr, ok := err.(*container.LocateError)
	return ok && locateErr.ServiceType == serviceType && locateErr.Key == key
}

func notFound(serviceType reflect.Type, key any) error {
	if key == nil {
		return errs.ErrServiceNotFound(typeName(serviceType))
	}
	return errs.ErrKeyedServiceNotFound(typeName(serviceType), key)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// newActivationProvider returns a Provider for factories. Resolutions share
// the activation chain, so dependency cycles through factories are detected.
func newActivationProvider(ctx *container.ActivationContext) Provider {
	return resolver{scope: ctx.Scope(), locator: ctx}
}

// scopedProvider is the one Provider owned by a lifetime scope.
type scopedProvider struct {
	resolver

	adapter *adapter
	parent  *scopedProvider
}

func (p *scopedProvider) CreateScope() (*ServiceScope, error) {
	return p.adapter.createScope(p)
}

// ID returns the scope identifier.
func (p *scopedProvider) ID() string {
	return p.scope.ID()
}

// Parent returns the scope that created this one, nil for the root.
func (p *scopedProvider) Parent() LifetimeScope {
	if p.parent == nil {
		return nil
	}
	return p.parent
}

func (p *scopedProvider) IsDisposed() bool {
	return p.scope.IsDisposed()
}

// ServiceProvider is the root provider returned by BuildServiceProvider.
type ServiceProvider struct {
	*scopedProvider
}

// Close disposes the root scope: singletons and transients resolved from the
// root, in reverse creation order. Scopes created from the provider must be
// disposed by their owners. Repeated calls are no-ops.
func (p *ServiceProvider) Close() error {
	return p.close(context.Background(), false)
}

// CloseAsync is Close that awaits async disposables with ctx.
func (p *ServiceProvider) CloseAsync(ctx context.Context) error {
	return p.close(ctx, true)
}

func (p *ServiceProvider) close(ctx context.Context, async bool) error {
	first := !p.scope.IsDisposed()
	err := p.adapter.disposeScope(ctx, p.scope, async)

	if first && p.adapter.ownsTracer {
		if shutdownErr := p.adapter.tracer.Shutdown(ctx); shutdownErr != nil {
			p.adapter.logger.Warn("tracer shutdown failed", logger.Error(shutdownErr))
		}
	}
	_ = p.adapter.logger.Sync()
	return err
}

// Logger returns the logger the provider reports through.
func (p *ServiceProvider) Logger() logger.Logger {
	return p.adapter.logger
}

// Metrics returns the container metrics.
func (p *ServiceProvider) Metrics() observability.Metrics {
	return p.adapter.metrics
}

// ServiceInfo describes one registration for diagnostics.
type ServiceInfo struct {
	ServiceType        string `json:"service_type"`
	Key                string `json:"key,omitempty"`
	Lifetime           string `json:"lifetime"`
	Shape              string `json:"shape"`
	ImplementationType string `json:"implementation_type,omitempty"`
	ExternallyOwned    bool   `json:"externally_owned"`
	BuiltIn            bool   `json:"built_in,omitempty"`
}

// Describe lists every root registration in registration order.
func (p *ServiceProvider) Describe() []ServiceInfo {
	strategies := p.scope.Strategies()
	infos := make([]ServiceInfo, 0, len(strategies))

	for _, s := range strategies {
		info := ServiceInfo{
			ServiceType:     typeName(s.ServiceType),
			Lifetime:        lifetimeOf(s.Lifestyle).String(),
			ExternallyOwned: s.ExternallyOwned,
		}
		if s.Key != nil {
			info.Key = fmtKey(s.Key)
		}
		if s.ImplementationType != nil {
			info.ImplementationType = s.ImplementationType.String()
		}
		if shape, ok := s.Metadata[metaShape].(string); ok {
			info.Shape = shape
		}
		if builtIn, ok := s.Metadata[metaBuiltIn].(bool); ok {
			info.BuiltIn = builtIn
		}
		infos = append(infos, info)
	}
	return infos
}

// DescribeJSON renders Describe as indented JSON.
func (p *ServiceProvider) DescribeJSON() ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(p.Describe(), "", "  ")
}
