// Package bridge adapts an ordered list of service descriptors onto a native
// lifetime-scope container.
//
// Descriptors name a service type, one implementation shape (constructor,
// factory or instance), a lifetime and an optional key. BuildServiceProvider
// registers them in a single configuration transaction, freezes the container
// and returns the root Provider. Scopes created from any Provider are child
// lifetime scopes of the scope that created them.
//
//	services := bridge.NewServiceCollection()
//	bridge.AddSingleton[Logger](services, NewConsoleLogger)
//	bridge.AddScoped[RequestContext](services, NewRequestContext)
//
//	root, err := services.BuildServiceProvider()
//	scope, err := root.CreateScope()
//	defer scope.Dispose()
//
//	ctx, err := bridge.GetRequiredService[RequestContext](scope.Provider())
package bridge

import (
	"github.com/xraph/bridge/internal/container"
	errs "github.com/xraph/bridge/internal/errors"
	"github.com/xraph/bridge/logger"
	"github.com/xraph/bridge/observability"
)

// metadata keys recorded on native strategies
const (
	metaShape   = "bridge.shape"
	metaBuiltIn = "bridge.builtin"
)

// adapter holds the state shared by every provider of one container.
type adapter struct {
	container          *container.Container
	logger             logger.Logger
	metrics            observability.Metrics
	tracer             observability.Tracer
	ownsTracer         bool
	scopeRegistrations []ServiceDescriptor
}

// BuildServiceProvider registers descriptors in order, freezes the container
// and returns the root provider. A descriptor the native container rejects
// fails the whole build and nothing is registered.
func BuildServiceProvider(descriptors []ServiceDescriptor, opts ...Option) (*ServiceProvider, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	a := &adapter{
		logger:             o.logger.Named("bridge"),
		metrics:            o.metrics,
		tracer:             o.tracer,
		ownsTracer:         o.ownsTracer,
		scopeRegistrations: o.scopeRegistrations,
	}

	a.container = container.New(
		container.WithObserver(newInstrumentation(a.logger, a.metrics, a.tracer)),
		container.WithValidateScopes(o.config.ValidateScopes),
	)

	err = a.container.Configure(func(b *container.RegistrationBlock) error {
		for _, d := range descriptors {
			if err := translate(d, b); err != nil {
				return errs.ErrRegistrationFailed(d.String(), err)
			}
		}
		return a.registerBuiltIns(b)
	})
	if err != nil {
		a.logger.Error("service provider build failed", logger.Error(err))
		return nil, err
	}
	a.container.Freeze()

	root, err := providerFor(a.container.Root())
	if err != nil {
		return nil, err
	}

	a.logger.Info("service provider built",
		logger.Int("descriptors", len(descriptors)),
		logger.Int("scope_registrations", len(a.scopeRegistrations)),
		logger.Bool("validate_scopes", o.config.ValidateScopes),
	)

	return &ServiceProvider{scopedProvider: root}, nil
}

// providerFor returns the one Provider owned by scope.
func providerFor(scope *container.Scope) (*scopedProvider, error) {
	v, err := scope.Locate(providerType, nil)
	if err != nil {
		return nil, normalizeError(scope.ID(), providerType, nil, err)
	}
	return v.(*scopedProvider), nil
}
