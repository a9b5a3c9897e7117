package bridge

import (
	"context"
	"reflect"

	"github.com/xraph/bridge/internal/container"
	errs "github.com/xraph/bridge/internal/errors"
)

// LifetimeScope identifies a scope in the scope tree.
type LifetimeScope interface {
	ID() string

	// Parent returns the scope that created this one, nil for the root.
	Parent() LifetimeScope

	IsDisposed() bool
}

// ServiceScope owns a child lifetime scope and its Provider. Disposing it
// disposes the scoped and transient services it created, in reverse creation
// order. Singletons and the parent scope are left alone.
type ServiceScope struct {
	provider *scopedProvider
}

// Provider returns the scope's Provider.
func (s *ServiceScope) Provider() Provider {
	return s.provider
}

// ID returns the scope identifier.
func (s *ServiceScope) ID() string {
	return s.provider.ID()
}

// Parent returns the scope that created this one.
func (s *ServiceScope) Parent() LifetimeScope {
	return s.provider.Parent()
}

func (s *ServiceScope) IsDisposed() bool {
	return s.provider.IsDisposed()
}

// Dispose disposes the scope. Failures of individual services are aggregated
// into one error; repeated calls are no-ops.
func (s *ServiceScope) Dispose() error {
	return s.provider.adapter.disposeScope(context.Background(), s.provider.scope, false)
}

// DisposeAsync is Dispose that awaits async disposables with ctx.
func (s *ServiceScope) DisposeAsync(ctx context.Context) error {
	return s.provider.adapter.disposeScope(ctx, s.provider.scope, true)
}

func (a *adapter) createScope(parent *scopedProvider) (*ServiceScope, error) {
	var (
		child *container.Scope
		err   error
	)

	if len(a.scopeRegistrations) > 0 {
		child, err = parent.scope.CreateChildScope(func(b *container.RegistrationBlock) error {
			for _, d := range a.scopeRegistrations {
				if err := translate(d, b); err != nil {
					return errs.ErrRegistrationFailed(d.String(), err)
				}
			}
			return nil
		})
	} else {
		child, err = parent.scope.BeginLifetimeScope()
	}
	if err != nil {
		if errs.Is(err, container.ErrScopeDisposed) {
			return nil, errs.ErrScopeDisposed(parent.ID(), err)
		}
		return nil, err
	}

	p, err := providerFor(child)
	if err != nil {
		_ = child.Dispose()
		return nil, err
	}
	return &ServiceScope{provider: p}, nil
}

func (a *adapter) disposeScope(ctx context.Context, scope *container.Scope, async bool) error {
	var err error
	if async {
		err = scope.DisposeAsync(ctx)
	} else {
		err = scope.Dispose()
	}

	if err != nil {
		return errs.ErrDisposalFailed(scope.ID(), err)
	}
	return nil
}

// registerBuiltIns makes the resolution contract and its companions
// resolvable from every scope. They are per-scope and externally owned, so
// each scope has exactly one Provider and never disposes it.
func (a *adapter) registerBuiltIns(b *container.RegistrationBlock) error {
	opts := []container.RegisterOption{
		container.WithLifestyle(container.PerScope),
		container.ExternallyOwned(),
		container.RootResolvable(),
		container.WithMetadata(metaShape, "factory"),
		container.WithMetadata(metaBuiltIn, true),
	}

	err := b.Register(providerType, func(ctx *container.ActivationContext) (any, error) {
		scope := ctx.Scope()
		p := &scopedProvider{
			resolver: resolver{scope: scope, locator: scope},
			adapter:  a,
		}

		if parent := scope.Parent(); parent != nil {
			pp, err := providerFor(parent)
			if err != nil {
				return nil, err
			}
			p.parent = pp
		}
		return p, nil
	}, append(opts, container.WithImplementationType(TypeOf[*scopedProvider]()))...)
	if err != nil {
		return err
	}

	for _, t := range []reflect.Type{scopeFactoryType, presenceType, lifetimeScopeType} {
		err := b.Register(t, func(ctx *container.ActivationContext) (any, error) {
			return ctx.Locate(providerType, nil)
		}, append(opts, container.WithImplementationType(TypeOf[*scopedProvider]()))...)
		if err != nil {
			return err
		}
	}
	return nil
}
