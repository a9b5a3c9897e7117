package bridge

import (
	"github.com/xraph/bridge/internal/container"
	errs "github.com/xraph/bridge/internal/errors"
)

// translate registers one descriptor with the native container. Native
// registration errors are returned unchanged.
func translate(d ServiceDescriptor, b *container.RegistrationBlock) error {
	opts := []container.RegisterOption{
		container.WithLifestyle(classify(d.Lifetime)),
		container.WithMetadata(metaShape, d.Shape()),
	}
	if d.Key != nil {
		opts = append(opts, container.WithKey(d.Key))
	}

	switch impl := d.impl.(type) {
	case typeImplementation:
		return b.RegisterConstructor(d.ServiceType, impl.constructor, opts...)

	case factoryImplementation:
		var activator container.Activator
		if impl.factory != nil {
			activator = factoryActivator(impl.factory)
		}
		return b.Register(d.ServiceType, activator, opts...)

	case instanceImplementation:
		return b.RegisterInstance(d.ServiceType, impl.instance, opts...)

	case nil:
		return errs.ErrInvalidDescriptor

	default:
		panic("bridge: unknown implementation shape")
	}
}

// factoryActivator hands the factory a provider bound to the activating scope
// and the key the service was resolved under.
func factoryActivator(factory KeyedFactory) container.Activator {
	return func(ctx *container.ActivationContext) (any, error) {
		return factory(newActivationProvider(ctx), ctx.Key())
	}
}
