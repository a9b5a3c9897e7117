package container

import (
	"fmt"
	"reflect"
)

// RegistrationBlock stages registrations for one configuration transaction.
// Nothing becomes locatable until the transaction commits.
type RegistrationBlock struct {
	strategies []*Strategy
}

func newRegistrationBlock() *RegistrationBlock {
	return &RegistrationBlock{}
}

// Register stages a strategy backed by activator.
func (b *RegistrationBlock) Register(serviceType reflect.Type, activator Activator, opts ...RegisterOption) error {
	s, err := newStrategy(serviceType, activator, opts)
	if err != nil {
		return err
	}

	b.strategies = append(b.strategies, s)
	return nil
}

// RegisterConstructor stages a strategy that calls ctor, locating each
// parameter by type from the activating scope. A ServiceKey parameter
// receives the located key.
func (b *RegistrationBlock) RegisterConstructor(serviceType reflect.Type, ctor any, opts ...RegisterOption) error {
	if serviceType == nil {
		return ErrNilServiceType
	}

	activator, implType, err := constructorActivator(serviceType, ctor)
	if err != nil {
		return err
	}

	return b.Register(serviceType, activator, append([]RegisterOption{WithImplementationType(implType)}, opts...)...)
}

// RegisterInstance stages a pre-built value. Instances are always externally
// owned.
func (b *RegistrationBlock) RegisterInstance(serviceType reflect.Type, instance any, opts ...RegisterOption) error {
	if serviceType == nil {
		return ErrNilServiceType
	}
	if instance == nil {
		return fmt.Errorf("%w: %s", ErrNilInstance, serviceType)
	}

	implType := reflect.TypeOf(instance)
	if !implType.AssignableTo(serviceType) {
		return fmt.Errorf("%w: %s is not %s", ErrTypeMismatch, implType, serviceType)
	}

	activator := func(*ActivationContext) (any, error) {
		return instance, nil
	}

	opts = append([]RegisterOption{WithLifestyle(Singleton), WithImplementationType(implType)}, opts...)
	return b.Register(serviceType, activator, append(opts, ExternallyOwned())...)
}

// Len returns the number of staged registrations.
func (b *RegistrationBlock) Len() int {
	return len(b.strategies)
}
