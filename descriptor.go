package bridge

import (
	"fmt"
	"reflect"

	"github.com/xraph/bridge/internal/container"
)

// AnyKey registers a keyed service for every key. Passed to GetKeyedServices
// it enumerates every explicitly keyed registration of the type.
//
// AnyKey is a variable only because Go has no struct constants. It must not
// be reassigned: a replaced value is an ordinary key, not the wildcard.
var AnyKey = container.AnyKey

// ServiceKey is injected into constructor parameters of this type with the
// key the service was resolved under.
type ServiceKey = container.ServiceKey

// Factory creates a service from the resolving provider.
type Factory func(p Provider) (any, error)

// KeyedFactory creates a keyed service. It receives the key the service was
// resolved under, which for AnyKey registrations is the caller's key.
type KeyedFactory func(p Provider, key any) (any, error)

// ServiceDescriptor describes one registration: a service type, exactly one
// implementation shape, a lifetime and an optional key. Descriptors are
// immutable values built with the Describe functions.
type ServiceDescriptor struct {
	ServiceType reflect.Type
	Lifetime    Lifetime
	Key         any

	impl implementation
}

// implementation is the closed set of registration shapes.
type implementation interface {
	shape() string
}

// typeImplementation is a constructor function whose parameters are resolved
// by type.
type typeImplementation struct {
	constructor any
}

func (typeImplementation) shape() string { return "type" }

type factoryImplementation struct {
	factory KeyedFactory
}

func (factoryImplementation) shape() string { return "factory" }

type instanceImplementation struct {
	instance any
}

func (instanceImplementation) shape() string { return "instance" }

// Describe registers a constructor such as func(deps...) T or
// func(deps...) (T, error).
func Describe(serviceType reflect.Type, constructor any, lifetime Lifetime) ServiceDescriptor {
	return ServiceDescriptor{
		ServiceType: serviceType,
		Lifetime:    lifetime,
		impl:        typeImplementation{constructor: constructor},
	}
}

// DescribeFactory registers a factory.
func DescribeFactory(serviceType reflect.Type, factory Factory, lifetime Lifetime) ServiceDescriptor {
	var impl implementation = factoryImplementation{}
	if factory != nil {
		impl = factoryImplementation{factory: func(p Provider, _ any) (any, error) {
			return factory(p)
		}}
	}

	return ServiceDescriptor{
		ServiceType: serviceType,
		Lifetime:    lifetime,
		impl:        impl,
	}
}

// DescribeInstance registers a pre-built singleton. The container never
// disposes it.
func DescribeInstance(serviceType reflect.Type, instance any) ServiceDescriptor {
	return ServiceDescriptor{
		ServiceType: serviceType,
		Lifetime:    Singleton,
		impl:        instanceImplementation{instance: instance},
	}
}

// DescribeKeyed registers a constructor under key.
func DescribeKeyed(serviceType reflect.Type, key any, constructor any, lifetime Lifetime) ServiceDescriptor {
	d := Describe(serviceType, constructor, lifetime)
	d.Key = key
	return d
}

// DescribeKeyedFactory registers a factory under key.
func DescribeKeyedFactory(serviceType reflect.Type, key any, factory KeyedFactory, lifetime Lifetime) ServiceDescriptor {
	return ServiceDescriptor{
		ServiceType: serviceType,
		Lifetime:    lifetime,
		Key:         key,
		impl:        factoryImplementation{factory: factory},
	}
}

// DescribeKeyedInstance registers a pre-built singleton under key.
func DescribeKeyedInstance(serviceType reflect.Type, key any, instance any) ServiceDescriptor {
	d := DescribeInstance(serviceType, instance)
	d.Key = key
	return d
}

// IsKeyed reports whether the descriptor carries a key.
func (d ServiceDescriptor) IsKeyed() bool {
	return d.Key != nil
}

// Shape returns "type", "factory" or "instance".
func (d ServiceDescriptor) Shape() string {
	if d.impl == nil {
		return ""
	}
	return d.impl.shape()
}

// ImplementationType returns the concrete type when it is known before
// activation: the constructor's result or the instance's dynamic type.
func (d ServiceDescriptor) ImplementationType() reflect.Type {
	switch impl := d.impl.(type) {
	case typeImplementation:
		if t := reflect.TypeOf(impl.constructor); t != nil && t.Kind() == reflect.Func && t.NumOut() > 0 {
			return t.Out(0)
		}
	case instanceImplementation:
		return reflect.TypeOf(impl.instance)
	}
	return nil
}

func (d ServiceDescriptor) String() string {
	name := "<nil>"
	if d.ServiceType != nil {
		name = d.ServiceType.String()
	}
	if d.Key == nil {
		return fmt.Sprintf("%s (%s, %s)", name, d.Lifetime, d.Shape())
	}
	return fmt.Sprintf("%s[%s] (%s, %s)", name, fmtKey(d.Key), d.Lifetime, d.Shape())
}

func fmtKey(key any) string {
	return fmt.Sprint(key)
}

// TypeOf returns the reflect.Type of T, including interface types.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
