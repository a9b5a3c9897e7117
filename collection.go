package bridge

import (
	"reflect"
)

// ServiceCollection is an ordered list of descriptors. Duplicates are kept:
// the last registration wins for single resolution and all of them are
// returned by GetServices.
type ServiceCollection struct {
	descriptors []ServiceDescriptor
}

// NewServiceCollection creates an empty collection.
func NewServiceCollection() *ServiceCollection {
	return &ServiceCollection{}
}

// Add appends descriptors.
func (c *ServiceCollection) Add(descriptors ...ServiceDescriptor) *ServiceCollection {
	c.descriptors = append(c.descriptors, descriptors...)
	return c
}

// TryAdd appends d unless a descriptor with the same service type and key is
// already present.
func (c *ServiceCollection) TryAdd(d ServiceDescriptor) bool {
	if c.contains(d.ServiceType, d.Key) {
		return false
	}
	c.descriptors = append(c.descriptors, d)
	return true
}

// Contains reports whether an unkeyed descriptor for serviceType is present.
func (c *ServiceCollection) Contains(serviceType reflect.Type) bool {
	return c.contains(serviceType, nil)
}

func (c *ServiceCollection) contains(serviceType reflect.Type, key any) bool {
	for _, d := range c.descriptors {
		if d.ServiceType == serviceType && d.Key == key {
			return true
		}
	}
	return false
}

// Len returns the number of descriptors.
func (c *ServiceCollection) Len() int {
	return len(c.descriptors)
}

// Descriptors returns a copy of the descriptors in registration order.
func (c *ServiceCollection) Descriptors() []ServiceDescriptor {
	return append([]ServiceDescriptor(nil), c.descriptors...)
}

// BuildServiceProvider builds the root provider from the collection.
func (c *ServiceCollection) BuildServiceProvider(opts ...Option) (*ServiceProvider, error) {
	return BuildServiceProvider(c.Descriptors(), opts...)
}

// AddSingleton registers constructor as the singleton implementation of T.
func AddSingleton[T any](c *ServiceCollection, constructor any) *ServiceCollection {
	return c.Add(Describe(TypeOf[T](), constructor, Singleton))
}

// AddScoped registers constructor as the scoped implementation of T.
func AddScoped[T any](c *ServiceCollection, constructor any) *ServiceCollection {
	return c.Add(Describe(TypeOf[T](), constructor, Scoped))
}

// AddTransient registers constructor as the transient implementation of T.
func AddTransient[T any](c *ServiceCollection, constructor any) *ServiceCollection {
	return c.Add(Describe(TypeOf[T](), constructor, Transient))
}

// AddFactory registers a typed factory for T.
func AddFactory[T any](c *ServiceCollection, lifetime Lifetime, factory func(Provider) (T, error)) *ServiceCollection {
	return c.Add(DescribeFactory(TypeOf[T](), func(p Provider) (any, error) {
		return untyped(factory(p))
	}, lifetime))
}

// AddInstance registers a pre-built singleton for T.
func AddInstance[T any](c *ServiceCollection, instance T) *ServiceCollection {
	return c.Add(DescribeInstance(TypeOf[T](), instance))
}

// AddKeyed registers constructor as the implementation of T under key.
func AddKeyed[T any](c *ServiceCollection, key any, lifetime Lifetime, constructor any) *ServiceCollection {
	return c.Add(DescribeKeyed(TypeOf[T](), key, constructor, lifetime))
}

// AddKeyedFactory registers a typed factory for T under key. The factory
// receives the key T was resolved under.
func AddKeyedFactory[T any](c *ServiceCollection, key any, lifetime Lifetime, factory func(Provider, any) (T, error)) *ServiceCollection {
	return c.Add(DescribeKeyedFactory(TypeOf[T](), key, func(p Provider, k any) (any, error) {
		return untyped(factory(p, k))
	}, lifetime))
}

// AddKeyedInstance registers a pre-built singleton for T under key.
func AddKeyedInstance[T any](c *ServiceCollection, key any, instance T) *ServiceCollection {
	return c.Add(DescribeKeyedInstance(TypeOf[T](), key, instance))
}

func untyped[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}
