package container

import (
	"fmt"
	"reflect"
)

// anyKey is the wildcard key type. A dedicated type keeps the sentinel from
// colliding with any user key.
type anyKey struct{}

func (anyKey) String() string { return "*" }

// AnyKey registers a strategy for every key of its service type. Passing it to
// LocateAll enumerates every explicitly keyed strategy of the type.
//
// The container recognises the wildcard by its type, so any anyKey value
// works; AnyKey must still not be reassigned.
var AnyKey any = anyKey{}

func isAnyKey(key any) bool {
	_, ok := key.(anyKey)
	return ok
}

// ServiceKey is injected into constructor parameters of this type with the key
// the strategy was located under.
type ServiceKey struct {
	Value any
}

// Activator creates an instance for a strategy.
type Activator func(ctx *ActivationContext) (any, error)

// Strategy is a committed registration. Fields are read-only after commit.
type Strategy struct {
	ServiceType        reflect.Type
	ImplementationType reflect.Type
	Key                any
	Lifestyle          Lifestyle
	ExternallyOwned    bool
	RootResolvable     bool
	Metadata           map[string]any

	activator Activator
	owner     *Scope
	index     uint64
}

// Keyed reports whether the strategy was registered under a key.
func (s *Strategy) Keyed() bool {
	return s.Key != nil
}

// Wildcard reports whether the strategy answers every key of its type.
func (s *Strategy) Wildcard() bool {
	return isAnyKey(s.Key)
}

// Index is the global registration sequence number.
func (s *Strategy) Index() uint64 {
	return s.index
}

func (s *Strategy) String() string {
	if s.Key == nil {
		return typeName(s.ServiceType)
	}
	return fmt.Sprintf("%s[%v]", typeName(s.ServiceType), s.Key)
}

// RegisterOption configures a registration.
type RegisterOption func(*Strategy)

// WithLifestyle sets the lifestyle. Registrations are transient by default.
func WithLifestyle(l Lifestyle) RegisterOption {
	return func(s *Strategy) {
		if l != nil {
			s.Lifestyle = l
		}
	}
}

// WithKey registers the strategy under key. Use AnyKey for a wildcard.
func WithKey(key any) RegisterOption {
	return func(s *Strategy) {
		s.Key = key
	}
}

// ExternallyOwned prevents the container from disposing activated instances.
func ExternallyOwned() RegisterOption {
	return func(s *Strategy) {
		s.ExternallyOwned = true
	}
}

// RootResolvable exempts a per-scope strategy from scope validation, so the
// root scope may locate it.
func RootResolvable() RegisterOption {
	return func(s *Strategy) {
		s.RootResolvable = true
	}
}

// WithImplementationType records the concrete type for diagnostics.
func WithImplementationType(t reflect.Type) RegisterOption {
	return func(s *Strategy) {
		s.ImplementationType = t
	}
}

// WithMetadata attaches a diagnostic value to the strategy.
func WithMetadata(key string, value any) RegisterOption {
	return func(s *Strategy) {
		if s.Metadata == nil {
			s.Metadata = make(map[string]any)
		}
		s.Metadata[key] = value
	}
}

func newStrategy(serviceType reflect.Type, activator Activator, opts []RegisterOption) (*Strategy, error) {
	if serviceType == nil {
		return nil, ErrNilServiceType
	}
	if activator == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidActivator, typeName(serviceType))
	}

	s := &Strategy{
		ServiceType: serviceType,
		Lifestyle:   Transient,
		activator:   activator,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.Key != nil && !reflect.TypeOf(s.Key).Comparable() {
		return nil, fmt.Errorf("%w: %T", ErrInvalidKey, s.Key)
	}
	return s, nil
}
