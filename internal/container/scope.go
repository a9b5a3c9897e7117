package container

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

type cacheKey struct {
	strategy *Strategy
	key      any
}

type cacheEntry struct {
	mu    sync.Mutex
	done  bool
	value any
}

// Scope is a node of the lifetime-scope tree. It holds a non-owning reference
// to its parent, its own instance cache and its own disposal list.
type Scope struct {
	id        string
	container *Container
	parent    *Scope
	registry  *registry
	depth     int

	mu          sync.Mutex
	cache       map[cacheKey]*cacheEntry
	disposables []any
	disposed    bool
}

func newScope(c *Container, parent *Scope, reg *registry) *Scope {
	s := &Scope{
		id:        uuid.NewString(),
		container: c,
		parent:    parent,
		registry:  reg,
		cache:     make(map[cacheKey]*cacheEntry),
	}
	if parent != nil {
		s.depth = parent.depth + 1
	}
	return s
}

// ID returns the unique scope identifier.
func (s *Scope) ID() string {
	return s.id
}

// Parent returns the scope that created s, nil for the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Depth is the distance from the root.
func (s *Scope) Depth() int {
	return s.depth
}

// Container returns the owning container.
func (s *Scope) Container() *Container {
	return s.container
}

// IsDisposed reports whether the scope has been disposed.
func (s *Scope) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Strategies returns the registrations visible from s in registration order.
func (s *Scope) Strategies() []*Strategy {
	return s.registry.strategies()
}

// Locate activates or returns the cached instance for the service type and
// key. A missing registration yields a *LocateError matching ErrNotLocatable.
func (s *Scope) Locate(serviceType reflect.Type, key any) (any, error) {
	return s.locate(serviceType, key, newResolutionChain())
}

// TryLocate is Locate that reports a missing registration through the boolean
// instead of an error. Failures of a located strategy are still errors.
func (s *Scope) TryLocate(serviceType reflect.Type, key any) (any, bool, error) {
	return s.tryLocate(serviceType, key, newResolutionChain())
}

// LocateAll activates every strategy for the service type and key in
// registration order. With AnyKey it enumerates every explicitly keyed
// strategy.
func (s *Scope) LocateAll(serviceType reflect.Type, key any) ([]any, error) {
	return s.locateAll(serviceType, key, newResolutionChain())
}

// CanLocate reports whether a strategy exists without activating anything.
// With AnyKey it reports whether any keyed strategy exists for the type.
func (s *Scope) CanLocate(serviceType reflect.Type, key any) bool {
	if serviceType == nil || !comparableKey(key) {
		return false
	}
	if isAnyKey(key) {
		return s.registry.hasKeyed(serviceType)
	}
	return s.registry.find(serviceType, key) != nil
}

// BeginLifetimeScope creates a child scope sharing this scope's registrations.
func (s *Scope) BeginLifetimeScope() (*Scope, error) {
	return s.newChild(s.registry, nil)
}

// CreateChildScope creates a child scope whose registry layers the strategies
// staged by configure over this scope's. Singletons registered this way are
// owned by the child.
func (s *Scope) CreateChildScope(configure func(b *RegistrationBlock) error) (*Scope, error) {
	block := newRegistrationBlock()
	if configure != nil {
		if err := configure(block); err != nil {
			return nil, err
		}
	}

	if block.Len() == 0 {
		return s.BeginLifetimeScope()
	}
	return s.newChild(newRegistry(s.registry), block.strategies)
}

func (s *Scope) newChild(reg *registry, strategies []*Strategy) (*Scope, error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil, s.disposedError()
	}
	child := newScope(s.container, s, reg)
	s.mu.Unlock()

	if len(strategies) > 0 {
		s.container.commit(reg, strategies, child)
	}

	s.container.observer.ScopeCreated(child)
	return child, nil
}

func (s *Scope) locate(serviceType reflect.Type, key any, chain *resolutionChain) (any, error) {
	instance, found, err := s.tryLocate(serviceType, key, chain)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &LocateError{ServiceType: serviceType, Key: key}
	}
	return instance, nil
}

func (s *Scope) tryLocate(serviceType reflect.Type, key any, chain *resolutionChain) (any, bool, error) {
	if err := s.checkLocate(serviceType, key); err != nil {
		return nil, false, err
	}
	if isAnyKey(key) {
		return nil, false, fmt.Errorf("%w: %s", ErrAnyKeyResolution, serviceType)
	}

	strategy := s.registry.find(serviceType, key)
	if strategy == nil {
		return nil, false, nil
	}

	instance, err := s.resolve(strategy, key, chain)
	if err != nil {
		return nil, true, err
	}
	return instance, true, nil
}

func (s *Scope) locateAll(serviceType reflect.Type, key any, chain *resolutionChain) ([]any, error) {
	if err := s.checkLocate(serviceType, key); err != nil {
		return nil, err
	}

	strategies := s.registry.findAll(serviceType, key)
	instances := make([]any, 0, len(strategies))
	for _, strategy := range strategies {
		k := key
		if isAnyKey(key) {
			k = strategy.Key
		}

		instance, err := s.resolve(strategy, k, chain)
		if err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

func (s *Scope) checkLocate(serviceType reflect.Type, key any) error {
	if s.IsDisposed() {
		return s.disposedError()
	}
	if serviceType == nil {
		return ErrNilServiceType
	}
	if !comparableKey(key) {
		return fmt.Errorf("%w: %T", ErrInvalidKey, key)
	}
	return nil
}

// resolve honours the strategy's lifestyle: transient instances are activated
// and tracked by s; cached instances are activated once by their owner scope.
func (s *Scope) resolve(strategy *Strategy, key any, chain *resolutionChain) (any, error) {
	if strategy.Lifestyle == PerScope && !strategy.RootResolvable && s.parent == nil && s.container.validateScopes {
		return nil, fmt.Errorf("%w: %s", ErrScopedResolvedAtRoot, strategy)
	}

	chain, err := chain.push(strategy, key)
	if err != nil {
		return nil, err
	}

	owner := strategy.Lifestyle.owner(s, strategy.owner)
	if owner == nil {
		instance, err := s.activate(strategy, key, chain)
		if err != nil {
			return nil, err
		}
		if err := s.track(strategy, instance); err != nil {
			return nil, err
		}
		return instance, nil
	}

	entry, err := owner.entry(cacheKey{strategy: strategy, key: key})
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.done {
		return entry.value, nil
	}

	instance, err := owner.activate(strategy, key, chain)
	if err != nil {
		return nil, err
	}
	if err := owner.track(strategy, instance); err != nil {
		return nil, err
	}

	entry.value = instance
	entry.done = true
	return instance, nil
}

func (s *Scope) entry(k cacheKey) (*cacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil, s.disposedError()
	}

	e, ok := s.cache[k]
	if !ok {
		e = &cacheEntry{}
		s.cache[k] = e
	}
	return e, nil
}

func (s *Scope) activate(strategy *Strategy, key any, chain *resolutionChain) (any, error) {
	start := time.Now()

	instance, err := strategy.activator(&ActivationContext{
		scope:    s,
		key:      key,
		strategy: strategy,
		chain:    chain,
	})
	if err == nil && instance != nil && !reflect.TypeOf(instance).AssignableTo(strategy.ServiceType) {
		err = fmt.Errorf("%w: %T is not %s", ErrTypeMismatch, instance, strategy.ServiceType)
	}

	s.container.observer.Activated(strategy, s, time.Since(start), err)

	if err != nil {
		return nil, &ActivationError{ServiceType: strategy.ServiceType, Key: key, Err: err}
	}
	return instance, nil
}

func (s *Scope) disposedError() error {
	return fmt.Errorf("%w: %s", ErrScopeDisposed, s.id)
}

func comparableKey(key any) bool {
	return key == nil || reflect.TypeOf(key).Comparable()
}
