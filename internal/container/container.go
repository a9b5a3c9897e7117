// Package container implements a lifetime-scope container: strategies are
// registered in configuration transactions, located from a tree of scopes,
// cached according to their lifestyle and disposed in reverse creation order
// when the scope that activated them is disposed.
package container

import (
	"sync"
	"sync/atomic"
)

// Container owns the root registry and the root lifetime scope.
type Container struct {
	mu             sync.Mutex
	registry       *registry
	root           *Scope
	frozen         bool
	observer       Observer
	validateScopes bool
	sequence       atomic.Uint64
}

// Option configures a Container.
type Option func(*Container)

// WithObserver installs an observer for registration, activation and scope
// events.
func WithObserver(o Observer) Option {
	return func(c *Container) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithValidateScopes rejects per-scope strategies located from the root
// scope, including from singleton activations.
func WithValidateScopes(validate bool) Option {
	return func(c *Container) {
		c.validateScopes = validate
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		registry: newRegistry(nil),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.root = newScope(c, nil, c.registry)
	c.observer.ScopeCreated(c.root)
	return c
}

// Configure runs fn against a fresh registration block and commits the staged
// registrations only if fn succeeds.
func (c *Container) Configure(fn func(b *RegistrationBlock) error) error {
	if c.Frozen() {
		return ErrContainerFrozen
	}

	block := newRegistrationBlock()
	if err := fn(block); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return ErrContainerFrozen
	}
	c.commit(c.registry, block.strategies, c.root)
	return nil
}

// Freeze rejects every later Configure call.
func (c *Container) Freeze() {
	c.mu.Lock()
	c.frozen = true
	c.mu.Unlock()
}

// Frozen reports whether the configuration is frozen.
func (c *Container) Frozen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frozen
}

// Root returns the root lifetime scope.
func (c *Container) Root() *Scope {
	return c.root
}

// Strategies returns the root registrations in registration order.
func (c *Container) Strategies() []*Strategy {
	return c.registry.strategies()
}

func (c *Container) commit(reg *registry, strategies []*Strategy, owner *Scope) {
	for _, s := range strategies {
		s.owner = owner
		s.index = c.sequence.Add(1)
	}
	reg.add(strategies)

	for _, s := range strategies {
		c.observer.Registered(s)
	}
}
