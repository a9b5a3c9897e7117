package container

import (
	"reflect"
)

// ActivationContext is handed to activators. Locates made through it share
// the activation chain, so cycles are reported instead of recursing.
type ActivationContext struct {
	scope    *Scope
	key      any
	strategy *Strategy
	chain    *resolutionChain
}

// Scope is the scope performing the activation: the requesting scope for
// transient and per-scope strategies, the owning scope for singletons.
func (c *ActivationContext) Scope() *Scope {
	return c.scope
}

// Key is the key the strategy was located under, nil when unkeyed.
func (c *ActivationContext) Key() any {
	return c.key
}

// Strategy is the strategy being activated.
func (c *ActivationContext) Strategy() *Strategy {
	return c.strategy
}

// Locate resolves a dependency from the activating scope.
func (c *ActivationContext) Locate(serviceType reflect.Type, key any) (any, error) {
	return c.scope.locate(serviceType, key, c.chain)
}

// TryLocate resolves a dependency, reporting absence through the boolean.
func (c *ActivationContext) TryLocate(serviceType reflect.Type, key any) (any, bool, error) {
	return c.scope.tryLocate(serviceType, key, c.chain)
}

// LocateAll resolves every strategy registered for the dependency.
func (c *ActivationContext) LocateAll(serviceType reflect.Type, key any) ([]any, error) {
	return c.scope.locateAll(serviceType, key, c.chain)
}

// resolutionChain is an immutable list of the activations in progress,
// innermost first. Activators may capture it, so it is never mutated.
type resolutionChain struct {
	parent   *resolutionChain
	strategy *Strategy
	key      any
}

func newResolutionChain() *resolutionChain {
	return nil
}

func (c *resolutionChain) push(s *Strategy, key any) (*resolutionChain, error) {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.strategy != s || cur.key != key {
			continue
		}

		var path []string
		for n := c; n != cur.parent; n = n.parent {
			path = append(path, n.strategy.String())
		}
		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		return nil, &CircularDependencyError{Chain: append(path, s.String())}
	}

	return &resolutionChain{parent: c, strategy: s, key: key}, nil
}
