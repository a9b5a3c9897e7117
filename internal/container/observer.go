package container

import "time"

// Observer receives container lifecycle events. Implementations must be safe
// for concurrent use.
type Observer interface {
	Registered(s *Strategy)
	Activated(s *Strategy, scope *Scope, elapsed time.Duration, err error)
	ScopeCreated(scope *Scope)
	ScopeDisposed(scope *Scope, disposed int, err error)
}

type noopObserver struct{}

func (noopObserver) Registered(*Strategy) {}
func (noopObserver) Activated(*Strategy, *Scope, time.Duration, error) {}
func (noopObserver) ScopeCreated(*Scope) {}
func (noopObserver) ScopeDisposed(*Scope, int, error) {}
