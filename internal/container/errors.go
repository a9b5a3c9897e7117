package container

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Native container errors.
var (
	ErrNotLocatable         = errors.New("no strategy can locate the requested service")
	ErrCircularDependency   = errors.New("circular dependency detected during activation")
	ErrInvalidConstructor   = errors.New("constructor must be a non-variadic function returning (T) or (T, error)")
	ErrInvalidActivator     = errors.New("activator cannot be nil")
	ErrNilServiceType       = errors.New("service type cannot be nil")
	ErrNilInstance          = errors.New("registered instance cannot be nil")
	ErrInvalidKey           = errors.New("service key must be comparable")
	ErrAnyKeyResolution     = errors.New("the any-key sentinel can only be used to enumerate services")
	ErrTypeMismatch         = errors.New("activated instance is not assignable to the service type")
	ErrScopeDisposed        = errors.New("lifetime scope is disposed")
	ErrContainerFrozen      = errors.New("container configuration is frozen")
	ErrScopedResolvedAtRoot = errors.New("per-scope service cannot be resolved from the root scope")
)

// LocateError is returned by Locate when nothing is registered for the
// requested service type and key.
type LocateError struct {
	ServiceType reflect.Type
	Key         any
}

func (e *LocateError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("could not locate %s", typeName(e.ServiceType))
	}
	return fmt.Sprintf("could not locate %s with key %v", typeName(e.ServiceType), e.Key)
}

// Is lets errors.Is match ErrNotLocatable.
func (e *LocateError) Is(target error) bool {
	return target == ErrNotLocatable
}

// ActivationError wraps a failure raised while activating a strategy.
type ActivationError struct {
	ServiceType reflect.Type
	Key         any
	Err         error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("activate %s: %v", typeName(e.ServiceType), e.Err)
}

func (e *ActivationError) Unwrap() error {
	return e.Err
}

// CircularDependencyError lists the activation chain that closed the cycle.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return ErrCircularDependency.Error() + ": " + strings.Join(e.Chain, " -> ")
}

func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}

// DisposalError records the failure of a single tracked instance.
type DisposalError struct {
	InstanceType reflect.Type
	Err          error
}

func (e *DisposalError) Error() string {
	return fmt.Sprintf("dispose %s: %v", typeName(e.InstanceType), e.Err)
}

func (e *DisposalError) Unwrap() error {
	return e.Err
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
