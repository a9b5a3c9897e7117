package bridge

import (
	"fmt"

	"github.com/xraph/bridge/internal/container"
	errs "github.com/xraph/bridge/internal/errors"
)

// GetService resolves T, returning the zero value when T is not registered.
func GetService[T any](p Provider) (T, error) {
	v, err := p.GetService(TypeOf[T]())
	return cast[T](v, err)
}

// GetRequiredService resolves T or fails with ErrServiceNotFoundSentinel.
func GetRequiredService[T any](p Provider) (T, error) {
	v, err := p.GetRequiredService(TypeOf[T]())
	return cast[T](v, err)
}

// MustGetRequiredService is GetRequiredService that panics on failure.
func MustGetRequiredService[T any](p Provider) T {
	v, err := GetRequiredService[T](p)
	if err != nil {
		panic(fmt.Sprintf("bridge: resolve %s: %v", TypeOf[T](), err))
	}
	return v
}

// GetKeyedService resolves T under key, returning the zero value when nothing
// answers the key.
func GetKeyedService[T any](p Provider, key any) (T, error) {
	v, err := p.GetKeyedService(TypeOf[T](), key)
	return cast[T](v, err)
}

// GetRequiredKeyedService resolves T under key or fails with
// ErrServiceNotFoundSentinel.
func GetRequiredKeyedService[T any](p Provider, key any) (T, error) {
	v, err := p.GetRequiredKeyedService(TypeOf[T](), key)
	return cast[T](v, err)
}

// GetServices resolves every registration of T in registration order.
func GetServices[T any](p Provider) ([]T, error) {
	vs, err := p.GetServices(TypeOf[T]())
	return castAll[T](vs, err)
}

// GetKeyedServices resolves every registration of T answering key.
func GetKeyedServices[T any](p Provider, key any) ([]T, error) {
	vs, err := p.GetKeyedServices(TypeOf[T](), key)
	return castAll[T](vs, err)
}

func cast[T any](v any, err error) (T, error) {
	var zero T
	if err != nil || v == nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, errs.NewServiceError(TypeOf[T]().String(), "resolve",
			fmt.Errorf("%w: got %T", container.ErrTypeMismatch, v))
	}
	return t, nil
}

func castAll[T any](vs []any, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(vs))
	for _, v := range vs {
		t, err := cast[T](v, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
