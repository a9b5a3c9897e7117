package container

import (
	"context"
	"io"
	"reflect"

	"go.uber.org/multierr"
)

// Disposable releases resources synchronously.
type Disposable interface {
	Dispose() error
}

// AsyncDisposable releases resources honouring a context.
type AsyncDisposable interface {
	DisposeAsync(ctx context.Context) error
}

// IsDisposable reports whether the container would track v for disposal.
func IsDisposable(v any) bool {
	switch v.(type) {
	case Disposable, AsyncDisposable, io.Closer:
		return true
	default:
		return false
	}
}

// Dispose disposes every instance the scope tracked, in reverse creation
// order. Failures are aggregated; later calls are no-ops.
func (s *Scope) Dispose() error {
	return s.dispose(context.Background(), false)
}

// DisposeAsync is Dispose that awaits AsyncDisposable instances with ctx.
func (s *Scope) DisposeAsync(ctx context.Context) error {
	return s.dispose(ctx, true)
}

func (s *Scope) dispose(ctx context.Context, async bool) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	tracked := s.disposables
	s.disposables = nil
	s.cache = nil
	s.mu.Unlock()

	var err error
	for i := len(tracked) - 1; i >= 0; i-- {
		err = multierr.Append(err, disposeInstance(ctx, tracked[i], async))
	}

	s.container.observer.ScopeDisposed(s, len(tracked), err)
	return err
}

func (s *Scope) track(strategy *Strategy, instance any) error {
	if strategy.ExternallyOwned || instance == nil || !IsDisposable(instance) {
		return nil
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return multierr.Append(s.disposedError(), disposeInstance(context.Background(), instance, false))
	}
	s.disposables = append(s.disposables, instance)
	s.mu.Unlock()
	return nil
}

// disposeInstance prefers the capability matching the requested path and
// falls back to the other one, then to io.Closer.
func disposeInstance(ctx context.Context, instance any, async bool) error {
	var err error

	ad, isAsync := instance.(AsyncDisposable)
	d, isSync := instance.(Disposable)

	switch {
	case async && isAsync:
		err = ad.DisposeAsync(ctx)
	case isSync:
		err = d.Dispose()
	case isAsync:
		err = ad.DisposeAsync(ctx)
	default:
		if c, ok := instance.(io.Closer); ok {
			err = c.Close()
		}
	}

	if err != nil {
		return &DisposalError{InstanceType: reflect.TypeOf(instance), Err: err}
	}
	return nil
}
