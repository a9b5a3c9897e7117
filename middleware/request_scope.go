// Package middleware connects bridge scopes to net/http request handling.
package middleware

import (
	"context"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/xraph/bridge"
	"github.com/xraph/bridge/logger"
)

// ErrNoScope is returned when a request carries no service scope.
var ErrNoScope = errors.New("no service scope in request context")

type scopeContextKey struct{}

// ErrorHandler writes the response for a request whose scope could not be
// created.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type options struct {
	logger  logger.Logger
	onError ErrorHandler
}

// Option configures RequestScope.
type Option func(*options)

// WithLogger sets the logger for scope creation and disposal failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithErrorHandler overrides the default 500 response written when a scope
// cannot be created.
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *options) {
		o.onError = h
	}
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// RequestScope creates one service scope per request and disposes it when the
// handler returns, including when it panics. Handlers reach the scope through
// FromContext or ProviderFromContext.
func RequestScope(factory bridge.ScopeFactory, opts ...Option) func(http.Handler) http.Handler {
	o := &options{
		logger:  logger.NewNoopLogger(),
		onError: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, err := factory.CreateScope()
			if err != nil {
				o.logger.Error("request scope creation failed",
					logger.String("request_id", chimw.GetReqID(r.Context())),
					logger.String("path", r.URL.Path),
					logger.Error(err),
				)
				o.onError(w, r, err)
				return
			}

			defer func() {
				// the request context is usually cancelled by now
				ctx := context.WithoutCancel(r.Context())
				if err := scope.DisposeAsync(ctx); err != nil {
					o.logger.Error("request scope disposal failed",
						logger.String("request_id", chimw.GetReqID(r.Context())),
						logger.String("scope_id", scope.ID()),
						logger.Error(err),
					)
				}
			}()

			ctx := context.WithValue(r.Context(), scopeContextKey{}, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request's service scope.
func FromContext(ctx context.Context) (*bridge.ServiceScope, bool) {
	scope, ok := ctx.Value(scopeContextKey{}).(*bridge.ServiceScope)
	return scope, ok && scope != nil
}

// ProviderFromContext returns the Provider of the request's service scope.
func ProviderFromContext(ctx context.Context) (bridge.Provider, bool) {
	scope, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return scope.Provider(), true
}

// Resolve resolves a required service from the request's scope.
func Resolve[T any](r *http.Request) (T, error) {
	p, ok := ProviderFromContext(r.Context())
	if !ok {
		var zero T
		return zero, ErrNoScope
	}
	return bridge.GetRequiredService[T](p)
}

// RequireScope rejects requests that reach it without a service scope.
func RequireScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			http.Error(w, ErrNoScope.Error(), http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}
