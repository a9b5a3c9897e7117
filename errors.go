package bridge

import (
	"github.com/xraph/bridge/internal/container"
	errs "github.com/xraph/bridge/internal/errors"
)

// Re-export structured error types.
type (
	BridgeError  = errs.BridgeError
	ServiceError = errs.ServiceError
)

// Re-export sentinel errors for error comparison using errors.Is().
var (
	ErrServiceNotFoundSentinel    = errs.ErrServiceNotFoundSentinel
	ErrScopeDisposedSentinel      = errs.ErrScopeDisposedSentinel
	ErrRegistrationFailedSentinel = errs.ErrRegistrationFailedSentinel
	ErrDisposalFailedSentinel     = errs.ErrDisposalFailedSentinel
	ErrCircularDependencySentinel = errs.ErrCircularDependencySentinel
	ErrConfigErrorSentinel        = errs.ErrConfigErrorSentinel
	ErrInvalidConfigSentinel      = errs.ErrInvalidConfigSentinel
)

// Native container errors, returned unchanged (wrapped) by the adapter.
var (
	ErrCircularDependency   = container.ErrCircularDependency
	ErrInvalidConstructor   = container.ErrInvalidConstructor
	ErrInvalidActivator     = container.ErrInvalidActivator
	ErrNilInstance          = container.ErrNilInstance
	ErrInvalidKey           = container.ErrInvalidKey
	ErrAnyKeyResolution     = container.ErrAnyKeyResolution
	ErrTypeMismatch         = container.ErrTypeMismatch
	ErrContainerFrozen      = container.ErrContainerFrozen
	ErrScopedResolvedAtRoot = container.ErrScopedResolvedAtRoot
	ErrNilServiceType       = container.ErrNilServiceType
	ErrInvalidDescriptor    = errs.ErrInvalidDescriptor
)

// Error helpers.
var (
	IsServiceNotFound    = errs.IsServiceNotFound
	IsScopeDisposed      = errs.IsScopeDisposed
	IsCircularDependency = errs.IsCircularDependency
	IsRegistrationFailed = errs.IsRegistrationFailed
	IsDisposalFailed     = errs.IsDisposalFailed
)

// Disposable is released when the scope that created it is disposed.
type Disposable = container.Disposable

// AsyncDisposable is Disposable honouring a context. The synchronous dispose
// path calls it with context.Background().
type AsyncDisposable = container.AsyncDisposable
