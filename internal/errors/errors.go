package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// ERROR CODES
// =============================================================================

// Error code constants for structured errors
const (
	CodeConfigError        = "CONFIG_ERROR"
	CodeServiceNotFound    = "SERVICE_NOT_FOUND"
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"
	CodeScopeDisposed      = "SCOPE_DISPOSED"
	CodeRegistrationFailed = "REGISTRATION_FAILED"
	CodeActivationFailed   = "ACTIVATION_FAILED"
	CodeDisposalFailed     = "DISPOSAL_FAILED"
	CodeInvalidConfig      = "INVALID_CONFIG"
)

// =============================================================================
// DI/SERVICE ERRORS
// =============================================================================

// ErrInvalidDescriptor reports a descriptor without an implementation.
var ErrInvalidDescriptor = errors.New("invalid service descriptor: no implementation")

// ServiceError wraps service-specific errors
type ServiceError struct {
	Service   string
	Operation string
	Err       error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s: %s: %v", e.Service, e.Operation, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface for ServiceError
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return (e.Service == "" || t.Service == "" || e.Service == t.Service) &&
		(e.Operation == "" || t.Operation == "" || e.Operation == t.Operation)
}

// NewServiceError creates a new service error
func NewServiceError(service, operation string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Err:       err,
	}
}

// =============================================================================
// BRIDGE ERROR (STRUCTURED ERROR)
// =============================================================================

// BridgeError represents a structured error with context
type BridgeError struct {
	Code      string
	Message   string
	Cause     error
	Timestamp time.Time
	Context   map[string]any
}

func (e *BridgeError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *BridgeError) Unwrap() error {
	return e.Cause
}

// Is compares by error code, allowing matching against sentinel errors
func (e *BridgeError) Is(target error) bool {
	t, ok := target.(*BridgeError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithContext adds context to the error
func (e *BridgeError) WithContext(key string, value any) *BridgeError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func newError(code, message string, cause error, ctx map[string]any) *BridgeError {
	if ctx == nil {
		ctx = make(map[string]any)
	}
	return &BridgeError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
		Context:   ctx,
	}
}

// ErrConfigError creates a config error
func ErrConfigError(message string, cause error) *BridgeError {
	return newError(CodeConfigError, message, cause, nil)
}

// ErrInvalidConfig reports a configuration key that failed to parse
func ErrInvalidConfig(configKey string, cause error) *BridgeError {
	return newError(CodeInvalidConfig, "invalid configuration for key '"+configKey+"'", cause,
		map[string]any{"config_key": configKey})
}

// ErrServiceNotFound reports a service that no registration can satisfy.
func ErrServiceNotFound(serviceName string) *BridgeError {
	return newError(CodeServiceNotFound, "service '"+serviceName+"' not found", nil,
		map[string]any{"service_name": serviceName})
}

// ErrKeyedServiceNotFound reports a keyed service that no registration can satisfy.
func ErrKeyedServiceNotFound(serviceName string, key any) *BridgeError {
	return newError(CodeServiceNotFound, fmt.Sprintf("service '%s' with key '%v' not found", serviceName, key), nil,
		map[string]any{"service_name": serviceName, "key": key})
}

// ErrCircularDependency reports the activation chain that closed a cycle.
func ErrCircularDependency(services []string, cause error) *BridgeError {
	return newError(CodeCircularDependency, "circular dependency detected: "+strings.Join(services, " -> "), cause,
		map[string]any{"services": services})
}

// ErrScopeDisposed reports an operation attempted on a disposed scope.
func ErrScopeDisposed(scopeID string, cause error) *BridgeError {
	return newError(CodeScopeDisposed, "scope '"+scopeID+"' is disposed", cause,
		map[string]any{"scope_id": scopeID})
}

func ErrRegistrationFailed(serviceName string, cause error) *BridgeError {
	return newError(CodeRegistrationFailed, "failed to register service '"+serviceName+"'", cause,
		map[string]any{"service_name": serviceName})
}

// ErrDisposalFailed wraps the aggregated failures of a scope teardown.
func ErrDisposalFailed(scopeID string, cause error) *BridgeError {
	return newError(CodeDisposalFailed, "disposal of scope '"+scopeID+"' failed", cause,
		map[string]any{"scope_id": scopeID})
}

// =============================================================================
// STANDARD ERRORS PACKAGE INTEGRATION
// =============================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Join returns an error that wraps the given errors.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// =============================================================================
// SENTINEL ERRORS (for use with Is)
// =============================================================================

var (
	// ErrServiceNotFoundSentinel matches every not-found failure
	ErrServiceNotFoundSentinel = &BridgeError{Code: CodeServiceNotFound}

	// ErrCircularDependencySentinel matches every circular dependency failure
	ErrCircularDependencySentinel = &BridgeError{Code: CodeCircularDependency}

	// ErrScopeDisposedSentinel matches every disposed-scope failure
	ErrScopeDisposedSentinel = &BridgeError{Code: CodeScopeDisposed}

	// ErrRegistrationFailedSentinel matches every registration failure
	ErrRegistrationFailedSentinel = &BridgeError{Code: CodeRegistrationFailed}

	// ErrDisposalFailedSentinel matches every aggregated disposal failure
	ErrDisposalFailedSentinel = &BridgeError{Code: CodeDisposalFailed}

	// ErrConfigErrorSentinel matches config errors
	ErrConfigErrorSentinel = &BridgeError{Code: CodeConfigError}

	// ErrInvalidConfigSentinel matches invalid config errors
	ErrInvalidConfigSentinel = &BridgeError{Code: CodeInvalidConfig}
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsServiceNotFound checks if the error is a service not found error
func IsServiceNotFound(err error) bool {
	return Is(err, ErrServiceNotFoundSentinel)
}

// IsCircularDependency checks if the error is a circular dependency error
func IsCircularDependency(err error) bool {
	return Is(err, ErrCircularDependencySentinel)
}

// IsScopeDisposed checks if the error is a disposed scope error
func IsScopeDisposed(err error) bool {
	return Is(err, ErrScopeDisposedSentinel)
}

// IsRegistrationFailed checks if the error is a registration error
func IsRegistrationFailed(err error) bool {
	return Is(err, ErrRegistrationFailedSentinel)
}

// IsDisposalFailed checks if the error is an aggregated disposal error
func IsDisposalFailed(err error) bool {
	return Is(err, ErrDisposalFailedSentinel)
}
