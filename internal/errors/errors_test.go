package errors

import (
	"errors"
	"testing"
)

// TestBridgeErrorIs tests the Is implementation for BridgeError.
func TestBridgeErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "same error code matches",
			err:    ErrServiceNotFound("logger"),
			target: ErrServiceNotFoundSentinel,
			want:   true,
		},
		{
			name:   "keyed not found shares the code",
			err:    ErrKeyedServiceNotFound("cache", "redis"),
			target: ErrServiceNotFoundSentinel,
			want:   true,
		},
		{
			name:   "different error code does not match",
			err:    ErrServiceNotFound("logger"),
			target: ErrScopeDisposedSentinel,
			want:   false,
		},
		{
			name:   "wrapped error matches",
			err:    ErrDisposalFailed("scope-1", ErrScopeDisposed("scope-2", nil)),
			target: ErrScopeDisposedSentinel,
			want:   true,
		},
		{
			name:   "nil target does not match",
			err:    ErrServiceNotFound("logger"),
			target: nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.target); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestServiceErrorIs tests the Is implementation for ServiceError.
func TestServiceErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{
			name:   "same service and operation matches",
			err:    NewServiceError("db", "resolve", errors.New("boom")),
			target: NewServiceError("db", "resolve", nil),
			want:   true,
		},
		{
			name:   "partial match with empty service",
			err:    NewServiceError("db", "resolve", errors.New("boom")),
			target: NewServiceError("", "resolve", nil),
			want:   true,
		},
		{
			name:   "different operation does not match",
			err:    NewServiceError("db", "resolve", errors.New("boom")),
			target: NewServiceError("db", "dispose", nil),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceErrorUnwrap(t *testing.T) {
	cause := ErrServiceNotFound("repo")
	err := NewServiceError("handler", "resolve", cause)

	if !IsServiceNotFound(err) {
		t.Fatalf("expected wrapped not-found to be detected, got %v", err)
	}
	if got := err.Error(); got != "service handler: resolve: service 'repo' not found" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestHelpers(t *testing.T) {
	if !IsCircularDependency(ErrCircularDependency([]string{"a", "b", "a"}, nil)) {
		t.Error("expected circular dependency")
	}
	if !IsScopeDisposed(ErrScopeDisposed("s", nil)) {
		t.Error("expected scope disposed")
	}
	if !IsRegistrationFailed(ErrRegistrationFailed("svc", errors.New("bad ctor"))) {
		t.Error("expected registration failure")
	}
	if !IsDisposalFailed(ErrDisposalFailed("s", errors.New("close"))) {
		t.Error("expected disposal failure")
	}
	if IsServiceNotFound(errors.New("plain")) {
		t.Error("plain error must not match")
	}
}

func TestBridgeErrorWithContext(t *testing.T) {
	err := ErrConfigError("bad", nil).WithContext("file", "bridge.yaml")

	if err.Context["file"] != "bridge.yaml" {
		t.Errorf("expected context to be recorded, got %v", err.Context)
	}
	if err.Error() != "bad" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var nilCtx BridgeError
	nilCtx.WithContext("k", 1)
	if nilCtx.Context["k"] != 1 {
		t.Error("expected context map to be allocated")
	}
}
