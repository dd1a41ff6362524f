package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "error with cause",
			err: Wrap(KindConfig, "load", "failed to load config",
				errors.New("file not found")),
			contains: []string{"[config:load]", "failed to load config", "file not found"},
		},
		{
			name:     "error without cause",
			err:      New(KindAuth, "resolve", "not authenticated"),
			contains: []string{"[auth:resolve]", "not authenticated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errStr, substr) {
					t.Errorf("error string %q does not contain %q", errStr, substr)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(KindUpstream, "test", "wrapped", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Unwrap should return the original error")
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{
			name:     "direct error kind match",
			err:      New(KindAuth, "test", "message"),
			kind:     KindAuth,
			expected: true,
		},
		{
			name:     "wrapped error kind match",
			err:      Wrap(KindForbidden, "test", "message", errors.New("cause")),
			kind:     KindForbidden,
			expected: true,
		},
		{
			name:     "error kind mismatch",
			err:      New(KindAuth, "test", "message"),
			kind:     KindForbidden,
			expected: false,
		},
		{
			name:     "non-typed error",
			err:      errors.New("plain error"),
			kind:     KindAuth,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsKind(tt.err, tt.kind)
			if result != tt.expected {
				t.Errorf("IsKind() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestLockedOut(t *testing.T) {
	err := NewLockedOut("tracker.status", 840)

	if !IsKind(err, KindLockout) {
		t.Fatal("expected lockout kind")
	}

	secs, ok := RetryAfter(err)
	if !ok {
		t.Fatal("expected retry-after to be present")
	}
	if secs != 840 {
		t.Fatalf("expected 840 seconds, got %d", secs)
	}

	if _, ok := RetryAfter(errors.New("plain")); ok {
		t.Fatal("plain error should not carry retry-after")
	}
}
