package errors

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:      PhaseLoad,
				Kind:       KindInvalidBundle,
				Capability: "remote/Button",
				Endpoint:   "http://localhost:5001/assets/entry.wasm",
				Detail:     "not a wasm binary",
			},
			contains: []string{"[load]", "invalid_bundle", "remote/Button", "entry.wasm", "not a wasm binary"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseProbe,
				Kind:  KindUnreachable,
			},
			contains: []string{"[probe]", "unreachable"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseRender,
				Kind:   KindTrap,
				Detail: "guest trapped",
				Cause:  errors.New("wasm error: unreachable"),
			},
			contains: []string{"[render]", "trap", "guest trapped", "caused by", "unreachable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidBundle,
		Cause: cause,
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := Timeout("remote/Button", 3*time.Second)
	b := &Error{Phase: PhaseLoad, Kind: KindTimeout}
	c := &Error{Phase: PhaseProbe, Kind: KindTimeout}

	if !errors.Is(a, b) {
		t.Error("errors with matching phase and kind should match")
	}
	if errors.Is(a, c) {
		t.Error("errors with different phases should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(PhaseProbe, KindUnreachable).
		Endpoint("http://localhost:5001/assets/entry.wasm").
		Detail("HEAD failed after %d attempts", 1).
		Cause(cause).
		Build()

	if err.Phase != PhaseProbe {
		t.Errorf("Phase = %q, want %q", err.Phase, PhaseProbe)
	}
	if err.Kind != KindUnreachable {
		t.Errorf("Kind = %q, want %q", err.Kind, KindUnreachable)
	}
	if err.Detail != "HEAD failed after 1 attempts" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Cause != cause {
		t.Error("Cause not set")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		err   *Error
		phase Phase
		kind  Kind
		name  string
	}{
		{Unreachable("http://x", errors.New("refused")), PhaseProbe, KindUnreachable, "Unreachable"},
		{BadStatus("http://x", 503), PhaseProbe, KindBadStatus, "BadStatus"},
		{Timeout("remote/Button", 3*time.Second), PhaseLoad, KindTimeout, "Timeout"},
		{Trap("remote/Button", errors.New("boom")), PhaseRender, KindTrap, "Trap"},
		{InvalidBundle("bad magic", nil), PhaseLoad, KindInvalidBundle, "InvalidBundle"},
		{MissingExport("remote/Button", "render"), PhaseLoad, KindMissingExport, "MissingExport"},
		{InvalidOutput("remote/Button", "not UTF-8"), PhaseRender, KindInvalidOutput, "InvalidOutput"},
		{NotFound(PhaseLoad, "capability", "remote/Button"), PhaseLoad, KindNotFound, "NotFound"},
		{Canceled(PhaseLoad, "unmounted"), PhaseLoad, KindCanceled, "Canceled"},
		{AllocationFailed("remote/Button", 64), PhaseRender, KindAllocation, "AllocationFailed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Phase != tc.phase {
				t.Errorf("Phase = %q, want %q", tc.err.Phase, tc.phase)
			}
			if tc.err.Kind != tc.kind {
				t.Errorf("Kind = %q, want %q", tc.err.Kind, tc.kind)
			}
		})
	}
}

func TestBadStatus_Detail(t *testing.T) {
	err := BadStatus("http://localhost:5001/assets/entry.wasm", 404)
	if !strings.Contains(err.Error(), "status 404") {
		t.Errorf("expected status code in message, got %q", err.Error())
	}
}
