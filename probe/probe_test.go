package probe

import (
	"context"
	gerrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wippyai/capability-host/errors"
)

func TestState_StartsUnknown(t *testing.T) {
	var st State
	if st.Status() != StatusUnknown {
		t.Fatalf("zero state = %v, want unknown", st.Status())
	}
	if st.Resolved() {
		t.Fatal("zero state should not be resolved")
	}
}

func TestState_ResolvesOnce(t *testing.T) {
	var st State

	st.resolve(StatusUnavailable)
	if st.Status() != StatusUnavailable {
		t.Fatalf("status = %v, want unavailable", st.Status())
	}

	// A later result must not revert the state.
	st.resolve(StatusAvailable)
	if st.Status() != StatusUnavailable {
		t.Fatalf("status reverted to %v after second resolve", st.Status())
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		in   Status
		want string
	}{
		{StatusUnknown, "unknown"},
		{StatusAvailable, "available"},
		{StatusUnavailable, "unavailable"},
	}
	for _, tc := range tests {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProber_CheckSuccess(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := New(srv.URL + "/assets/entry.wasm")
	if err := p.Check(context.Background()); err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if method != http.MethodHead {
		t.Errorf("probe used %s, want HEAD", method)
	}
}

func TestProber_CheckBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := New(srv.URL + "/assets/entry.wasm")
	err := p.Check(context.Background())
	if !gerrors.Is(err, &errors.Error{Phase: errors.PhaseProbe, Kind: errors.KindBadStatus}) {
		t.Fatalf("expected bad_status error, got %v", err)
	}
}

func TestProber_CheckUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := New(srv.URL + "/assets/entry.wasm")
	err := p.Check(context.Background())
	if !gerrors.Is(err, &errors.Error{Phase: errors.PhaseProbe, Kind: errors.KindUnreachable}) {
		t.Fatalf("expected unreachable error, got %v", err)
	}
}

func TestProber_CheckTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	p := New(srv.URL+"/assets/entry.wasm", WithTimeout(50*time.Millisecond))
	err := p.Check(context.Background())
	if !gerrors.Is(err, &errors.Error{Phase: errors.PhaseProbe, Kind: errors.KindUnreachable}) {
		t.Fatalf("expected unreachable error on timeout, got %v", err)
	}
}

func TestProber_RunResolvesState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var st State
	p := New(srv.URL + "/assets/entry.wasm")
	if got := p.Run(context.Background(), &st); got != StatusAvailable {
		t.Fatalf("Run = %v, want available", got)
	}
	if st.Status() != StatusAvailable {
		t.Fatalf("state = %v, want available", st.Status())
	}
}

func TestProber_RunFailureIsMonotonic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var st State
	p := New(srv.URL + "/assets/entry.wasm")
	if got := p.Run(context.Background(), &st); got != StatusUnavailable {
		t.Fatalf("Run = %v, want unavailable", got)
	}

	// Even a subsequent successful check must not flip the same mount's
	// state back to available.
	st.resolve(StatusAvailable)
	if st.Status() != StatusUnavailable {
		t.Fatal("state reverted to available within a mount lifetime")
	}
}
