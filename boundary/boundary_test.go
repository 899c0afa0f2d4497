package boundary

import (
	"context"
	gerrors "errors"
	"testing"

	capabilityhost "github.com/wippyai/capability-host"
	"github.com/wippyai/capability-host/errors"
)

type renderFunc func(ctx context.Context, d capabilityhost.Descriptor) (capabilityhost.Rendered, error)

func (f renderFunc) Render(ctx context.Context, d capabilityhost.Descriptor) (capabilityhost.Rendered, error) {
	return f(ctx, d)
}

var substitute = renderFunc(func(_ context.Context, d capabilityhost.Descriptor) (capabilityhost.Rendered, error) {
	return capabilityhost.Rendered{
		Label:   d.Text + " (Local)",
		Source:  capabilityhost.SourceLocal,
		OnClick: d.OnClick,
	}, nil
})

func TestBoundary_HealthyRendersPrimary(t *testing.T) {
	primary := renderFunc(func(_ context.Context, d capabilityhost.Descriptor) (capabilityhost.Rendered, error) {
		return capabilityhost.Rendered{Label: d.Text, Source: capabilityhost.SourceRemote}, nil
	})

	b := New("remote/Button", substitute)
	out := b.Render(context.Background(), primary, capabilityhost.Descriptor{Text: "Save"})

	if out.Source != capabilityhost.SourceRemote {
		t.Fatalf("Source = %q, want remote", out.Source)
	}
	if b.State() != StateHealthy {
		t.Fatalf("State = %v, want healthy", b.State())
	}
}

func TestBoundary_ErrorTripsToFailed(t *testing.T) {
	calls := 0
	primary := renderFunc(func(_ context.Context, d capabilityhost.Descriptor) (capabilityhost.Rendered, error) {
		calls++
		return capabilityhost.Rendered{}, errors.Trap("remote/Button", gerrors.New("guest trapped"))
	})

	b := New("remote/Button", substitute)
	d := capabilityhost.Descriptor{Text: "Save"}

	out := b.Render(context.Background(), primary, d)
	if out.Source != capabilityhost.SourceLocal {
		t.Fatalf("Source = %q, want local", out.Source)
	}
	if out.Label != "Save (Local)" {
		t.Fatalf("Label = %q, want %q", out.Label, "Save (Local)")
	}
	if b.State() != StateFailed {
		t.Fatalf("State = %v, want failed", b.State())
	}

	// The failed state is terminal: the primary is never re-attempted.
	for i := 0; i < 3; i++ {
		out = b.Render(context.Background(), primary, d)
		if out.Source != capabilityhost.SourceLocal {
			t.Fatalf("render %d: Source = %q, want local", i, out.Source)
		}
	}
	if calls != 1 {
		t.Fatalf("primary rendered %d times, want exactly 1", calls)
	}
}

func TestBoundary_PanicIsConfined(t *testing.T) {
	primary := renderFunc(func(_ context.Context, d capabilityhost.Descriptor) (capabilityhost.Rendered, error) {
		panic("remote markup exploded")
	})

	b := New("remote/Button", substitute)

	// Must not propagate the panic.
	out := b.Render(context.Background(), primary, capabilityhost.Descriptor{Text: "Save"})
	if out.Source != capabilityhost.SourceLocal {
		t.Fatalf("Source = %q, want local", out.Source)
	}
	if b.State() != StateFailed {
		t.Fatalf("State = %v, want failed", b.State())
	}
}

func TestBoundary_NilPrimaryTrips(t *testing.T) {
	b := New("remote/Button", substitute)
	out := b.Render(context.Background(), nil, capabilityhost.Descriptor{Text: "Save"})
	if out.Source != capabilityhost.SourceLocal {
		t.Fatalf("Source = %q, want local", out.Source)
	}
}

func TestBoundary_RemountRecoversByConstruction(t *testing.T) {
	primary := renderFunc(func(_ context.Context, d capabilityhost.Descriptor) (capabilityhost.Rendered, error) {
		return capabilityhost.Rendered{Label: d.Text, Source: capabilityhost.SourceRemote}, nil
	})

	old := New("remote/Button", substitute)
	old.trip(gerrors.New("previous failure"))

	// A fresh boundary (remount) starts healthy and renders the primary.
	fresh := New("remote/Button", substitute)
	out := fresh.Render(context.Background(), primary, capabilityhost.Descriptor{Text: "Save"})
	if out.Source != capabilityhost.SourceRemote {
		t.Fatalf("Source = %q, want remote", out.Source)
	}
}

func TestState_String(t *testing.T) {
	if StateHealthy.String() != "healthy" || StateFailed.String() != "failed" {
		t.Error("unexpected State string values")
	}
}
