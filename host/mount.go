package host

import (
	"context"
	"fmt"
	"html"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	capabilityhost "github.com/wippyai/capability-host"
	"github.com/wippyai/capability-host/boundary"
	"github.com/wippyai/capability-host/loader"
	"github.com/wippyai/capability-host/probe"
)

// Mount is one mounted instance of the capability. It owns the
// availability state for its lifetime and the descriptor for the duration
// of each render pass. The availability probe fires exactly once at mount
// time; the load fires at most once, on the first render that takes the
// remote path. Retries require a fresh mount.
type Mount struct {
	host     *Host
	log      *zap.Logger
	boundary *boundary.Boundary
	ctx      context.Context
	cancel   context.CancelFunc
	onUpdate func()

	id        string
	avail     probe.State
	loadOnce  sync.Once
	outcome   atomic.Pointer[loader.Outcome]
	unmounted atomic.Bool
	signal    chan struct{}
}

// MountOption configures a Mount.
type MountOption func(*Mount)

// WithOnUpdate registers a callback invoked when an asynchronous result
// (probe or load) lands and the caller should re-render. It is never
// invoked after Unmount.
func WithOnUpdate(fn func()) MountOption {
	return func(m *Mount) { m.onUpdate = fn }
}

// Mount creates a mounted instance and fires the availability probe. The
// probe is fire-and-forget: the first render proceeds optimistically while
// the check is in flight.
func (h *Host) Mount(ctx context.Context, opts ...MountOption) *Mount {
	mctx, cancel := context.WithCancel(ctx)

	m := &Mount{
		host:   h,
		ctx:    mctx,
		cancel: cancel,
		id:     uuid.NewString(),
		signal: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.log = h.log.With(
		zap.String("mount_id", m.id),
		zap.String("capability", h.capability))
	m.boundary = boundary.New(h.capability, h.fallback, boundary.WithLogger(m.log))

	go func() {
		status := h.prober.Run(mctx, &m.avail)
		m.log.Debug("availability probe resolved", zap.Stringer("status", status))
		m.notify()
	}()

	return m
}

// ID returns the mount's correlation id.
func (m *Mount) ID() string {
	return m.id
}

// Availability returns the mount's availability state.
func (m *Mount) Availability() probe.Status {
	return m.avail.Status()
}

// Outcome returns the load outcome, if one has landed.
func (m *Mount) Outcome() (loader.Outcome, bool) {
	out := m.outcome.Load()
	if out == nil {
		return loader.Outcome{}, false
	}
	return *out, true
}

// Unmount releases the mount. Late probe or load results are discarded
// silently; they never touch an unmounted instance's callers.
func (m *Mount) Unmount() {
	if m.unmounted.CompareAndSwap(false, true) {
		m.cancel()
	}
}

// Render evaluates the decision procedure for one render pass:
//
//	unavailable           -> fallback
//	load pending          -> loading placeholder
//	loaded                -> remote render inside the isolation boundary
//	failed or timed out   -> fallback
//
// Re-renders with a changed descriptor re-evaluate the decision but never
// re-probe or re-load.
func (m *Mount) Render(ctx context.Context, d capabilityhost.Descriptor) capabilityhost.Rendered {
	if m.avail.Status() == probe.StatusUnavailable {
		return m.renderFallback(ctx, d)
	}

	m.loadOnce.Do(func() {
		go m.load()
	})

	out := m.outcome.Load()
	if out == nil {
		return placeholder(d)
	}

	switch out.Kind {
	case loader.OutcomeLoaded:
		return m.boundary.Render(ctx, out.Handle, d)
	default:
		return m.renderFallback(ctx, d)
	}
}

// Await renders until the mount settles on remote or fallback output, or
// ctx expires. It exists for callers without their own event loop; UI
// callers should render the placeholder and re-render on the update
// callback instead.
func (m *Mount) Await(ctx context.Context, d capabilityhost.Descriptor) capabilityhost.Rendered {
	for {
		out := m.Render(ctx, d)
		if out.Source != capabilityhost.SourcePlaceholder {
			return out
		}
		select {
		case <-m.signal:
		case <-ctx.Done():
			return out
		case <-m.ctx.Done():
			return out
		}
	}
}

// load performs the single load attempt for this mount.
func (m *Mount) load() {
	out := m.host.loader.Load(m.ctx, m.host.capability)
	if m.unmounted.Load() {
		// Discarded: a late result must not update an unmounted instance.
		m.log.Debug("discarding load result after unmount",
			zap.Stringer("outcome", out.Kind))
		return
	}
	m.outcome.CompareAndSwap(nil, &out)
	m.notify()
}

// notify wakes Await and fires the update callback. Best-effort: a signal
// already pending is enough.
func (m *Mount) notify() {
	if m.unmounted.Load() {
		return
	}
	select {
	case m.signal <- struct{}{}:
	default:
	}
	if m.onUpdate != nil {
		m.onUpdate()
	}
}

func (m *Mount) renderFallback(ctx context.Context, d capabilityhost.Descriptor) capabilityhost.Rendered {
	out, err := m.host.fallback.Render(ctx, d)
	if err != nil {
		// The fallback contract forbids failure.
		m.log.Error("fallback render failed", zap.Error(err))
		return capabilityhost.Rendered{
			Label:  fmt.Sprintf("%s (unavailable)", d.Text),
			Source: capabilityhost.SourceLocal,
		}
	}
	return out
}

// placeholder is the transient output shown while the load is pending.
// It is intentionally inert: no click callback until an implementation
// lands.
func placeholder(d capabilityhost.Descriptor) capabilityhost.Rendered {
	return capabilityhost.Rendered{
		Label:  d.Text,
		Markup: fmt.Sprintf(`<button class="placeholder" disabled>%s…</button>`, html.EscapeString(d.Text)),
		Source: capabilityhost.SourcePlaceholder,
	}
}
