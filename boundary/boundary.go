// Package boundary confines failures raised while rendering a capability
// subtree. A tripped boundary renders the caller-supplied substitute from
// then on; the failing subtree never crashes the enclosing application.
package boundary

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"go.uber.org/zap"

	capabilityhost "github.com/wippyai/capability-host"
	"github.com/wippyai/capability-host/errors"
)

// State is the boundary's two-state machine.
type State int32

const (
	StateHealthy State = iota
	StateFailed
)

func (s State) String() string {
	if s == StateFailed {
		return "failed"
	}
	return "healthy"
}

// Boundary guards renders of a primary capability. The transition
// Healthy -> Failed is terminal: there is no in-place recovery, only a
// fresh Boundary (remount) re-attempts the primary.
//
// The boundary only confines failures raised inside Render. Failures in
// event handlers fired later by the caller (for example an OnClick
// panicking) happen outside the guarded subtree and are not caught; that
// limitation is inherent to the mechanism.
type Boundary struct {
	substitute capabilityhost.Capability
	log        *zap.Logger
	name       string
	failed     atomic.Bool
}

// Option configures a Boundary.
type Option func(*Boundary)

// WithLogger installs a logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Boundary) { b.log = l }
}

// New creates a healthy boundary that substitutes the given capability
// after a failure. The substitute is trusted to never fail; it must not
// depend on any network or dynamic resource.
func New(name string, substitute capabilityhost.Capability, opts ...Option) *Boundary {
	b := &Boundary{
		substitute: substitute,
		log:        zap.NewNop(),
		name:       name,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the boundary's current state.
func (b *Boundary) State() State {
	if b.failed.Load() {
		return StateFailed
	}
	return StateHealthy
}

// Render renders the primary capability inside the guard. Any error or
// panic from the primary trips the boundary; this render and every later
// one then comes from the substitute.
func (b *Boundary) Render(ctx context.Context, primary capabilityhost.Capability, d capabilityhost.Descriptor) capabilityhost.Rendered {
	if b.failed.Load() {
		return b.renderSubstitute(ctx, d)
	}

	out, err := b.guard(ctx, primary, d)
	if err != nil {
		b.trip(err)
		return b.renderSubstitute(ctx, d)
	}
	return out
}

// guard invokes the primary render, converting panics into errors.
func (b *Boundary) guard(ctx context.Context, primary capabilityhost.Capability, d capabilityhost.Descriptor) (out capabilityhost.Rendered, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.PhaseRender, errors.KindTrap).
				Capability(b.name).
				Detail("panic during render: %v", r).
				Value(string(debug.Stack())).
				Build()
		}
	}()

	if primary == nil {
		return out, errors.InvalidInput(errors.PhaseRender, "nil primary capability")
	}
	return primary.Render(ctx, d)
}

// trip moves the boundary to Failed. Only the first failure is logged;
// the transition happens at most once.
func (b *Boundary) trip(err error) {
	if b.failed.CompareAndSwap(false, true) {
		b.log.Error("capability render failed inside boundary, substituting local capability",
			zap.String("capability", b.name),
			zap.Error(err))
	}
}

func (b *Boundary) renderSubstitute(ctx context.Context, d capabilityhost.Descriptor) capabilityhost.Rendered {
	out, err := b.substitute.Render(ctx, d)
	if err != nil {
		// The substitute contract forbids failure; nothing further to
		// degrade to.
		b.log.Error("substitute capability failed",
			zap.String("capability", b.name),
			zap.Error(err))
		return capabilityhost.Rendered{
			Label:  fmt.Sprintf("%s (unavailable)", d.Text),
			Source: capabilityhost.SourceLocal,
		}
	}
	return out
}
