// Package loader attempts to obtain a named capability from an external
// source, bounded by a fixed timeout. Resolution itself is pluggable: the
// core never depends on how an implementation is located, only on the
// Resolver contract.
package loader

import (
	"context"
	"time"

	"go.uber.org/zap"

	capabilityhost "github.com/wippyai/capability-host"
	"github.com/wippyai/capability-host/errors"
)

// DefaultTimeout bounds one load attempt. The consumer never waits longer
// than this before falling back.
const DefaultTimeout = 3000 * time.Millisecond

// Resolver locates an implementation for a named capability. How that
// happens (a local registry, a remote bundle fetch) is up to the
// implementation.
type Resolver interface {
	Resolve(ctx context.Context, name string) (capabilityhost.Capability, error)
}

// Loader races capability resolution against the timeout.
type Loader struct {
	resolver Resolver
	log      *zap.Logger
	timeout  time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithTimeout overrides the load timeout.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// WithLogger installs a logger. The default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New creates a loader on top of a resolver.
func New(r Resolver, opts ...Option) *Loader {
	l := &Loader{
		resolver: r,
		log:      zap.NewNop(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load performs one resolution attempt for the named capability and
// returns its tagged outcome. If the timeout fires first the attempt is
// abandoned, not aborted: the resolver keeps running detached from ctx
// and its late result is discarded. Cancelling ctx (unmount) likewise
// abandons the attempt.
func (l *Loader) Load(ctx context.Context, name string) Outcome {
	type result struct {
		handle capabilityhost.Capability
		err    error
	}

	// Buffered so the abandoned resolver can complete and be collected
	// even after nobody is listening.
	done := make(chan result, 1)

	// The resolver intentionally does not inherit cancellation: a timed
	// out load is abandoned, not aborted at the network layer. The
	// outcome of an abandoned attempt is collected and discarded.
	resolveCtx := context.WithoutCancel(ctx)
	go func() {
		handle, err := l.resolver.Resolve(resolveCtx, name)
		done <- result{handle: handle, err: err}
	}()

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			l.log.Warn("capability load failed, falling back to local capability",
				zap.String("capability", name),
				zap.Error(r.err))
			return Failed(r.err)
		}
		l.log.Debug("capability loaded",
			zap.String("capability", name))
		return Loaded(r.handle)

	case <-timer.C:
		l.log.Warn("capability load timed out, falling back to local capability",
			zap.String("capability", name),
			zap.Duration("timeout", l.timeout))
		return TimedOut()

	case <-ctx.Done():
		return Failed(errors.Canceled(errors.PhaseLoad, "consumer unmounted during load"))
	}
}

// Timeout returns the configured load timeout.
func (l *Loader) Timeout() time.Duration {
	return l.timeout
}
