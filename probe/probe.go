// Package probe implements the reachability check against the remote
// bundle entry point. A probe pre-qualifies whether a dynamic load should
// be attempted at all; it runs once per mount and never blocks rendering.
package probe

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/capability-host/errors"
)

// DefaultTimeout bounds a single reachability check.
const DefaultTimeout = 1 * time.Second

// Prober issues HEAD requests against a fixed remote entry URL.
// It is safe for concurrent use.
type Prober struct {
	client  *http.Client
	log     *zap.Logger
	url     string
	timeout time.Duration
}

// Option configures a Prober.
type Option func(*Prober)

// WithClient overrides the HTTP client used for checks.
func WithClient(c *http.Client) Option {
	return func(p *Prober) { p.client = c }
}

// WithTimeout overrides the per-check timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) { p.timeout = d }
}

// WithLogger installs a logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Prober) { p.log = l }
}

// New creates a prober for the given entry URL.
func New(entryURL string, opts ...Option) *Prober {
	p := &Prober{
		client:  http.DefaultClient,
		log:     zap.NewNop(),
		url:     entryURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// URL returns the probed entry URL.
func (p *Prober) URL() string {
	return p.url
}

// Check performs one HEAD request against the entry URL. It returns nil
// when the remote answered with a success status. Transport errors and
// non-2xx statuses are both classified unreachable; finer-grained
// classification is intentionally not attempted.
func (p *Prober) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return errors.Unreachable(p.url, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Unreachable(p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.BadStatus(p.url, resp.StatusCode)
	}
	return nil
}

// Run performs the check and resolves st with the result, returning the
// resulting status. It is meant to run on its own goroutine: the caller's
// render path keeps using the optimistic default until st resolves.
// Failures are logged at warn level.
func (p *Prober) Run(ctx context.Context, st *State) Status {
	if err := p.Check(ctx); err != nil {
		p.log.Warn("remote entry point unreachable, falling back to local capability",
			zap.String("url", p.url),
			zap.Error(err))
		st.resolve(StatusUnavailable)
	} else {
		st.resolve(StatusAvailable)
	}
	return st.Status()
}
