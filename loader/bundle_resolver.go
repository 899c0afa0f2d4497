package loader

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	capabilityhost "github.com/wippyai/capability-host"
	"github.com/wippyai/capability-host/engine"
	"github.com/wippyai/capability-host/errors"
)

// maxBundleBytes caps how much a provider response is allowed to carry.
const maxBundleBytes = 32 << 20

// BundleResolver resolves capabilities by fetching the remote bundle from
// the provider's entry URL and instantiating it in the engine. The fetch
// runs behind a circuit breaker so repeated mounts against a dead provider
// fail fast; each individual mount still makes at most one attempt.
type BundleResolver struct {
	engine   *engine.Engine
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	log      *zap.Logger
	entryURL string
}

// BundleOption configures a BundleResolver.
type BundleOption func(*BundleResolver)

// WithHTTPClient overrides the HTTP client used for bundle fetches.
func WithHTTPClient(c *http.Client) BundleOption {
	return func(r *BundleResolver) { r.client = c }
}

// WithBundleLogger installs a logger. The default is a no-op logger.
func WithBundleLogger(log *zap.Logger) BundleOption {
	return func(r *BundleResolver) { r.log = log }
}

// NewBundleResolver creates a resolver fetching from the given entry URL.
func NewBundleResolver(eng *engine.Engine, entryURL string, opts ...BundleOption) *BundleResolver {
	r := &BundleResolver{
		engine:   eng,
		client:   http.DefaultClient,
		log:      zap.NewNop(),
		entryURL: entryURL,
	}
	for _, opt := range opts {
		opt(r)
	}

	// Trip after 3 consecutive failed fetches, retry after 30 seconds in
	// the open state.
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "bundle-fetch",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.log.Warn("bundle fetch breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return r
}

// Resolve implements Resolver: fetch, compile, instantiate.
func (r *BundleResolver) Resolve(ctx context.Context, name string) (capabilityhost.Capability, error) {
	wasm, err := r.fetch(ctx)
	if err != nil {
		return nil, err
	}

	bundle, err := r.engine.LoadBundle(ctx, wasm)
	if err != nil {
		return nil, err
	}

	guest, err := bundle.Instantiate(ctx, name)
	if err != nil {
		return nil, err
	}

	r.log.Debug("remote bundle instantiated",
		zap.String("capability", name),
		zap.String("url", r.entryURL),
		zap.Int("bundle_bytes", len(wasm)))
	return guest, nil
}

func (r *BundleResolver) fetch(ctx context.Context) ([]byte, error) {
	body, err := r.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.entryURL, nil)
		if err != nil {
			return nil, errors.Unreachable(r.entryURL, err)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindUnreachable, err, "bundle fetch failed")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, errors.New(errors.PhaseLoad, errors.KindBadStatus).
				Endpoint(r.entryURL).
				Detail("status %d", resp.StatusCode).
				Build()
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBundleBytes+1))
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindUnreachable, err, "bundle read failed")
		}
		if len(data) > maxBundleBytes {
			return nil, errors.InvalidBundle("bundle exceeds size limit", nil)
		}
		return data, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindUnreachable, err, "provider circuit open")
		}
		return nil, err
	}
	return body.([]byte), nil
}
