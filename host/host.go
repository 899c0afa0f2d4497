// Package host is the composition layer of the capability runtime. It
// decides, per render, whether a mounted capability comes from the remote
// provider or from the local fallback, mediating between the availability
// probe, the timed loader, and the isolation boundary.
package host

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	capabilityhost "github.com/wippyai/capability-host"
	"github.com/wippyai/capability-host/errors"
	"github.com/wippyai/capability-host/fallback"
	"github.com/wippyai/capability-host/loader"
	"github.com/wippyai/capability-host/probe"
)

// Config wires a Host.
type Config struct {
	// Capability is the named unit to load, e.g. "remote/Button".
	Capability string

	// EntryURL is the remote bundle entry point probed for reachability.
	EntryURL string

	// Resolver locates the remote implementation. Required.
	Resolver loader.Resolver

	// Fallback substitutes the remote capability on any failure.
	// Defaults to the built-in local button.
	Fallback capabilityhost.Capability

	// HTTPClient is used by the availability probe. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// LoadTimeout bounds one load attempt. Defaults to loader.DefaultTimeout.
	LoadTimeout time.Duration

	// ProbeTimeout bounds one reachability check. Defaults to
	// probe.DefaultTimeout.
	ProbeTimeout time.Duration

	// Logger receives warnings and diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Host holds the process-wide wiring for one capability: prober, loader,
// and fallback. It is safe for concurrent use; each UI location mounts its
// own instance via Mount.
type Host struct {
	prober     *probe.Prober
	loader     *loader.Loader
	fallback   capabilityhost.Capability
	log        *zap.Logger
	capability string
}

// New validates cfg and builds a Host.
func New(cfg Config) (*Host, error) {
	if cfg.Capability == "" {
		return nil, errors.InvalidInput(errors.PhaseRuntime, "capability name is required")
	}
	if cfg.Resolver == nil {
		return nil, errors.InvalidInput(errors.PhaseRuntime, "resolver is required")
	}
	if cfg.EntryURL == "" {
		return nil, errors.InvalidInput(errors.PhaseRuntime, "entry URL is required")
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fb := cfg.Fallback
	if fb == nil {
		fb = fallback.New()
	}

	probeOpts := []probe.Option{probe.WithLogger(log)}
	if cfg.HTTPClient != nil {
		probeOpts = append(probeOpts, probe.WithClient(cfg.HTTPClient))
	}
	if cfg.ProbeTimeout > 0 {
		probeOpts = append(probeOpts, probe.WithTimeout(cfg.ProbeTimeout))
	}

	loadOpts := []loader.Option{loader.WithLogger(log)}
	if cfg.LoadTimeout > 0 {
		loadOpts = append(loadOpts, loader.WithTimeout(cfg.LoadTimeout))
	}

	return &Host{
		prober:     probe.New(cfg.EntryURL, probeOpts...),
		loader:     loader.New(cfg.Resolver, loadOpts...),
		fallback:   fb,
		log:        log,
		capability: cfg.Capability,
	}, nil
}

// Capability returns the capability name this host serves.
func (h *Host) Capability() string {
	return h.capability
}
