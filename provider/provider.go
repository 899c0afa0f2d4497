// Package provider implements the remote side of the protocol: an HTTP
// server exposing a capability bundle at a well-known entry path. The
// entry path answers HEAD for the host's reachability probe and GET for
// the bundle fetch.
package provider

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/capability-host/errors"
)

// DefaultEntryPath is where hosts expect the bundle to be served.
const DefaultEntryPath = "/assets/entry.wasm"

// Config wires a Provider.
type Config struct {
	// Addr is the listen address, e.g. ":5001".
	Addr string

	// EntryPath overrides the bundle path. Defaults to DefaultEntryPath.
	EntryPath string

	// Bundle is the capability bundle served at the entry path. Required.
	Bundle []byte

	// Logger receives access diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Provider serves a capability bundle to hosts.
type Provider struct {
	log       *zap.Logger
	srv       *http.Server
	addr      string
	entryPath string
	bundle    []byte
}

// New validates cfg and builds a Provider.
func New(cfg Config) (*Provider, error) {
	if len(cfg.Bundle) == 0 {
		return nil, errors.InvalidInput(errors.PhaseConfig, "bundle is required")
	}

	entryPath := cfg.EntryPath
	if entryPath == "" {
		entryPath = DefaultEntryPath
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Provider{
		log:       log,
		addr:      cfg.Addr,
		entryPath: entryPath,
		bundle:    cfg.Bundle,
	}, nil
}

// EntryPath returns the path the bundle is served at.
func (p *Provider) EntryPath() string {
	return p.entryPath
}

// Handler returns the provider's HTTP handler. HEAD on the entry path is
// the reachability probe contract; GET delivers the bundle.
func (p *Provider) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(p.entryPath, p.serveBundle)
	return mux
}

func (p *Provider) serveBundle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodHead:
		w.Header().Set("Content-Type", "application/wasm")
		w.Header().Set("Content-Length", strconv.Itoa(len(p.bundle)))
		w.WriteHeader(http.StatusOK)
		p.log.Debug("answered reachability probe",
			zap.String("remote", r.RemoteAddr))

	case http.MethodGet:
		w.Header().Set("Content-Type", "application/wasm")
		w.Header().Set("Content-Length", strconv.Itoa(len(p.bundle)))
		if _, err := w.Write(p.bundle); err != nil {
			p.log.Warn("bundle delivery interrupted",
				zap.String("remote", r.RemoteAddr),
				zap.Error(err))
			return
		}
		p.log.Debug("served bundle",
			zap.String("remote", r.RemoteAddr),
			zap.Int("bytes", len(p.bundle)))

	default:
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ListenAndServe starts serving and blocks until ctx is cancelled or the
// listener fails. Shutdown drains in-flight requests briefly.
func (p *Provider) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", p.addr)
	if err != nil {
		return errors.Wrap(errors.PhaseRuntime, errors.KindUnreachable, err, "provider listen failed")
	}

	p.srv = &http.Server{
		Handler:           p.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	p.log.Info("provider serving bundle",
		zap.String("addr", ln.Addr().String()),
		zap.String("entry_path", p.entryPath),
		zap.Int("bundle_bytes", len(p.bundle)))

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return p.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
