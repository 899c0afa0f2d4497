package loader

import (
	"context"
	"sync"

	capabilityhost "github.com/wippyai/capability-host"
	"github.com/wippyai/capability-host/errors"
)

// Registry is an in-process Resolver for locally registered capabilities.
// It backs tests and embedded deployments where no remote provider exists.
type Registry struct {
	mu   sync.RWMutex
	caps map[string]capabilityhost.Capability
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]capabilityhost.Capability)}
}

// Register binds a capability implementation to a name.
// Registering a name twice is an error.
func (r *Registry) Register(name string, c capabilityhost.Capability) error {
	if name == "" {
		return errors.InvalidInput(errors.PhaseLoad, "capability name must not be empty")
	}
	if c == nil {
		return errors.InvalidInput(errors.PhaseLoad, "capability must not be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.caps[name]; exists {
		return errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Capability(name).
			Detail("capability already registered").
			Build()
	}
	r.caps[name] = c
	return nil
}

// Resolve implements Resolver.
func (r *Registry) Resolve(_ context.Context, name string) (capabilityhost.Capability, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caps[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseLoad, "capability", name)
	}
	return c, nil
}
