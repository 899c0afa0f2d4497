package engine

import (
	"context"

	"github.com/wippyai/capability-host/errors"
)

// lowerBytes allocates guest memory via the guest allocator and writes data
// into it, returning the guest pointer. Guest memory only grows, so there
// is nothing to free; short-lived guests reclaim everything on Close.
func lowerBytes(ctx context.Context, g *Guest, data []byte) (uint32, error) {
	size := uint32(len(data))

	results, err := g.alloc.Call(ctx, uint64(size))
	if err != nil {
		return 0, errors.Trap(g.capability, err)
	}
	if len(results) != 1 {
		return 0, errors.AllocationFailed(g.capability, size)
	}

	ptr := uint32(results[0])
	if ptr == 0 {
		return 0, errors.AllocationFailed(g.capability, size)
	}

	if !g.module.Memory().Write(ptr, data) {
		return 0, errors.InvalidOutput(g.capability, "alloc returned pointer outside guest memory")
	}
	return ptr, nil
}

// liftBytes reads the region addressed by a packed render result out of
// guest memory. The pointer sits in the high 32 bits, the length in the
// low 32 bits.
func liftBytes(g *Guest, packed uint64) ([]byte, error) {
	if packed == 0 {
		return nil, errors.InvalidOutput(g.capability, "guest declined to render")
	}

	ptr := uint32(packed >> 32)
	length := uint32(packed)

	data, ok := g.module.Memory().Read(ptr, length)
	if !ok {
		return nil, errors.InvalidOutput(g.capability, "render result outside guest memory")
	}

	// Copy out: the wazero view aliases guest memory and is invalidated
	// by the next guest call.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
