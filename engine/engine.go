package engine

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/capability-host/errors"
)

// Engine wraps a wazero runtime used to execute capability bundles
type Engine struct {
	runtime wazero.Runtime
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per guest in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB
	MemoryLimitPages uint32
}

// New creates a new wazero-based engine
func New(ctx context.Context) (*Engine, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates a new engine with custom configuration
func NewWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return &Engine{runtime: runtime}, nil
}

// Close releases all engine resources.
// All guests must be closed before calling this.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// LoadBundle compiles a capability bundle.
// The bundle must be a core WebAssembly module; components are not supported.
func (e *Engine) LoadBundle(ctx context.Context, wasm []byte) (*Bundle, error) {
	if !isCoreModule(wasm) {
		return nil, errors.InvalidBundle("not a core wasm module", nil)
	}

	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.InvalidBundle("compile failed", err)
	}

	return &Bundle{
		engine:   e,
		compiled: compiled,
	}, nil
}

// isCoreModule checks the wasm magic and the core module version header.
func isCoreModule(wasm []byte) bool {
	if len(wasm) < 8 {
		return false
	}
	if wasm[0] != 0x00 || wasm[1] != 0x61 || wasm[2] != 0x73 || wasm[3] != 0x6d {
		return false
	}
	// Core modules carry version 1, layer 0. Component binaries use a
	// different layer byte and are rejected here.
	return wasm[4] == 0x01 && wasm[5] == 0x00 && wasm[6] == 0x00 && wasm[7] == 0x00
}
