// Package engine provides the low-level WebAssembly execution layer for
// remote capability bundles.
//
// This package wraps wazero to compile a fetched bundle and run its render
// export inside a sandbox. A guest failure (trap, bad output, exhausted
// memory) surfaces as a structured error; it never escapes as a panic, so
// callers above the isolation boundary stay unaffected.
//
// # Architecture
//
// The engine package provides three main types:
//
//	Engine  - Creates and manages the wazero runtime
//	Bundle  - Represents a compiled capability bundle, can create guests
//	Guest   - An instantiated guest capability implementing the render contract
//
// # Guest ABI
//
// A capability bundle is a core WebAssembly module exporting:
//
//	memory                               linear memory
//	alloc(size: i32) -> i32              guest allocator
//	render(ptr: i32, len: i32) -> i64    render entry point
//
// The host lowers the capability descriptor as JSON into guest memory via
// alloc, invokes render, and lifts the returned UTF-8 markup. The i64
// result packs the output pointer in the high 32 bits and the byte length
// in the low 32 bits. A zero result means the guest declined to render.
//
// # Thread Safety
//
// Engine and Bundle are safe for concurrent use. Guest is NOT thread-safe
// and should be used by a single goroutine.
package engine
