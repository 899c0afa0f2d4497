// Package capabilityhost implements the control plane of a dynamic
// plugin-loading runtime: a host that renders interactive capabilities
// either from a remotely served WebAssembly bundle or from a built-in
// local fallback.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	capabilityhost/      Root package with the capability contract types
//	├── host/            Composition layer: mounts, render decision procedure
//	├── probe/           Reachability probe against the remote entry point
//	├── loader/          Timed capability loading and resolver abstractions
//	├── boundary/        Failure isolation around remote renders
//	├── fallback/        Always-available local capability implementation
//	├── engine/          wazero integration for guest capability bundles
//	├── provider/        Remote side: HTTP serving of the bundle entry point
//	├── config/          YAML configuration for host and provider
//	└── errors/          Structured error types for diagnostics
//
// # Quick Start
//
// Mount a capability and render it:
//
//	h, err := host.New(host.Config{
//	    Capability: "remote/Button",
//	    EntryURL:   "http://localhost:5001/assets/entry.wasm",
//	    Resolver:   resolver,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m := h.Mount(ctx)
//	defer m.Unmount()
//
//	out := m.Await(ctx, capabilityhost.Descriptor{Text: "Save"})
//	fmt.Println(out.Label) // "Save" from the remote, "Save (Local)" otherwise
//
// # Loading Protocol
//
// A mount consults the availability probe, attempts one timed load of the
// remote capability, and guards the remote render with an isolation
// boundary. Any failure at any stage (unreachable provider, load timeout,
// guest trap) degrades to the fallback; end users always get a working
// element. The probe fires once per mount, the load fires once per mount,
// and a boundary that has observed a failure stays failed until remount.
//
// # Guest ABI
//
// Remote bundles are core WebAssembly modules exporting:
//
//	memory                               linear memory
//	alloc(size: i32) -> i32              guest allocator
//	render(ptr: i32, len: i32) -> i64    descriptor JSON in, packed ptr/len out
//
// The host lowers the descriptor as JSON into guest memory and lifts the
// returned UTF-8 markup; the returned i64 packs the result pointer in the
// high 32 bits and the byte length in the low 32 bits.
//
// # Thread Safety
//
// Host is safe for concurrent use. A Mount is owned by a single rendering
// goroutine; its interaction with the asynchronous probe and load results
// is internally synchronized.
package capabilityhost
