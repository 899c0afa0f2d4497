// Package errors provides structured error types for the capability-host library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: the capability name, the
// remote endpoint, and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindInvalidBundle).
//		Capability("remote/Button").
//		Endpoint("http://localhost:5001/assets/entry.wasm").
//		Detail("bundle is not a wasm binary").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Timeout("remote/Button", 3*time.Second)
//	err := errors.Unreachable(entryURL, cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
