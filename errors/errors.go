package errors

import (
	"fmt"
	"strings"
	"time"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseProbe   Phase = "probe"   // reachability check
	PhaseLoad    Phase = "load"    // capability resolution and loading
	PhaseRender  Phase = "render"  // capability render execution
	PhaseConfig  Phase = "config"  // configuration loading
	PhaseRuntime Phase = "runtime" // runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindUnreachable   Kind = "unreachable"
	KindBadStatus     Kind = "bad_status"
	KindTimeout       Kind = "timeout"
	KindTrap          Kind = "trap"
	KindInvalidBundle Kind = "invalid_bundle"
	KindMissingExport Kind = "missing_export"
	KindInvalidOutput Kind = "invalid_output"
	KindInvalidInput  Kind = "invalid_input"
	KindNotFound      Kind = "not_found"
	KindCanceled      Kind = "canceled"
	KindAllocation    Kind = "allocation"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	Capability string
	Endpoint   string
	Detail     string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Capability != "" {
		b.WriteString(" capability ")
		b.WriteString(e.Capability)
	}

	if e.Endpoint != "" {
		b.WriteString(" at ")
		b.WriteString(e.Endpoint)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Capability sets the capability name
func (b *Builder) Capability(name string) *Builder {
	b.err.Capability = name
	return b
}

// Endpoint sets the remote endpoint
func (b *Builder) Endpoint(url string) *Builder {
	b.err.Endpoint = url
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unreachable creates a probe failure error for a transport-level fault
func Unreachable(endpoint string, cause error) *Error {
	return &Error{
		Phase:    PhaseProbe,
		Kind:     KindUnreachable,
		Endpoint: endpoint,
		Cause:    cause,
	}
}

// BadStatus creates a probe failure error for a non-success HTTP status
func BadStatus(endpoint string, status int) *Error {
	return &Error{
		Phase:    PhaseProbe,
		Kind:     KindBadStatus,
		Endpoint: endpoint,
		Detail:   fmt.Sprintf("status %d", status),
		Value:    status,
	}
}

// Timeout creates a load timeout error
func Timeout(capability string, after time.Duration) *Error {
	return &Error{
		Phase:      PhaseLoad,
		Kind:       KindTimeout,
		Capability: capability,
		Detail:     fmt.Sprintf("load exceeded %s", after),
	}
}

// Trap creates a guest execution failure error
func Trap(capability string, cause error) *Error {
	return &Error{
		Phase:      PhaseRender,
		Kind:       KindTrap,
		Capability: capability,
		Cause:      cause,
	}
}

// InvalidBundle creates a malformed bundle error
func InvalidBundle(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidBundle,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingExport creates an error for a bundle lacking a required export
func MissingExport(capability, export string) *Error {
	return &Error{
		Phase:      PhaseLoad,
		Kind:       KindMissingExport,
		Capability: capability,
		Detail:     fmt.Sprintf("required export %q not found", export),
	}
}

// InvalidOutput creates an error for malformed guest render output
func InvalidOutput(capability, detail string) *Error {
	return &Error{
		Phase:      PhaseRender,
		Kind:       KindInvalidOutput,
		Capability: capability,
		Detail:     detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Canceled creates an error for an operation abandoned by unmount
func Canceled(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCanceled,
		Detail: detail,
	}
}

// AllocationFailed creates a guest allocation failure error
func AllocationFailed(capability string, size uint32) *Error {
	return &Error{
		Phase:      PhaseRender,
		Kind:       KindAllocation,
		Capability: capability,
		Detail:     fmt.Sprintf("failed to allocate %d bytes in guest memory", size),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
