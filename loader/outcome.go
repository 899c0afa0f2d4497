package loader

import capabilityhost "github.com/wippyai/capability-host"

// OutcomeKind tags the result of one load attempt.
type OutcomeKind int

const (
	OutcomeLoaded OutcomeKind = iota
	OutcomeFailed
	OutcomeTimedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeLoaded:
		return "loaded"
	case OutcomeFailed:
		return "failed"
	default:
		return "timed_out"
	}
}

// Outcome is the tagged result of a load attempt. It is produced once per
// attempt and never retried within a mount.
type Outcome struct {
	Handle capabilityhost.Capability
	Err    error
	Kind   OutcomeKind
}

// Loaded wraps a usable capability handle.
func Loaded(h capabilityhost.Capability) Outcome {
	return Outcome{Kind: OutcomeLoaded, Handle: h}
}

// Failed wraps a load failure.
func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Err: err}
}

// TimedOut marks an attempt abandoned by the load timeout.
func TimedOut() Outcome {
	return Outcome{Kind: OutcomeTimedOut}
}
