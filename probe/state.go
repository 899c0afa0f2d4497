package probe

import "sync/atomic"

// Status is the three-valued availability of the remote provider.
// A mount starts optimistic: StatusUnknown renders the remote path while
// the check is in flight.
type Status int32

const (
	StatusUnknown Status = iota
	StatusAvailable
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// State holds the availability of one mount. It resolves exactly once:
// the first probe result wins and the status never reverts within the
// mount's lifetime. The zero value is ready to use.
type State struct {
	v atomic.Int32
}

// Status returns the current availability.
func (s *State) Status() Status {
	return Status(s.v.Load())
}

// Resolved reports whether the probe result has landed.
func (s *State) Resolved() bool {
	return s.Status() != StatusUnknown
}

// resolve records the probe result. Only the first call has any effect.
func (s *State) resolve(st Status) {
	s.v.CompareAndSwap(int32(StatusUnknown), int32(st))
}
