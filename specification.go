// specification.go implements the program-facing assertion/monitor
// invocation surface: Specification tracks every registered Monitor and
// fans an actor's Monitor(evt) calls out to each one synchronously, and
// provides the top-level Assert used by both actors and the runtime
// itself.
package weave

import "fmt"

// Specification owns every Monitor registered for one run and the
// dispatch surface an Actor's program-facing Monitor/Assert calls go
// through.
type Specification struct {
	monitors []*Monitor
	hooks    *Hooks
}

// NewSpecification builds an empty Specification.
func NewSpecification(hooks *Hooks) *Specification {
	return &Specification{hooks: hooks}
}

// RegisterMonitor adds m to the set dispatched to by Monitor(evt).
func (s *Specification) RegisterMonitor(m *Monitor) {
	m.SetHooks(s.hooks)
	s.monitors = append(s.monitors, m)
	s.hooks.fireCreateMonitor(m.Type)
}

// Monitors returns every registered monitor, for liveness checking at the
// end of an iteration.
func (s *Specification) Monitors() []*Monitor {
	return s.monitors
}

// Dispatch fans evt out to every registered monitor, in registration
// order, synchronously on the caller's goroutine (a monitor never
// suspends and never introduces a scheduling point).
func (s *Specification) Dispatch(evt Event) error {
	for _, m := range s.monitors {
		if err := m.ProcessEvent(evt); err != nil {
			return err
		}
	}
	return nil
}

// Assert is the free-standing assertion surface (also exposed as
// Actor.Assert for convenience from within an action): cond false raises
// a KindAssertionFailure RuntimeError, ending the iteration as a found
// bug.
func Assert(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return newRuntimeError(KindAssertionFailure, nil, "%s", fmt.Sprintf(format, args...))
}

// LivenessViolations reports every currently-hot monitor, the set an
// iteration ending under a fair strategy must be empty for (otherwise
// each is a KindLivenessViolation).
func (s *Specification) LivenessViolations() []*Monitor {
	var hot []*Monitor
	for _, m := range s.monitors {
		if m.IsHot() {
			hot = append(hot, m)
		}
	}
	return hot
}
