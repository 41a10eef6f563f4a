// monitor.go implements Monitor: a passive, synchronously-invoked
// observer with its own hot/cold-tagged state machine. Unlike an Actor, a
// Monitor has no inbox, no goroutine, and no scheduling point of its own —
// every monitor call runs to completion on the calling operation's
// goroutine, which is why Monitor gets its own small state type instead
// of reusing StateStack's Actor-bound ActionFunc.
package weave

import "fmt"

// MonitorActionFunc is a monitor's entry action or event handler body.
type MonitorActionFunc func(m *Monitor, evt Event) error

// Liveness tags a monitor state as hot (the monitor must not stay here
// forever under a fair strategy) or cold (no liveness obligation).
type Liveness int

const (
	// Cold is the default: no liveness obligation on this state.
	Cold Liveness = iota
	// Hot states must eventually be left; ending an iteration with any
	// monitor in a hot state is a KindLivenessViolation under a fair
	// strategy (see ExplorationStrategy.IsFair).
	Hot
)

// MonitorState is one node of a Monitor's state machine.
type MonitorState struct {
	Name     StateName
	Liveness Liveness
	Entry    MonitorActionFunc
	handlers map[EventType]monitorHandler
}

type monitorHandler struct {
	isGoto bool
	action MonitorActionFunc
	target StateName
}

// NewMonitorState constructs an empty, named MonitorState.
func NewMonitorState(name StateName, liveness Liveness) *MonitorState {
	return &MonitorState{Name: name, Liveness: liveness, handlers: make(map[EventType]monitorHandler)}
}

// OnDo registers an in-place action for evtType.
func (s *MonitorState) OnDo(evtType EventType, action MonitorActionFunc) *MonitorState {
	s.handlers[evtType] = monitorHandler{action: action}
	return s
}

// OnGoto registers a transition to target for evtType.
func (s *MonitorState) OnGoto(evtType EventType, target StateName) *MonitorState {
	s.handlers[evtType] = monitorHandler{isGoto: true, target: target}
	return s
}

// Monitor is a synchronous safety/liveness observer: Specification.Dispatch
// sends an event to every registered monitor, running its handler (if
// any) to completion before the caller's step continues.
type Monitor struct {
	Type    string
	states  map[StateName]*MonitorState
	current *MonitorState
	hooks   *Hooks
	oracle  *NondeterministicOracle
}

// NewMonitor constructs a Monitor of the given type name, starting in
// start (its Entry action, if any, is run immediately).
func NewMonitor(monitorType string, start *MonitorState, states ...*MonitorState) (*Monitor, error) {
	m := &Monitor{Type: monitorType, states: make(map[StateName]*MonitorState)}
	m.states[start.Name] = start
	for _, s := range states {
		m.states[s.Name] = s
	}
	m.current = start
	if start.Entry != nil {
		if err := start.Entry(m, Event{}); err != nil {
			return nil, WrapError(fmt.Sprintf("monitor %s entry action for %s", monitorType, start.Name), err)
		}
	}
	return m, nil
}

// SetHooks wires the log-hook surface. May be called with a nil *Hooks.
func (m *Monitor) SetHooks(h *Hooks) { m.hooks = h }

// SetOracle stores the iteration's oracle on the monitor. Monitor has no
// Random/RandomInt/FairRandom methods of its own, and nothing in this
// package reads the stored oracle.
func (m *Monitor) SetOracle(o *NondeterministicOracle) { m.oracle = o }

// CurrentState returns the monitor's current state.
func (m *Monitor) CurrentState() *MonitorState { return m.current }

// IsHot reports whether the monitor is currently in a hot state.
func (m *Monitor) IsHot() bool { return m.current.Liveness == Hot }

// ProcessEvent dispatches evt to the monitor's current state, running a
// DoAction in place or transitioning via Goto (running the target's Entry
// action). An event type with no registered handler in the current state
// is silently ignored — monitors only react to the events they declare
// interest in, unlike an actor's mandatory-unhandled-event error.
func (m *Monitor) ProcessEvent(evt Event) error {
	m.hooks.fireMonitorProcessEvent(m.Type, evt)
	h, ok := m.current.handlers[evt.Type]
	if !ok {
		return nil
	}
	if !h.isGoto {
		m.hooks.fireMonitorExecuteAction(m.Type, m.current.Name)
		if h.action != nil {
			if err := h.action(m, evt); err != nil {
				return WrapError(fmt.Sprintf("monitor %s action in %s", m.Type, m.current.Name), err)
			}
		}
		return nil
	}
	target, ok := m.states[h.target]
	if !ok {
		return newRuntimeError(KindUnhandledEvent, nil, "monitor %s has no state %q", m.Type, h.target)
	}
	m.current = target
	m.hooks.fireMonitorStateTransition(m.Type, target.Name)
	if target.Entry != nil {
		m.hooks.fireMonitorExecuteAction(m.Type, target.Name)
		if err := target.Entry(m, evt); err != nil {
			return WrapError(fmt.Sprintf("monitor %s entry action for %s", m.Type, target.Name), err)
		}
	}
	return nil
}

// Raise lets a monitor action signal the monitor's own next event
// in-place, processed immediately (monitors have no queue to defer into).
func (m *Monitor) Raise(evt Event) error {
	m.hooks.fireMonitorRaiseEvent(m.Type, evt)
	return m.ProcessEvent(evt)
}

// Assert is a monitor-scoped assertion: cond false raises
// KindAssertionFailure exactly like the package-level Assert.
func (m *Monitor) Assert(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return newRuntimeError(KindAssertionFailure, nil, "monitor %s: %s", m.Type, fmt.Sprintf(format, args...))
}
