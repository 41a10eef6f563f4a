package weave

import "fmt"

// StateName identifies a State within one actor's or monitor's state
// table.
type StateName string

// HandlerKind distinguishes the three ways a state can respond to an
// event: run an action in place, transition via Goto, or enter a nested
// child state via Push.
type HandlerKind int

const (
	// DoAction runs Action to completion and stays in the current state.
	DoAction HandlerKind = iota
	// GotoState runs exit handlers up to the common ancestor with Target,
	// then entry handlers down to Target.
	GotoState
	// PushState enters Target as a nested child of the current state,
	// without exiting the current state.
	PushState
)

// String renders the handler kind for diagnostics.
func (k HandlerKind) String() string {
	switch k {
	case DoAction:
		return "DoAction"
	case GotoState:
		return "GotoState"
	case PushState:
		return "PushState"
	default:
		return fmt.Sprintf("HandlerKind(%d)", int(k))
	}
}

// ActionFunc is a user-supplied entry/exit/do-action body. It receives the
// Actor it runs on (which exposes the program-facing surface: Raise, Goto,
// Push, Pop, Receive, Random, Monitor, Assert, CreateActor, SendEvent) and
// the triggering Event (the zero Event for entry/exit handlers that do not
// correspond to a specific dispatched event).
type ActionFunc func(a *Actor, evt Event) error

// EventHandler is a single state's response to one EventType. At most one
// EventHandler is registered per (State, EventType) pair — the "DoAction
// overrides GotoState overrides PushState" resolution order in the spec
// describes how a *builder* should resolve conflicting registrations, not
// a runtime ambiguity; State.OnDo, State.OnGoto and State.OnPush enforce
// "last registration wins" so a builder that means to implement that
// precedence simply registers in PushState, GotoState, DoAction order.
type EventHandler struct {
	Kind   HandlerKind
	Action ActionFunc // used when Kind == DoAction
	Target StateName  // used when Kind == GotoState or Kind == PushState
}

// State is one named node in a StateStack's hierarchy: optional entry/exit
// actions, a handler table keyed by EventType, an optional default
// handler, and the defer/ignore declarations that apply while this state
// is part of the active stack.
type State struct {
	Name    StateName
	Entry   ActionFunc
	Exit    ActionFunc
	Default *EventHandler
	// Parent is the state this one is nested under, for Goto's
	// least-common-ancestor computation. Root states leave Parent nil.
	Parent *State

	handlers  map[EventType]EventHandler
	deferSet  []EventType
	ignoreSet []EventType
}

// NewState constructs an empty, named State ready for On/Defer/Ignore
// registration.
func NewState(name StateName) *State {
	return &State{Name: name, handlers: make(map[EventType]EventHandler)}
}

// WithParent declares st as nested under parent, for use by Goto's
// common-ancestor computation. Returns st for chaining.
func (s *State) WithParent(parent *State) *State {
	s.Parent = parent
	return s
}

// AncestorChain returns the path from the outermost ancestor (root) down
// to and including s.
func (s *State) AncestorChain() []*State {
	var chain []*State
	for st := s; st != nil; st = st.Parent {
		chain = append([]*State{st}, chain...)
	}
	return chain
}

// OnDo registers a DoAction handler for evtType.
func (s *State) OnDo(evtType EventType, action ActionFunc) *State {
	s.handlers[evtType] = EventHandler{Kind: DoAction, Action: action}
	return s
}

// OnGoto registers a GotoState handler for evtType.
func (s *State) OnGoto(evtType EventType, target StateName) *State {
	s.handlers[evtType] = EventHandler{Kind: GotoState, Target: target}
	return s
}

// OnPush registers a PushState handler for evtType.
func (s *State) OnPush(evtType EventType, target StateName) *State {
	s.handlers[evtType] = EventHandler{Kind: PushState, Target: target}
	return s
}

// OnDefault registers the state's default handler (invoked when the queue
// is otherwise empty).
func (s *State) OnDefault(h EventHandler) *State {
	s.Default = &h
	return s
}

// Defer marks event types as deferred while this state is active.
func (s *State) Defer(types ...EventType) *State {
	s.deferSet = append(s.deferSet, types...)
	return s
}

// Ignore marks event types as ignored while this state is active.
func (s *State) Ignore(types ...EventType) *State {
	s.ignoreSet = append(s.ignoreSet, types...)
	return s
}

// handlerFor looks up this state's own handler table; it does not consult
// ancestors.
func (s *State) handlerFor(evtType EventType) (EventHandler, bool) {
	h, ok := s.handlers[evtType]
	return h, ok
}

// StateStack is the runtime hierarchy of currently-entered states of one
// state-machine actor, ordered root (index 0) to current (top). Exactly
// one state is "current"; popping the root is forbidden except during
// halt.
type StateStack struct {
	frames []*State
}

// NewStateStack returns a StateStack with root as its sole, current frame.
func NewStateStack(root *State) *StateStack {
	return &StateStack{frames: []*State{root}}
}

// Current returns the topmost (current) state.
func (s *StateStack) Current() *State {
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of entered states.
func (s *StateStack) Depth() int {
	return len(s.frames)
}

// Push enters st as a nested child of the current state.
func (s *StateStack) Push(st *State) {
	s.frames = append(s.frames, st)
}

// Pop removes and returns the current state. It is an error to pop when
// only the root remains; callers must check Depth() > 1 first (this
// mirrors the invariant "popping the root is forbidden except during
// halt" — Halt bypasses StateStack entirely and leaves it untouched).
func (s *StateStack) Pop() (*State, error) {
	if len(s.frames) <= 1 {
		return nil, newRuntimeError(KindUnhandledEvent, nil, "cannot pop the root state %q", s.frames[0].Name)
	}
	popped := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return popped, nil
}

// popForGoto removes and returns the current frame without Pop's
// depth-1 guard. A Goto's exit walk computes its least-common-ancestor
// depth against the target's own ancestor chain, which is 0 whenever the
// current and target states share no common parent — the ordinary case
// for a flat state machine with no Push hierarchy, where "goto" means
// leave the current root state entirely and enter a different one. That
// walk must be able to leave the stack transiently empty, immediately
// followed by doGoto pushing the target's path back on; Pop (the
// user-facing imperative API, and the pop-on-unhandled walk) must never
// do that, which is what its own guard protects.
func (s *StateStack) popForGoto() *State {
	popped := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return popped
}

// Frames returns the current stack, root-to-current. Callers must treat
// the slice as read-only.
func (s *StateStack) Frames() []*State {
	return s.frames
}

// Resolve walks the stack from current (top) to root, returning the first
// state whose own handler table contains evtType. A handler registered on
// a deeper (more-current) state shadows one registered on a shallower
// ancestor for the same event type.
func (s *StateStack) Resolve(evtType EventType) (EventHandler, *State, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if h, ok := s.frames[i].handlerFor(evtType); ok {
			return h, s.frames[i], true
		}
	}
	return EventHandler{}, nil, false
}

// EffectiveDeferIgnore computes the union of defer/ignore declarations
// across the active stack, with a more-current state's explicit
// declaration for a given event type taking precedence over an ancestor's
// declaration of the same type (so a child state can "un-defer" a type
// its parent defers simply by declaring it in its own Ignore set, or vice
// versa).
func (s *StateStack) EffectiveDeferIgnore() (deferred []EventType, ignored []EventType) {
	resolved := make(map[EventType]bool)
	deferSet := make(map[EventType]bool)
	ignoreSet := make(map[EventType]bool)
	for i := len(s.frames) - 1; i >= 0; i-- {
		st := s.frames[i]
		for _, t := range st.ignoreSet {
			if resolved[t] {
				continue
			}
			ignoreSet[t] = true
			resolved[t] = true
		}
		for _, t := range st.deferSet {
			if resolved[t] {
				continue
			}
			deferSet[t] = true
			resolved[t] = true
		}
	}
	for t := range deferSet {
		deferred = append(deferred, t)
	}
	for t := range ignoreSet {
		ignored = append(ignored, t)
	}
	return deferred, ignored
}

// HasDefaultHandler reports whether any state in the active stack (from
// current to root) declares a default handler.
func (s *StateStack) HasDefaultHandler() bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Default != nil {
			return true
		}
	}
	return false
}

// ResolveDefault returns the nearest (most-current) registered default
// handler.
func (s *StateStack) ResolveDefault() (EventHandler, *State, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Default != nil {
			return *s.frames[i].Default, s.frames[i], true
		}
	}
	return EventHandler{}, nil, false
}

// CommonAncestorDepth returns the depth (1-based count of frames) of the
// deepest state that is an ancestor of both the current stack and the
// path to target. It is used to compute which exit/entry handlers run
// during a Goto (§4.2 step 5). target must be reachable as an ancestor
// chain via parents; see AncestorChain.
func CommonAncestorDepth(current []*State, targetPath []*State) int {
	max := len(current)
	if len(targetPath) < max {
		max = len(targetPath)
	}
	depth := 0
	for i := 0; i < max; i++ {
		if current[i] != targetPath[i] {
			break
		}
		depth = i + 1
	}
	return depth
}
