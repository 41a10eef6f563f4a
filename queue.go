package weave

import "fmt"

// queueHooks are the log-hook callbacks an EventQueue fires into. All
// fields are non-nil zero-value funcs when unset (see NewEventQueue),
// following the teacher's no-nil-check-at-call-site logging idiom.
type queueHooks struct {
	onEnqueue      func(Event)
	onDequeue      func(DequeueResult)
	onEventDropped func(Event)
}

// EventQueue is the per-actor FIFO inbox: an ordered sequence of pending
// events, a set of currently-deferred event types, a set of
// currently-ignored event types, and (optionally) a receive predicate
// describing a blocked explicit receive.
//
// EventQueue deliberately carries no internal lock. Per the concurrency
// model (spec §5), the scheduler guarantees that exactly one operation
// executes at any moment and that every enqueue to this queue — whether
// from the owning actor's own step or from another actor's step — happens
// strictly before or after any other operation's access, never
// concurrently with it. Adding a mutex here would paper over a model
// violation rather than prevent one.
type EventQueue struct {
	entries  []Event
	deferred map[EventType]bool
	ignored  map[EventType]bool

	// hasDefaultHandler reports, for the CURRENT state, whether a default
	// handler is registered. It is wired up by the owning Actor/StateStack
	// whenever the current state changes.
	hasDefaultHandler func() bool

	// explicitReceive, when non-nil, is the predicate passed to the most
	// recent Receive() call that has not yet been satisfied.
	explicitReceive func(Event) bool
	// receiveResult holds the event that satisfied explicitReceive once
	// Enqueue delivers it directly; ReceiveResult() drains it.
	receiveResult *Event

	halted bool
	hooks  queueHooks
}

// NewEventQueue constructs an empty EventQueue. hasDefaultHandler reports,
// on demand, whether the owner's current state declares a default
// handler; it may be nil, meaning "never."
func NewEventQueue(hasDefaultHandler func() bool) *EventQueue {
	if hasDefaultHandler == nil {
		hasDefaultHandler = func() bool { return false }
	}
	q := &EventQueue{
		deferred:          make(map[EventType]bool),
		ignored:           make(map[EventType]bool),
		hasDefaultHandler: hasDefaultHandler,
	}
	q.SetHooks(nil, nil, nil)
	return q
}

// SetHooks installs the log-hook callbacks. Any nil func is replaced with
// a no-op so call sites never need a nil check.
func (q *EventQueue) SetHooks(onEnqueue func(Event), onDequeue func(DequeueResult), onEventDropped func(Event)) {
	if onEnqueue == nil {
		onEnqueue = func(Event) {}
	}
	if onDequeue == nil {
		onDequeue = func(DequeueResult) {}
	}
	if onEventDropped == nil {
		onEventDropped = func(Event) {}
	}
	q.hooks = queueHooks{onEnqueue: onEnqueue, onDequeue: onDequeue, onEventDropped: onEventDropped}
}

// SetDeferIgnore replaces the currently-deferred and currently-ignored
// event-type sets, to be called by the owning StateMachineCore whenever
// the current state (and hence its defer/ignore declarations) changes.
func (q *EventQueue) SetDeferIgnore(defer_ []EventType, ignore []EventType) {
	q.deferred = make(map[EventType]bool, len(defer_))
	for _, t := range defer_ {
		q.deferred[t] = true
	}
	q.ignored = make(map[EventType]bool, len(ignore))
	for _, t := range ignore {
		q.ignored[t] = true
	}
}

// Enqueue appends evt to the queue, unless it is intercepted by a blocked
// explicit Receive, or the queue belongs to a halted actor, or its type is
// currently ignored (then it is silently dropped).
func (q *EventQueue) Enqueue(evt Event) error {
	if q.halted {
		q.hooks.onEventDropped(evt)
		if evt.MustHandle {
			return newRuntimeError(KindHaltedReception, nil,
				"must-handle event '%s' was sent to the halted actor", evt.Type)
		}
		return nil
	}

	if q.ignored[evt.Type] {
		return nil
	}

	if q.explicitReceive != nil && q.explicitReceive(evt) {
		q.explicitReceive = nil
		q.receiveResult = &evt
		q.hooks.onDequeue(DequeueResult{Status: StatusEvent, Event: evt})
		return nil
	}

	q.entries = append(q.entries, evt)
	q.hooks.onEnqueue(evt)
	return nil
}

// Dequeue implements the algorithm of §4.1: scan in insertion order,
// skipping deferred types (without losing their relative order) and
// dropping ignored types, returning the first remaining event. If none
// remains and the current state has a default handler, reports
// StatusDefaultRaised; otherwise StatusNotReady.
func (q *EventQueue) Dequeue() DequeueResult {
	write := 0
	var found Event
	foundIdx := -1
	for read, evt := range q.entries {
		if foundIdx >= 0 {
			q.entries[write] = q.entries[read]
			write++
			continue
		}
		if q.ignored[evt.Type] {
			// dropped: not copied forward, not returned.
			continue
		}
		if q.deferred[evt.Type] {
			q.entries[write] = evt
			write++
			continue
		}
		found = evt
		foundIdx = read
	}
	if foundIdx >= 0 {
		q.entries = q.entries[:write]
		result := DequeueResult{Status: StatusEvent, Event: found}
		q.hooks.onDequeue(result)
		return result
	}
	q.entries = q.entries[:write]

	if q.hasDefaultHandler() {
		result := DequeueResult{Status: StatusDefaultRaised}
		q.hooks.onDequeue(result)
		return result
	}
	result := DequeueResult{Status: StatusNotReady}
	q.hooks.onDequeue(result)
	return result
}

// BeginReceive starts an explicit receive(predicate) suspension point. If
// a currently-queued event already matches (scanning in dequeue order,
// respecting ignore but NOT defer — an explicit receive is specific to
// certain types and is not subject to the current state's defer set), it
// is removed and returned immediately with ok=true. Otherwise the
// predicate is recorded as the queue's blocked-on receive and ok is
// false; the caller must suspend until ReceiveResult is non-nil.
func (q *EventQueue) BeginReceive(predicate func(Event) bool) (Event, bool) {
	for i, evt := range q.entries {
		if q.ignored[evt.Type] {
			continue
		}
		if predicate(evt) {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			q.hooks.onDequeue(DequeueResult{Status: StatusEvent, Event: evt})
			return evt, true
		}
	}
	q.explicitReceive = predicate
	return Event{}, false
}

// ReceiveResult drains and returns the event that satisfied the most
// recent BeginReceive call, if any has arrived via Enqueue.
func (q *EventQueue) ReceiveResult() (Event, bool) {
	if q.receiveResult == nil {
		return Event{}, false
	}
	evt := *q.receiveResult
	q.receiveResult = nil
	return evt, true
}

// IsReceiving reports whether an explicit receive is currently blocked.
func (q *EventQueue) IsReceiving() bool {
	return q.explicitReceive != nil
}

// Halt marks the queue as belonging to a halted actor and returns an error
// if any must-handle event is still present (the must-handle bookkeeping
// of §4.1). After Halt returns, the queue is empty.
func (q *EventQueue) Halt() error {
	var err error
	for _, evt := range q.entries {
		if evt.MustHandle && err == nil {
			err = newRuntimeError(KindMustHandleViolation, nil,
				"actor halted before dequeueing must-handle event '%s'", evt.Type)
		}
	}
	q.entries = nil
	q.halted = true
	return err
}

// Len reports the number of currently-queued (non-dropped) events,
// primarily for tests and diagnostics.
func (q *EventQueue) Len() int {
	return len(q.entries)
}

// String renders a short diagnostic summary.
func (q *EventQueue) String() string {
	return fmt.Sprintf("EventQueue{len=%d halted=%v receiving=%v}", len(q.entries), q.halted, q.explicitReceive != nil)
}
