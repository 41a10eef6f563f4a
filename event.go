package weave

// EventType tags the kind of an Event. Actors and monitors register
// handlers keyed by EventType in their state tables (see StateStack).
type EventType string

// Event is an immutable message passed between actors. It is created by
// the sender, owned by the target's EventQueue from enqueue until
// dequeue, owned by the dispatch machinery thereafter, and dropped at the
// end of the step that handles it.
type Event struct {
	// Type identifies the event for handler-table lookup.
	Type EventType
	// Payload is the user-supplied message body; opaque to the runtime.
	Payload any
	// OpGroup is an opaque correlation tag propagated across sends for
	// causal grouping in logs (zero means "ungrouped").
	OpGroup uint64
	// Sender is the id of the actor that created this event, if any.
	Sender ActorId
	// HasSender reports whether Sender is meaningful (some events, such
	// as the initial create-actor event, have no sender).
	HasSender bool
	// MustHandle marks the event as required to be dispatched before the
	// recipient halts; see the must-handle bookkeeping in EventQueue.
	MustHandle bool
}

// DequeueStatus is the outcome of an EventQueue.Dequeue call.
type DequeueStatus int

const (
	// StatusEvent reports that an event was dequeued and is ready for
	// dispatch.
	StatusEvent DequeueStatus = iota
	// StatusDefaultRaised reports that nothing was dequeueable but the
	// current state has a registered default handler.
	StatusDefaultRaised
	// StatusNotReady reports that nothing is dequeueable and there is no
	// default handler; the caller should suspend as WaitingToReceive.
	StatusNotReady
)

// DequeueResult is the return value of EventQueue.Dequeue.
type DequeueResult struct {
	Status DequeueStatus
	Event  Event
}
