package weave

import "github.com/loomrt/weave/internal/rendezvous"

// OperationStatus is the scheduling state of one Operation, following the
// classic "enabled / blocked / completed" partition a cooperative scheduler
// needs to compute deadlocks and liveness.
type OperationStatus int

const (
	// OpEnabled reports that the operation is runnable: handed the baton,
	// it will make progress.
	OpEnabled OperationStatus = iota
	// OpBlockedReceive reports that the operation is parked in an explicit
	// Receive with no matching event queued, or that its actor is idle
	// with nothing to dequeue; it becomes OpEnabled again the moment a
	// matching (or, when idle, any) event is delivered.
	OpBlockedReceive
	// OpCompleted reports that the operation's actor has halted or its
	// body has returned; it is never scheduled again.
	OpCompleted
)

// String renders the status for diagnostics.
func (s OperationStatus) String() string {
	switch s {
	case OpEnabled:
		return "Enabled"
	case OpBlockedReceive:
		return "BlockedReceive"
	case OpCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Operation is one schedulable unit: in this runtime, exactly one actor's
// sequential dispatch loop. The scheduler hands each Operation's resume
// baton to let it run until its next scheduling point, then waits for it
// to hand control back.
type Operation struct {
	ID      uint64
	ActorID ActorId

	resume *rendezvous.Baton
	status OperationStatus

	// waitingTypes records the event types an OpBlockedReceive operation
	// is parked on, purely for deadlock diagnostics.
	waitingTypes []EventType
}

// newOperation constructs a parked Operation for the given actor id.
func newOperation(id uint64, actorID ActorId) *Operation {
	return &Operation{ID: id, ActorID: actorID, resume: rendezvous.New(), status: OpEnabled}
}

// Enabled reports whether the scheduler may hand this operation the baton.
func (op *Operation) Enabled() bool {
	return op.status == OpEnabled
}
