package weave

import (
	"fmt"
	"sync"
)

// ActorId is a stable, deterministic identity for an actor within one
// execution. It is regenerated deterministically each iteration (the
// allocator is reset at the start of every iteration so the same program
// structure produces the same ids run to run).
type ActorId struct {
	// Sequence is the monotonic allocation order, starting at 1.
	Sequence uint64
	// Name is an optional human-assigned name; empty if none was given.
	Name string
	// Type is the tag identifying the actor's kind (its registered type
	// name).
	Type string
	// CreatorGroup is the operation-group id of the operation that issued
	// the createActor request that produced this id (zero if none).
	CreatorGroup uint64
}

// String renders the id as "<Type>(<Sequence>)" or "<Name>(<Sequence>)"
// when a name was supplied.
func (id ActorId) String() string {
	if id.Name != "" {
		return fmt.Sprintf("%s(%d)", id.Name, id.Sequence)
	}
	return fmt.Sprintf("%s(%d)", id.Type, id.Sequence)
}

// idAllocator assigns stable, deterministic identities to actors
// (operation ids come from Runtime.opSeq). It is reset at the start of each iteration so that replaying
// the same schedule reproduces the same ids.
//
// Grounded on eventloop/registry.go's nextID counter pattern: a
// mutex-guarded monotonic uint64 starting at 1 (0 reserved as a null
// marker).
type idAllocator struct {
	mu   sync.Mutex
	next uint64
}

func newIDAllocator() *idAllocator {
	return &idAllocator{next: 1}
}

// NextActorId allocates the next ActorId for an actor of the given type,
// optional name, and creating operation group.
func (a *idAllocator) NextActorId(actorType, name string, creatorGroup uint64) ActorId {
	a.mu.Lock()
	defer a.mu.Unlock()
	seq := a.next
	a.next++
	return ActorId{Sequence: seq, Name: name, Type: actorType, CreatorGroup: creatorGroup}
}

// reset reinitializes the allocator to its starting state, for the next
// iteration.
func (a *idAllocator) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next = 1
}
