package weave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStack_ResolveShadowsAncestor(t *testing.T) {
	root := NewState("Root").OnDo("E", func(a *Actor, e Event) error { return nil })
	child := NewState("Child").WithParent(root).OnGoto("E", "Other")

	s := NewStateStack(root)
	s.Push(child)

	h, at, ok := s.Resolve("E")
	require.True(t, ok)
	assert.Equal(t, GotoState, h.Kind)
	assert.Equal(t, StateName("Child"), at.Name)
}

func TestStateStack_ResolveFallsBackToAncestor(t *testing.T) {
	root := NewState("Root").OnDo("E", func(a *Actor, e Event) error { return nil })
	child := NewState("Child").WithParent(root)

	s := NewStateStack(root)
	s.Push(child)

	h, at, ok := s.Resolve("E")
	require.True(t, ok)
	assert.Equal(t, DoAction, h.Kind)
	assert.Equal(t, StateName("Root"), at.Name)
}

func TestStateStack_PopRootForbidden(t *testing.T) {
	root := NewState("Root")
	s := NewStateStack(root)
	_, err := s.Pop()
	assert.Error(t, err)
}

func TestStateStack_PopChild(t *testing.T) {
	root := NewState("Root")
	child := NewState("Child").WithParent(root)
	s := NewStateStack(root)
	s.Push(child)

	popped, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, StateName("Child"), popped.Name)
	assert.Equal(t, 1, s.Depth())
}

func TestStateStack_EffectiveDeferIgnoreChildOverridesParent(t *testing.T) {
	root := NewState("Root").Defer("X").Ignore("Y")
	child := NewState("Child").WithParent(root).Ignore("X")

	s := NewStateStack(root)
	s.Push(child)

	deferred, ignored := s.EffectiveDeferIgnore()
	assert.NotContains(t, deferred, EventType("X"))
	assert.Contains(t, ignored, EventType("X"))
	assert.Contains(t, ignored, EventType("Y"))
}

func TestCommonAncestorDepth(t *testing.T) {
	root := NewState("Root")
	mid := NewState("Mid").WithParent(root)
	leafA := NewState("LeafA").WithParent(mid)
	leafB := NewState("LeafB").WithParent(mid)

	current := []*State{root, mid, leafA}
	depth := CommonAncestorDepth(current, leafB.AncestorChain())
	assert.Equal(t, 2, depth) // root, mid are shared; LeafA != LeafB
}
