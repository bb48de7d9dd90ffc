package component

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(ctx context.Context, c Component, value string) (interface{}, error) {
	return nil, nil
}

func TestBindRejectsUnknownEventWithoutForce(t *testing.T) {
	n := newLeaf("button")
	err := Bind(n, "totally-made-up", noopHandler)
	assert.ErrorIs(t, err, ErrUnknownEvent)

	err = Bind(n, "totally-made-up", noopHandler, ForceBind())
	assert.NoError(t, err)
}

func TestBindRejectsDoubleBindUnlessRebind(t *testing.T) {
	n := newLeaf("button")
	require.NoError(t, Bind(n, "click", noopHandler))

	err := Bind(n, "click", noopHandler)
	assert.ErrorIs(t, err, ErrDoubleBind)

	err = Bind(n, "click", noopHandler, Rebind())
	assert.NoError(t, err)
}

func TestBindSetsDataEventsSortedAndUnique(t *testing.T) {
	n := newLeaf("button")
	require.NoError(t, Bind(n, "click", noopHandler))
	require.NoError(t, Bind(n, "blur", noopHandler))

	v, ok := n.Props().Get("data-events")
	require.True(t, ok)
	assert.Equal(t, "blur,click", v)
}

func TestUnbindRemovesFromDataEvents(t *testing.T) {
	n := newLeaf("button")
	require.NoError(t, Bind(n, "click", noopHandler))
	Unbind(n, "click")

	_, ok := n.Props().Get("data-events")
	assert.False(t, ok)
}

func TestBindRejectsRedundantUpdateTargetsSharingParent(t *testing.T) {
	root := newInner("div", false)
	a := newLeaf("span")
	b := newLeaf("span")
	mustAppend(t, root, a)
	mustAppend(t, root, b)

	err := Bind(a, "click", noopHandler, UpdateSelf(false), UpdateTargets(a, b))
	assert.ErrorIs(t, err, ErrRedundantUpdateTarget)
}

func TestEventBindingsChangedIsOneShot(t *testing.T) {
	n := newLeaf("button")
	require.NoError(t, Bind(n, "click", noopHandler))

	assert.True(t, EventBindingsChanged(n))
	assert.False(t, EventBindingsChanged(n), "flag must clear after being read")
}
