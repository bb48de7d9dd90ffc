package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRejectsBadTag(t *testing.T) {
	_, err := Init(&testNode{}, "bad tag!", false, false)
	assert.ErrorIs(t, err, ErrInvalidTag)

	_, err = Init(&testNode{}, "thisTagNameIsWayTooLongForTheLimit", false, false)
	assert.ErrorIs(t, err, ErrTagTooLong)
}

func TestRootIsSelfUntilParented(t *testing.T) {
	root := newInner("div", false)
	assert.True(t, root.IsRoot())
	assert.Equal(t, Component(root), root.Root())
}

func TestAttachSetsParentAndRoot(t *testing.T) {
	root := newInner("div", false)
	child := newLeaf("span")
	mustAppend(t, root, child)

	assert.Equal(t, Component(root), child.Parent())
	assert.Equal(t, Component(root), child.Root())
	assert.False(t, child.IsRoot())
}

func TestRootRefreshIterativeOnReparent(t *testing.T) {
	// Build a detached subtree mid -> leaf, then attach mid under rootB:
	// leaf's Root() must follow all the way down without recursion.
	rootB := newInner("div", false)
	mid := newInner("section", false)
	leaf := newLeaf("span")
	mustAppend(t, mid, leaf)

	require.NoError(t, rootB.ChildrenList().Append(mid))

	assert.Equal(t, Component(rootB), mid.Root())
	assert.Equal(t, Component(rootB), leaf.Root())
}

func TestDoubleParentRejected(t *testing.T) {
	rootA := newInner("div", false)
	rootB := newInner("div", false)
	child := newLeaf("span")
	mustAppend(t, rootA, child)

	err := rootB.ChildrenList().Append(child)
	assert.ErrorIs(t, err, ErrAlreadyParented)
}

func TestSetInnerTextRequiresAcceptFlag(t *testing.T) {
	n := newInner("p", false)
	assert.ErrorIs(t, n.SetInnerText("hi"), ErrNoInnerText)

	n2 := newInner("p", true)
	require.NoError(t, n2.SetInnerText("hi"))
	text, ok := n2.InnerText()
	assert.True(t, ok)
	assert.Equal(t, "hi", text)
}

func TestSetInnerTextSameValueIsNoOp(t *testing.T) {
	n := newInner("p", true)
	require.NoError(t, n.SetInnerText("hi"))
	v1 := n.MutationVersion()
	require.NoError(t, n.SetInnerText("hi"))
	assert.Equal(t, v1, n.MutationVersion())
}

func TestRegistryLazyOnRoot(t *testing.T) {
	root := newInner("div", false)
	child := newLeaf("span")
	mustAppend(t, root, child)

	reg := child.Registry()
	require.NotNil(t, reg)
	assert.Same(t, reg, root.Registry())
}
