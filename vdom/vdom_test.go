package vdom

import (
	"testing"

	"github.com/go-lively/lively/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	*component.Base
}

func leaf(tag string) *node {
	n := &node{}
	b, err := component.Init(n, tag, false, false)
	if err != nil {
		panic(err)
	}
	n.Base = b
	return n
}

func inner(tag string, acceptInnerHTML bool) *node {
	n := &node{}
	b, err := component.Init(n, tag, true, acceptInnerHTML)
	if err != nil {
		panic(err)
	}
	n.Base = b
	return n
}

func TestSnapshotBuildsTreeShape(t *testing.T) {
	root := inner("div", false)
	child := leaf("span")
	require.NoError(t, root.ChildrenList().Append(child))
	component.AssignUIDs(root, "0", false)

	snap := Snapshot(root)
	assert.Equal(t, "div", snap.Tag)
	require.Len(t, snap.Children, 1)
	assert.Equal(t, "span", snap.Children[0].Tag)
	assert.Equal(t, child.UID(), snap.Children[0].Key)
}

func TestSnapshotCachesUntilMutation(t *testing.T) {
	n := leaf("span")
	component.AssignUIDs(n, "0", false)
	first := Snapshot(n)
	second := Snapshot(n)
	assert.Same(t, first, second, "an unmutated component must reuse its cached snapshot")

	require.NoError(t, n.Props().Set("a", "1"))
	third := Snapshot(n)
	assert.NotSame(t, first, third)
}

func TestDiffReplacesNodeOnTagChange(t *testing.T) {
	old := &VNode{Tag: "div", Key: "0"}
	neu := &VNode{Tag: "span", Key: "0"}
	patches := Diff(old, neu)
	require.Len(t, patches, 1)
	assert.Equal(t, ReplaceNode, patches[0].Code)
}

func TestDiffDetectsTextPropsStyleChanges(t *testing.T) {
	old := &VNode{Tag: "p", Key: "0", Text: "hi", HasText: true, Props: map[string]string{"a": "1"}, Style: map[string]string{"c": "red"}}
	neu := &VNode{Tag: "p", Key: "0", Text: "bye", HasText: true, Props: map[string]string{"a": "2"}, Style: map[string]string{"c": "blue"}}

	patches := Diff(old, neu)
	codes := map[PatchCode]bool{}
	for _, p := range patches {
		codes[p.Code] = true
	}
	assert.True(t, codes[AlterText])
	assert.True(t, codes[ReplaceProps])
	assert.True(t, codes[ReplaceStyle])
}

func TestDiffKeyedChildrenInsertRemoveAndRecurse(t *testing.T) {
	old := &VNode{Tag: "ul", Key: "0", Children: []*VNode{
		{Tag: "li", Key: "0.0", Text: "a", HasText: true},
		{Tag: "li", Key: "0.1", Text: "b", HasText: true},
	}}
	neu := &VNode{Tag: "ul", Key: "0", Children: []*VNode{
		{Tag: "li", Key: "0.0", Text: "a-changed", HasText: true},
		{Tag: "li", Key: "0.2", Text: "c", HasText: true},
	}}

	patches := Diff(old, neu)

	var sawRemove, sawInsert, sawAlter bool
	for _, p := range patches {
		switch p.Code {
		case RemoveNode:
			if p.Key == "0.1" {
				sawRemove = true
			}
		case InsertNode:
			if p.Key == "0" {
				sawInsert = true
			}
		case AlterText:
			if p.Key == "0.0" {
				sawAlter = true
			}
		}
	}
	assert.True(t, sawRemove, "child 0.1 dropped from new tree must emit REMOVE_NODE")
	assert.True(t, sawInsert, "child 0.2 new in tree must emit INSERT_NODE under parent key")
	assert.True(t, sawAlter, "child 0.0 text change must recurse into a nested diff")
}

func TestDiffNoChangesProducesNoPatches(t *testing.T) {
	v := &VNode{Tag: "div", Key: "0", Props: map[string]string{"a": "1"}, Style: map[string]string{}}
	v2 := &VNode{Tag: "div", Key: "0", Props: map[string]string{"a": "1"}, Style: map[string]string{}}
	assert.Empty(t, Diff(v, v2))
}

func TestForceUpdateRejectsRootComponent(t *testing.T) {
	root := leaf("div")
	_, err := NewForceUpdate(root, "props")
	assert.ErrorIs(t, err, ErrForceUpdateNoParent)
}

func TestForceUpdateRejectsBadCombinations(t *testing.T) {
	root := inner("div", false)
	child := inner("p", true)
	require.NoError(t, root.ChildrenList().Append(child))

	_, err := NewForceUpdate(child, "all", "props")
	assert.ErrorIs(t, err, ErrForceUpdateRedundant)

	_, err = NewForceUpdate(child, "text", "inner_html")
	assert.ErrorIs(t, err, ErrForceUpdateRedundant)

	leafChild := leaf("span")
	require.NoError(t, root.ChildrenList().Append(leafChild))
	_, err = NewForceUpdate(leafChild, "text")
	assert.ErrorIs(t, err, ErrForceUpdateNoInnerText)
}

func TestForceUpdateGeneratesExpectedPatches(t *testing.T) {
	root := inner("div", false)
	child := inner("p", true)
	require.NoError(t, root.ChildrenList().Append(child))
	require.NoError(t, child.SetInnerText("hello"))
	component.AssignUIDs(root, "0", false)

	fu, err := NewForceUpdate(child, "all")
	require.NoError(t, err)

	var patches []Patch
	fu.GeneratePatches(func(p Patch) { patches = append(patches, p) })

	var codes []PatchCode
	for _, p := range patches {
		codes = append(codes, p.Code)
	}
	assert.Contains(t, codes, ReplaceProps)
	assert.Contains(t, codes, ReplaceStyle)
	assert.Contains(t, codes, AlterText)
}
