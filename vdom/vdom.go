// Package vdom implements the Lively virtual DOM: an immutable snapshot of
// a component subtree, a keyed diff algorithm producing minimal patch
// lists, and the ForceUpdate directive for JS-driven elements (spec.md
// §4.5, §4.6, §4.7).
package vdom

import (
	"github.com/go-lively/lively/component"
)

// VNode is an immutable snapshot of one component and its subtree, taken
// at a point in time. It never mutates after construction; a new snapshot
// is built and diffed against the previous one.
type VNode struct {
	Tag      string
	Key      string // the component's UID; children with an empty key are excluded from keyed diffing
	Props    map[string]string
	Style    map[string]string
	Text     string
	HasText  bool
	Children []*VNode
}

// Snapshot builds a VNode tree for c, reusing c's memoized snapshot when
// still valid for its current mutation version and UID (spec.md §4.5).
func Snapshot(c component.Component) *VNode {
	if cached, ok := cachedNode(c); ok {
		return cached
	}
	node := buildNode(c)
	storeNode(c, node)
	return node
}

func buildNode(c component.Component) *VNode {
	node := &VNode{
		Tag:   c.Tag(),
		Key:   c.UID(),
		Props: c.Props().Map(),
		Style: c.Style().Map(),
	}
	if text, ok := c.InnerText(); ok {
		node.Text = text
		node.HasText = true
	}
	if cl := c.ChildrenList(); cl != nil {
		children := cl.All()
		node.Children = make([]*VNode, len(children))
		for i, child := range children {
			node.Children[i] = Snapshot(child)
		}
	}
	return node
}

func cachedNode(c component.Component) (*VNode, bool) {
	raw, ok := c.CachedVDOM()
	if !ok {
		return nil, false
	}
	node, ok := raw.(*VNode)
	return node, ok
}

func storeNode(c component.Component, node *VNode) {
	c.SetCachedVDOM(node)
}

// ToList converts node into the compact positional form used on the wire:
// [tag, key, props, style, text, [children...]], matching the shape every
// REPLACE_NODE/INSERT_NODE payload carries.
func (n *VNode) ToList() []interface{} {
	children := make([]interface{}, len(n.Children))
	for i, child := range n.Children {
		children[i] = child.ToList()
	}
	var text interface{}
	if n.HasText {
		text = n.Text
	}
	return []interface{}{n.Tag, n.Key, n.Props, n.Style, text, children}
}
