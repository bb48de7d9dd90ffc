package vdom

import "reflect"

// Diff computes the minimal patch list transforming old into new, mirroring
// the original keyed-diff algorithm (spec.md §4.6): a tag change replaces
// the whole node; otherwise text/props/style are compared shallowly and
// children are matched by key: unmatched old keys are removed first, then
// the new children are walked in order, inserting unmatched keys and
// descending into matching pairs as they come.
// Children with an empty key are excluded from keyed matching entirely
// (they can never be individually patched, only replaced via an ancestor).
func Diff(old, new *VNode) []Patch {
	var patches []Patch
	DiffAndAct(func(p Patch) { patches = append(patches, p) }, old, new)
	return patches
}

// DiffAndAct walks old/new exactly like Diff but invokes action on each
// patch as it is discovered instead of accumulating a slice, so a caller
// (the transport layer) can stream patches to the wire without buffering
// an entire diff first.
func DiffAndAct(action func(Patch), old, new *VNode) {
	if old.Tag != new.Tag {
		action(Patch{Code: ReplaceNode, Key: old.Key, Payload: new.ToList()})
		return
	}

	if old.HasText != new.HasText || old.Text != new.Text {
		action(Patch{Code: AlterText, Key: old.Key, Payload: textPayload(new)})
	}

	if !reflect.DeepEqual(old.Props, new.Props) {
		action(Patch{Code: ReplaceProps, Key: old.Key, Payload: new.Props})
	}

	if !reflect.DeepEqual(old.Style, new.Style) {
		action(Patch{Code: ReplaceStyle, Key: old.Key, Payload: new.Style})
	}

	oldByKey := keyedChildren(old.Children)
	newByKey := keyedChildren(new.Children)

	for key := range oldByKey {
		if _, ok := newByKey[key]; !ok {
			action(Patch{Code: RemoveNode, Key: key})
		}
	}

	for idx, newChild := range new.Children {
		if newChild.Key == "" {
			continue
		}
		oldChild, ok := oldByKey[newChild.Key]
		if !ok {
			action(Patch{Code: InsertNode, Key: old.Key, Payload: []interface{}{idx, newChild.ToList()}})
			continue
		}
		DiffAndAct(action, oldChild, newChild)
	}
}

func textPayload(n *VNode) interface{} {
	if !n.HasText {
		return nil
	}
	return n.Text
}

func keyedChildren(children []*VNode) map[string]*VNode {
	out := make(map[string]*VNode, len(children))
	for _, c := range children {
		if c.Key != "" {
			out[c.Key] = c
		}
	}
	return out
}
