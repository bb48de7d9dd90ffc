package vdom

import (
	"errors"
	"fmt"

	"github.com/go-lively/lively/component"
)

// ForceUpdate regenerates patches for a component regardless of whether its
// mutation version changed, which matters for elements a client-side script
// mutated directly (spec.md §4.7). Event handlers return these alongside,
// or instead of, the ordinary post-dispatch diff.
type ForceUpdate struct {
	Component component.Component
	Updates   []string // subset of "props", "style", "text", "inner_html", "all"
}

var (
	ErrForceUpdateBadKind     = errors.New("vdom: force update kind must be one of props, style, text, inner_html, all")
	ErrForceUpdateRedundant   = errors.New("vdom: redundant force update combination")
	ErrForceUpdateNoParent    = errors.New("vdom: force update requires a component already attached to a tree, not a root")
	ErrForceUpdateNoInnerText = errors.New("vdom: text/inner_html force update requires a component that accepts inner text")
)

var knownForceUpdateKinds = map[string]bool{
	"props": true, "style": true, "text": true, "inner_html": true, "all": true,
}

// NewForceUpdate validates and constructs a ForceUpdate for c. Root
// components are rejected: a force update can only refresh an existing
// patch target, never introduce or remove one from the tree.
func NewForceUpdate(c component.Component, updates ...string) (*ForceUpdate, error) {
	if c.Parent() == nil {
		return nil, ErrForceUpdateNoParent
	}

	hasAll := false
	hasText := false
	for _, u := range updates {
		if !knownForceUpdateKinds[u] {
			return nil, ErrForceUpdateBadKind
		}
		if u == "all" {
			hasAll = true
		}
		if u == "text" || u == "inner_html" {
			if hasText {
				return nil, ErrForceUpdateRedundant
			}
			hasText = true
		}
	}
	if hasAll && len(updates) > 1 {
		return nil, ErrForceUpdateRedundant
	}
	if hasText && !c.AcceptsInnerHTML() {
		return nil, ErrForceUpdateNoInnerText
	}

	return &ForceUpdate{Component: c, Updates: updates}, nil
}

// GeneratePatches emits one patch per requested update kind, invoking
// action for each in turn. "all" expands to props+style, plus text when c
// accepts inner text.
func (f *ForceUpdate) GeneratePatches(action func(Patch)) {
	updates := f.Updates
	if len(updates) == 1 && updates[0] == "all" {
		updates = []string{"props", "style"}
		if f.Component.AcceptsInnerHTML() {
			updates = append(updates, "text")
		}
	}

	uid := f.Component.UID()
	for _, u := range updates {
		switch u {
		case "text", "inner_html":
			text, ok := f.Component.InnerText()
			var payload interface{}
			if ok {
				payload = text
			}
			action(Patch{Code: AlterText, Key: uid, Payload: payload})
		case "props":
			action(Patch{Code: ReplaceProps, Key: uid, Payload: f.Component.Props().Map()})
		case "style":
			action(Patch{Code: ReplaceStyle, Key: uid, Payload: f.Component.Style().Map()})
		}
	}
}

// String reports the textual form of f's updates, useful for logging.
func (f *ForceUpdate) String() string {
	return fmt.Sprintf("ForceUpdate(%s, %v)", f.Component.UID(), f.Updates)
}
