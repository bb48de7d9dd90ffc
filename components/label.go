// Package components implements the concrete widget set built on top of
// the component package's primitives: Label, Button, Input, and Form
// (spec.md's domain stack, grounded on original_source's
// duck/html/components/{label,input,form}.py and the teacher's own
// components/ package for the embedding/event-binding shape).
package components

import "github.com/go-lively/lively/component"

// Label is a plain text/inner-HTML container, original_source's Label
// (InnerHtmlComponent rendering a <label> element).
type Label struct {
	*component.Base
}

// NewLabel creates a <label> with the given text.
func NewLabel(text string) (*Label, error) {
	l := &Label{}
	b, err := component.Init(l, "label", true, true)
	if err != nil {
		return nil, err
	}
	l.Base = b
	if text != "" {
		if err := l.SetInnerText(text); err != nil {
			return nil, err
		}
	}
	return l, nil
}
