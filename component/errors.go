package component

import "errors"

// Construction errors.
var (
	ErrInvalidTag       = errors.New("component: invalid element tag")
	ErrTagTooLong       = errors.New("component: element tag too long")
	ErrNoInnerText      = errors.New("component: component does not accept inner text")
	ErrEmptyKey         = errors.New("component: props/style key must be non-empty after trim")
	ErrNonStringKeyVal  = errors.New("component: props/style keys and values must be strings")
)

// Parent/child errors.
var (
	ErrAlreadyParented = errors.New("component: child already has a parent or root")
	ErrNotAChild       = errors.New("component: component is not a child of this parent")
	ErrNoChildren      = errors.New("component: leaf component does not support children")
)

// Frozen-mutation errors.
var ErrFrozen = errors.New("component: component is frozen")

// Binding errors.
var (
	ErrUnknownEvent          = errors.New("component: unknown event name")
	ErrDoubleBind            = errors.New("component: event already bound")
	ErrRedundantUpdateTarget = errors.New("component: update targets share a parent or root")
	ErrDocumentEventOnNonPage = errors.New("component: document-scoped events may only be bound on a Page")
)
