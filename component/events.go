package component

import "context"

// EventHandlerFunc handles a dispatched DOM event. It may return
// ForceUpdate descriptors (interface{} here to avoid importing the vdom
// package — transport type-asserts these back to []vdom.ForceUpdate) and/or
// an error, which the transport layer logs without closing the connection.
type EventHandlerFunc func(ctx context.Context, c Component, value string) (forceUpdates interface{}, err error)

// EventBinding couples a handler to the set of components whose VDOM
// should be recomputed and diffed after the handler runs, plus whether the
// bound component itself is included in that set.
type EventBinding struct {
	Handler    EventHandlerFunc
	Targets    []Component
	UpdateSelf bool
}

// knownEvents is the recognized DOM event vocabulary; Bind rejects names
// outside this set unless ForceBind is supplied (spec.md §7 Binding errors).
var knownEvents = map[string]bool{
	"click": true, "dblclick": true, "change": true, "input": true,
	"submit": true, "keydown": true, "keyup": true, "keypress": true,
	"focus": true, "blur": true, "mouseenter": true, "mouseleave": true,
	"mouseover": true, "mouseout": true, "drop": true, "dragover": true,
	"dragstart": true, "dragend": true, "scroll": true, "resize": true,
	"DOMContentLoaded": true,
}

// BindOption configures a call to Bind.
type BindOption func(*bindConfig)

type bindConfig struct {
	forceBind    bool
	updateSelf   bool
	updateTargets []Component
	rebind       bool
}

// ForceBind allows binding an event name outside the known vocabulary.
func ForceBind() BindOption { return func(c *bindConfig) { c.forceBind = true } }

// UpdateSelf controls whether the bound component is re-diffed after the
// handler runs. Defaults to true.
func UpdateSelf(v bool) BindOption { return func(c *bindConfig) { c.updateSelf = v } }

// UpdateTargets adds additional components to re-diff after the handler
// runs, besides the bound component itself.
func UpdateTargets(targets ...Component) BindOption {
	return func(c *bindConfig) { c.updateTargets = append(c.updateTargets, targets...) }
}

// Rebind allows replacing an existing binding for the same event name
// instead of erroring with ErrDoubleBind.
func Rebind() BindOption { return func(c *bindConfig) { c.rebind = true } }

// Bind attaches handler to eventName on c. Validates the event name (unless
// ForceBind), rejects double-binding (unless Rebind), and validates that no
// two update targets share an immediate parent or root (spec.md §4.9 rule 4).
func Bind(c Component, eventName string, handler EventHandlerFunc, opts ...BindOption) error {
	cfg := bindConfig{updateSelf: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.forceBind && !knownEvents[eventName] {
		return ErrUnknownEvent
	}

	b := c.base()
	b.mu.Lock()
	_, exists := b.bindings[eventName]
	b.mu.Unlock()
	if exists && !cfg.rebind {
		return ErrDoubleBind
	}

	targets := cfg.updateTargets
	if cfg.updateSelf {
		targets = append([]Component{c}, targets...)
	}
	if err := validateUpdateTargets(targets); err != nil {
		return err
	}

	b.mu.Lock()
	b.bindings[eventName] = &EventBinding{Handler: handler, Targets: cfg.updateTargets, UpdateSelf: cfg.updateSelf}
	b.eventBindingsChanged = true
	b.mu.Unlock()

	refreshDataEvents(c)
	return nil
}

// Unbind removes the binding for eventName, if any.
func Unbind(c Component, eventName string) {
	b := c.base()
	b.mu.Lock()
	delete(b.bindings, eventName)
	b.eventBindingsChanged = true
	b.mu.Unlock()
	refreshDataEvents(c)
}

// Binding returns the binding for eventName, if bound.
func Binding(c Component, eventName string) (*EventBinding, bool) {
	b := c.base()
	b.mu.RLock()
	defer b.mu.RUnlock()
	eb, ok := b.bindings[eventName]
	return eb, ok
}

// BoundEventNames returns the names of every event currently bound to c, in
// no particular stable order beyond Go map iteration (data-events joins
// them sorted, see refreshDataEvents).
func BoundEventNames(c Component) []string {
	b := c.base()
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.bindings))
	for name := range b.bindings {
		names = append(names, name)
	}
	return names
}

// EventBindingsChanged reports and clears the dirty flag the transport uses
// to decide whether a synthetic REPLACE_PROPS patch is owed (spec.md §4.9
// rule 5).
func EventBindingsChanged(c Component) bool {
	b := c.base()
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := b.eventBindingsChanged
	b.eventBindingsChanged = false
	return changed
}

// validateUpdateTargets enforces spec.md §4.9 rule 4: no two targets may
// share an immediate parent or the same root.
func validateUpdateTargets(targets []Component) error {
	seenParents := make(map[Component]bool)
	seenRoots := make(map[Component]bool)
	for _, t := range targets {
		if t == nil {
			continue
		}
		p := t.Parent()
		if p != nil {
			if seenParents[p] {
				return ErrRedundantUpdateTarget
			}
			seenParents[p] = true
		}
		r := t.Root()
		if r != nil {
			if seenRoots[r] {
				return ErrRedundantUpdateTarget
			}
			seenRoots[r] = true
		}
	}
	return nil
}

func refreshDataEvents(c Component) {
	names := sortedUnique(BoundEventNames(c))
	b := c.base()
	if len(names) == 0 {
		_ = b.props.DeleteSilent("data-events")
		return
	}
	joined := joinComma(names)
	_ = b.props.SetSilent("data-events", joined)
}

func sortedUnique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func joinComma(in []string) string {
	out := ""
	for i, s := range in {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}
