package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-lively/lively/component"
	"github.com/go-lively/lively/vdom"
)

func (s *Session) dispatch(ctx context.Context, code EventOpCode, args []interface{}) {
	switch code {
	case DispatchComponentEvent:
		s.handleComponentEvent(ctx, args)
	case JSExecutionResult:
		s.handleJSExecutionResult(args)
	case NavigateTo:
		s.handleNavigate(ctx, args)
	default:
		s.logger.Warn("unknown opcode from client: %d", code)
	}
}

// documentEventTarget is implemented by components (Page, in practice) that
// carry document-scoped bindings separate from the element-scoped bindings
// component.Bind attaches, plus the once-per-instance dedup for events like
// DOMContentLoaded (spec.md §4.9 rules 2-3, grounded on original_source's
// get_document_event_info at duck/html/components/core/websocket.py:337).
type documentEventTarget interface {
	IsPage() bool
	DocumentBinding(eventName string) (*component.EventBinding, bool)
	MarkDocumentEventFired(eventName string) bool
}

// handleComponentEvent implements the DISPATCH_COMPONENT_EVENT flow
// (spec.md §5.2, grounded on original_source's
// EventHandler.dispatch_component_event): resolve the component, run its
// bound handler, then diff every update target's VDOM before and after,
// deduping against any ForceUpdate patches the handler already sent.
func (s *Session) handleComponentEvent(ctx context.Context, args []interface{}) {
	if len(args) != 1 {
		return
	}
	tuple, ok := args[0].([]interface{})
	if !ok || len(tuple) != 5 {
		return
	}
	rootUID := toString(tuple[0])
	uid := toString(tuple[1])
	eventName := toString(tuple[2])
	value := toString(tuple[3])
	isDocumentEvent := toBool(tuple[4])

	root, ok := s.rootByUID(rootUID)
	if !ok {
		s.emitComponentUnknown(uid)
		return
	}

	target, ok := root.Registry().Get(uid)
	if !ok {
		if s.opts.Debug {
			s.logger.Warn("component %q at root %q not found (document_event=%v)", uid, rootUID, isDocumentEvent)
		}
		s.emitComponentUnknown(uid)
		return
	}

	var binding *component.EventBinding
	if isDocumentEvent {
		page, isPage := target.(documentEventTarget)
		if !isPage {
			s.logger.Warn("document event %q bound on non-Page component %q", eventName, uid)
			return
		}
		// DOMContentLoaded must fire at most once per page instance (spec.md
		// §4.9 rule 3), so a revisit via back navigation doesn't re-run it.
		if eventName == "DOMContentLoaded" && !page.MarkDocumentEventFired(eventName) {
			return
		}
		docBinding, ok := page.DocumentBinding(eventName)
		if !ok {
			return
		}
		binding = docBinding
	} else {
		elementBinding, ok := component.Binding(target, eventName)
		if !ok {
			return
		}
		binding = elementBinding
	}

	start := time.Now()

	targets := append([]component.Component{}, binding.Targets...)
	if binding.UpdateSelf {
		targets = append([]component.Component{target}, targets...)
	}
	oldSnapshots := make(map[component.Component]*vdom.VNode, len(targets))
	for _, t := range targets {
		oldSnapshots[t] = vdom.Snapshot(t)
	}

	forceUpdatesRaw, err := binding.Handler(ctx, target, value)
	if err != nil {
		s.logger.Error("event handler for %q on %q returned an error: %v", eventName, uid, err)
	}
	if s.metrics != nil {
		s.metrics.DispatchedEvents.Inc()
		s.metrics.DispatchLatency.Observe(time.Since(start).Seconds())
	}

	sent := make(map[string]bool)
	propsPatchSentForTarget := false

	emit := func(p vdom.Patch) {
		key := patchDedupKey(p)
		if sent[key] {
			return
		}
		sent[key] = true
		if p.Code == vdom.ReplaceProps && p.Key == target.UID() {
			propsPatchSentForTarget = true
		}
		_ = s.SendPatches([]vdom.Patch{p})
	}

	for _, fu := range forceUpdates(forceUpdatesRaw) {
		fu.GeneratePatches(emit)
	}

	for _, t := range targets {
		oldNode := oldSnapshots[t]
		newNode := vdom.Snapshot(t)
		vdom.DiffAndAct(emit, oldNode, newNode)
	}

	if propsPatchSentForTarget {
		_ = component.EventBindingsChanged(target)
		return
	}
	if component.EventBindingsChanged(target) {
		patch := vdom.Patch{Code: vdom.ReplaceProps, Key: target.UID(), Payload: target.Props().Map()}
		_ = s.SendPatches([]vdom.Patch{patch})
	}
}

// forceUpdates normalizes an event handler's return value (nil, a single
// *vdom.ForceUpdate, or a []*vdom.ForceUpdate) into a slice.
func forceUpdates(v interface{}) []*vdom.ForceUpdate {
	switch fu := v.(type) {
	case nil:
		return nil
	case *vdom.ForceUpdate:
		return []*vdom.ForceUpdate{fu}
	case []*vdom.ForceUpdate:
		return fu
	default:
		return nil
	}
}

func patchDedupKey(p vdom.Patch) string {
	return fmt.Sprintf("%d|%s|%v", p.Code, p.Key, p.Payload)
}

// emitComponentUnknown sends COMPONENT_UNKNOWN for a UID the dispatch
// couldn't resolve (spec.md §5.1, §8 Boundaries).
func (s *Session) emitComponentUnknown(uid string) {
	if s.metrics != nil {
		s.metrics.UnknownComponent.Inc()
	}
	payload, err := EncodeMessage(ComponentUnknown, uid, s.opts.MustReloadOnUnknown)
	if err != nil {
		return
	}
	_ = s.sendBinary(payload)
}

// SendPatches streams a batch of VDOM patches as a single APPLY_PATCH
// message.
func (s *Session) SendPatches(patches []vdom.Patch) error {
	if len(patches) == 0 {
		return nil
	}
	wire := make([]interface{}, len(patches))
	for i, p := range patches {
		wire[i] = p.ToWire()
	}
	if s.metrics != nil {
		s.metrics.PatchesEmitted.Add(float64(len(patches)))
	}
	payload, err := EncodeMessage(ApplyPatch, wire)
	if err != nil {
		return err
	}
	return s.sendBinary(payload)
}
