package transport

import (
	"context"
	"strings"

	"github.com/go-lively/lively/component"
	"github.com/go-lively/lively/vdom"
)

// Navigator resolves a client-side path change into the component tree that
// should replace the page, or reports that the host prefers a full reload
// (spec.md §5.3). The host package implements this by running its router
// against path/headers the same way it would for a fresh HTTP request.
// responseHeaders carries whatever headers that route would have sent on a
// real HTTP response (notably Set-Cookie), keyed lower-case, so the caller
// can apply the next page's FullPageReloadHeaders allow-list.
type Navigator interface {
	Navigate(ctx context.Context, path string, headers map[string]string) (next component.Component, fullReload bool, responseHeaders map[string]string, err error)
}

// fullPageReloader is implemented by components (Page, in practice) that can
// insist on a full browser reload instead of a patched navigation.
type fullPageReloader interface {
	FullPageReload() bool
}

// fullPageReloadHeaderLister is implemented by components (Page, in
// practice) that name response headers which force a full reload rather
// than a patched navigation whenever the navigated-to response carries one
// (spec.md §4.10 step 3).
type fullPageReloadHeaderLister interface {
	FullPageReloadHeaders() []string
}

// headersTriggerFullReload reports whether any header in respHeaders (keyed
// lower-case) matches an entry of allowlist, compared case-insensitively.
func headersTriggerFullReload(respHeaders map[string]string, allowlist []string) bool {
	for _, name := range allowlist {
		if _, ok := respHeaders[strings.ToLower(name)]; ok {
			return true
		}
	}
	return false
}

// handleNavigate implements NAVIGATE_TO (spec.md §5.3, grounded on
// original_source's EventHandler.handle_navigation): diff the previously
// rendered component against the component the path now resolves to and
// stream the minimal patch list, falling back to a full reload whenever the
// previous component, the new component, or the Navigator itself isn't
// available.
//
// Recv format: [120, [prev_component_uid, next_component_uid, path, headers]]
// Send format: [121, path, fullreload, component_uid, patches, is_final]
func (s *Session) handleNavigate(ctx context.Context, args []interface{}) {
	if len(args) != 1 {
		return
	}
	tuple, ok := args[0].([]interface{})
	if !ok || len(tuple) != 4 {
		return
	}
	prevUID := toString(tuple[0])
	nextUID := toString(tuple[1])
	path := toString(tuple[2])
	headers := toStringMap(tuple[3])

	if prevUID == "" || path == "" {
		s.sendFullReload(path)
		return
	}

	root, ok := s.rootByUID(prevUID)
	if !ok {
		s.sendFullReload(path)
		return
	}
	prevComponent, ok := root.Registry().Get(prevUID)
	if !ok {
		s.sendFullReload(path)
		return
	}

	var next component.Component
	var respHeaders map[string]string
	if nextUID != "" {
		next, _ = root.Registry().Get(nextUID)
	}
	if next == nil {
		if s.opts.Navigator == nil {
			s.sendFullReload(path)
			return
		}
		resolved, fullReload, respHdrs, err := s.opts.Navigator.Navigate(ctx, path, headers)
		if err != nil || fullReload || resolved == nil {
			s.sendFullReload(path)
			return
		}
		next = resolved
		respHeaders = respHdrs
	}

	if fr, ok := next.(fullPageReloader); ok && fr.FullPageReload() {
		s.sendFullReload(path)
		return
	}
	// spec.md §4.10 step 3: a response carrying a header the next page
	// flags via FullPageReloadHeaders (e.g. Set-Cookie) forces a full
	// reload instead of a patched transition.
	if fr, ok := next.(fullPageReloadHeaderLister); ok && headersTriggerFullReload(respHeaders, fr.FullPageReloadHeaders()) {
		s.sendFullReload(path)
		return
	}

	s.AddRoot(next)

	prevVDOM := vdom.Snapshot(prevComponent)
	nextVDOM := vdom.Snapshot(next)

	patchCount := 0
	vdom.DiffAndAct(func(p vdom.Patch) {
		patchCount++
		_ = s.sendNavigationResult(path, false, next.UID(), []vdom.Patch{p}, false)
	}, prevVDOM, nextVDOM)

	_ = s.sendNavigationResult(path, false, next.UID(), nil, true)
}

func (s *Session) sendFullReload(path string) {
	if s.metrics != nil {
		s.metrics.FullReloads.Inc()
	}
	_ = s.sendNavigationResult(path, true, "", nil, true)
}

func (s *Session) sendNavigationResult(path string, fullReload bool, componentUID string, patches []vdom.Patch, isFinal bool) error {
	var componentUIDArg interface{}
	if componentUID != "" {
		componentUIDArg = componentUID
	}
	wire := make([]interface{}, len(patches))
	for i, p := range patches {
		wire[i] = p.ToWire()
	}
	payload, err := EncodeMessage(NavigationResult, path, fullReload, componentUIDArg, wire, isFinal)
	if err != nil {
		return err
	}
	return s.sendBinary(payload)
}

func toStringMap(v interface{}) map[string]string {
	out := map[string]string{}
	switch m := v.(type) {
	case map[string]interface{}:
		for k, val := range m {
			out[k] = toString(val)
		}
	case map[interface{}]interface{}:
		for k, val := range m {
			ks, _ := k.(string)
			out[ks] = toString(val)
		}
	}
	return out
}
