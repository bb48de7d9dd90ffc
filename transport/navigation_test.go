package transport

import (
	"context"
	"testing"

	"github.com/go-lively/lively/component"
	"github.com/stretchr/testify/require"
)

type stubNavigator struct {
	next        component.Component
	fullReload  bool
	respHeaders map[string]string
	err         error
}

func (n *stubNavigator) Navigate(ctx context.Context, path string, headers map[string]string) (component.Component, bool, map[string]string, error) {
	return n.next, n.fullReload, n.respHeaders, n.err
}

func TestHandleNavigateFallsBackToFullReloadWithoutPrevComponent(t *testing.T) {
	s, client := newPipeSession(t)
	go s.handleNavigate(context.Background(), []interface{}{
		[]interface{}{"missing-root", "", "/next", map[string]interface{}{}},
	})

	payload := readBinaryMessage(t, client)
	code, args, err := DecodeMessage(payload)
	require.NoError(t, err)
	require.Equal(t, NavigationResult, code)
	require.Equal(t, "/next", args[0])
	require.Equal(t, true, args[1])
}

func TestHandleNavigateStreamsPatchesFromNavigator(t *testing.T) {
	s, client := newPipeSession(t)
	prev := newFakeRoot(t, "div")
	s.AddRoot(prev)

	next := newFakeRoot(t, "span")
	s.opts.Navigator = &stubNavigator{next: next}

	go s.handleNavigate(context.Background(), []interface{}{
		[]interface{}{prev.UID(), "", "/next", map[string]interface{}{}},
	})

	payload := readBinaryMessage(t, client)
	code, args, err := DecodeMessage(payload)
	require.NoError(t, err)
	require.Equal(t, NavigationResult, code)
	require.Equal(t, "/next", args[0])
	require.Equal(t, false, args[1])

	// Drain the final is_final=true marker.
	final := readBinaryMessage(t, client)
	_, finalArgs, err := DecodeMessage(final)
	require.NoError(t, err)
	require.Equal(t, true, finalArgs[4])
}

func TestHandleNavigateHonorsFullPageReloadComponent(t *testing.T) {
	s, client := newPipeSession(t)
	prev := newFakeRoot(t, "div")
	s.AddRoot(prev)

	next := &reloadingNode{fakeNode: newFakeRoot(t, "span")}
	s.opts.Navigator = &stubNavigator{next: next}

	go s.handleNavigate(context.Background(), []interface{}{
		[]interface{}{prev.UID(), "", "/next", map[string]interface{}{}},
	})

	payload := readBinaryMessage(t, client)
	_, args, err := DecodeMessage(payload)
	require.NoError(t, err)
	require.Equal(t, true, args[1]) // fullreload
}

type reloadingNode struct {
	*fakeNode
}

func (r *reloadingNode) FullPageReload() bool { return true }

func TestHandleNavigateHonorsSetCookieFullPageReloadHeader(t *testing.T) {
	s, client := newPipeSession(t)
	prev := newFakeRoot(t, "div")
	s.AddRoot(prev)

	next := &headerReloadingNode{fakeNode: newFakeRoot(t, "span"), headers: []string{"set-cookie"}}
	s.opts.Navigator = &stubNavigator{next: next, respHeaders: map[string]string{"set-cookie": "session=abc"}}

	go s.handleNavigate(context.Background(), []interface{}{
		[]interface{}{prev.UID(), "", "/next", map[string]interface{}{}},
	})

	payload := readBinaryMessage(t, client)
	_, args, err := DecodeMessage(payload)
	require.NoError(t, err)
	require.Equal(t, true, args[1]) // fullreload
}

func TestHandleNavigateIgnoresUnlistedResponseHeaders(t *testing.T) {
	s, client := newPipeSession(t)
	prev := newFakeRoot(t, "div")
	s.AddRoot(prev)

	next := &headerReloadingNode{fakeNode: newFakeRoot(t, "span"), headers: []string{"set-cookie"}}
	s.opts.Navigator = &stubNavigator{next: next, respHeaders: map[string]string{"content-type": "text/html"}}

	go s.handleNavigate(context.Background(), []interface{}{
		[]interface{}{prev.UID(), "", "/next", map[string]interface{}{}},
	})

	payload := readBinaryMessage(t, client)
	_, args, err := DecodeMessage(payload)
	require.NoError(t, err)
	require.Equal(t, false, args[1]) // patched transition, no fullreload
}

type headerReloadingNode struct {
	*fakeNode
	headers []string
}

func (r *headerReloadingNode) FullPageReloadHeaders() []string { return r.headers }
