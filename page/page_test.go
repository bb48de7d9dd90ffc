package page

import (
	"context"
	"strings"
	"testing"

	"github.com/go-lively/lively/component"
	"github.com/stretchr/testify/require"
)

func TestNewPageBuildsDocumentSkeleton(t *testing.T) {
	p, err := NewPage("Home", "")
	require.NoError(t, err)
	require.Equal(t, "en", p.Props().Map()["lang"])
	require.Equal(t, 2, p.ChildrenList().Len())
}

func TestRenderDocumentIncludesMetaAndBootstrap(t *testing.T) {
	p, err := NewPage("Home - Example", "en")
	require.NoError(t, err)
	p.SetDescription("An example page")
	p.WSURL = "wss://example.test/ws"
	p.Debug = true

	out := p.RenderDocument("")
	require.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	require.Contains(t, out, `<title>Home - Example</title>`)
	require.Contains(t, out, `content="An example page"`)
	require.Contains(t, out, "window.PAGE_UID=")
	require.Contains(t, out, "wss://example.test/ws")
	require.Contains(t, out, `id="lively-progress"`)
	require.Contains(t, out, `id="lively-snackbar"`)
	require.Contains(t, out, "function showSnackbar(")
	require.Contains(t, out, "function updateProgressBar(")
}

func TestRenderDocumentSkipsBootstrapWhenLivelyDisabled(t *testing.T) {
	p, err := NewPage("Static", "en")
	require.NoError(t, err)
	p.DisableLively = true

	out := p.RenderDocument("")
	require.NotContains(t, out, "PAGE_UID")
	require.NotContains(t, out, "lively-progress")
}

func TestIsPageSatisfiesStructuralCheck(t *testing.T) {
	p, err := NewPage("T", "en")
	require.NoError(t, err)
	var anyComp interface{} = p
	checker, ok := anyComp.(interface{ IsPage() bool })
	require.True(t, ok)
	require.True(t, checker.IsPage())
}

func TestBindDocumentEventRejectsNonPage(t *testing.T) {
	leaf := newPlainLeaf(t, "div")
	err := BindDocumentEvent(leaf, "DOMContentLoaded", func(ctx context.Context, c component.Component, value string) (interface{}, error) {
		return nil, nil
	}, component.ForceBind())
	require.ErrorIs(t, err, component.ErrDocumentEventOnNonPage)
}

func newPlainLeaf(t *testing.T, tag string) component.Component {
	t.Helper()
	n := &plainLeaf{}
	b, err := component.Init(n, tag, false, false)
	require.NoError(t, err)
	n.Base = b
	return n
}

type plainLeaf struct{ *component.Base }
