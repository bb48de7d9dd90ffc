// Package page implements the Page root specialization (spec.md §6.4):
// the full HTML document contract, document-scoped event bindings, and the
// fullpage-reload escape hatch navigation consults.
package page

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/go-lively/lively/component"
	"github.com/go-lively/lively/transport"
)

// headNode/bodyNode are the minimal inner containers backing Page.Head and
// Page.Body — application code appends its own content under Body.
type headNode struct{ *component.Base }
type bodyNode struct{ *component.Base }

func newHead() (*headNode, error) {
	n := &headNode{}
	b, err := component.Init(n, "head", true, false)
	if err != nil {
		return nil, err
	}
	n.Base = b
	return n, nil
}

func newBody() (*bodyNode, error) {
	n := &bodyNode{}
	b, err := component.Init(n, "body", true, false)
	if err != nil {
		return nil, err
	}
	n.Base = b
	return n, nil
}

// Page is a full HTML document: an <html> root whose children are a <head>
// and <body>, plus the runtime bootstrap (PAGE_UID, the WebSocket URL, the
// debug flag, a progress bar and a snackbar) that makes the rendered
// document a live connection target.
type Page struct {
	*component.Base

	Head *headNode
	Body *bodyNode

	// DisableLively skips the runtime bootstrap script, producing a static
	// document the client never opens a WebSocket against.
	DisableLively bool

	fullPageReload        bool
	fullPageReloadHeaders []string

	WSURL string
	Debug bool

	docMu       sync.Mutex
	docBindings map[string]*component.EventBinding
	docFired    map[string]bool

	meta      map[string]string
	titleText string
}

// NewPage constructs a Page root with the baseline document skeleton
// (original_source's Page.on_create): a <head> carrying charset/viewport/
// description/robots/keywords meta tags and a <title>, and an empty <body>
// ready for application content.
func NewPage(title, lang string) (*Page, error) {
	p := &Page{
		fullPageReloadHeaders: []string{"set-cookie"},
		docBindings:           make(map[string]*component.EventBinding),
		docFired:              make(map[string]bool),
		meta:                  make(map[string]string),
		titleText:             title,
	}
	base, err := component.Init(p, "html", true, false)
	if err != nil {
		return nil, err
	}
	p.Base = base
	if lang == "" {
		lang = "en"
	}
	_ = p.Props().Set("lang", lang)

	head, err := newHead()
	if err != nil {
		return nil, err
	}
	p.Head = head

	body, err := newBody()
	if err != nil {
		return nil, err
	}
	p.Body = body
	_ = p.Body.Style().Set("display", "flex")
	_ = p.Body.Style().Set("flex-direction", "column")

	if err := p.ChildrenList().Extend(head, body); err != nil {
		return nil, err
	}

	p.meta["description"] = ""
	p.meta["keywords"] = ""
	p.meta["robots"] = "index, follow"
	return p, nil
}

// IsPage satisfies the structural check transport/dispatch.go and
// transport/navigation.go use to recognize a Page without importing this
// package (which would otherwise import transport right back).
func (p *Page) IsPage() bool { return true }

// FullPageReload satisfies transport's fullPageReloader structural check.
func (p *Page) FullPageReload() bool { return p.fullPageReload }

// SetFullPageReload forces every navigation targeting this page to fall
// back to a full client reload instead of a patched transition.
func (p *Page) SetFullPageReload(v bool) { p.fullPageReload = v }

// FullPageReloadHeaders lists response header names (case-insensitive)
// whose presence during navigation forces a full reload — the
// original_source default is just "set-cookie".
func (p *Page) FullPageReloadHeaders() []string { return p.fullPageReloadHeaders }

// SetFullPageReloadHeaders overrides the header allow-list.
func (p *Page) SetFullPageReloadHeaders(headers []string) { p.fullPageReloadHeaders = headers }

// SetTitle sets the document <title> text (original_source's set_title).
func (p *Page) SetTitle(title string) { p.titleText = title }

// SetDescription sets the meta description content.
func (p *Page) SetDescription(d string) { p.meta["description"] = d }

// SetKeywords sets the meta keywords content from a list, comma-joined.
func (p *Page) SetKeywords(keywords []string) { p.meta["keywords"] = strings.Join(keywords, ", ") }

// SetRobots overrides the default "index, follow" robots directive.
func (p *Page) SetRobots(content string) { p.meta["robots"] = content }

// SetCanonical sets the canonical link href.
func (p *Page) SetCanonical(url string) { p.meta["canonical"] = url }

// OpenGraph holds the common OpenGraph tags used for social previews.
type OpenGraph struct {
	Title       string
	Description string
	URL         string
	Image       string
	Type        string
	SiteName    string
}

// SetOpenGraph records OG tags rendered into <head> (original_source's
// set_opengraph).
func (p *Page) SetOpenGraph(og OpenGraph) {
	p.meta["og:title"] = og.Title
	p.meta["og:description"] = og.Description
	p.meta["og:url"] = og.URL
	p.meta["og:image"] = og.Image
	p.meta["og:type"] = og.Type
	p.meta["og:site_name"] = og.SiteName
}

// TwitterCard holds the Twitter card meta tags.
type TwitterCard struct {
	Card        string
	Title       string
	Description string
	Image       string
}

// SetTwitterCard records Twitter card tags rendered into <head>.
func (p *Page) SetTwitterCard(tc TwitterCard) {
	p.meta["twitter:card"] = tc.Card
	p.meta["twitter:title"] = tc.Title
	p.meta["twitter:description"] = tc.Description
	p.meta["twitter:image"] = tc.Image
}

// JSONLD serializes data as a <script type="application/ld+json"> body.
func JSONLD(data map[string]interface{}) (string, error) {
	buf, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// DocumentBind attaches handler to a document-scoped event (e.g.
// DOMContentLoaded) — only ever valid on a Page, per spec.md §4.9 rule 2.
// DOMContentLoaded fires at most once per page instance (rule 3), tracked
// via MarkDocumentEventFired.
func (p *Page) DocumentBind(event string, handler component.EventHandlerFunc, targets ...component.Component) {
	p.docMu.Lock()
	defer p.docMu.Unlock()
	p.docBindings[event] = &component.EventBinding{Handler: handler, Targets: targets, UpdateSelf: true}
}

// DocumentBinding returns the binding for a document-scoped event, if any.
func (p *Page) DocumentBinding(event string) (*component.EventBinding, bool) {
	p.docMu.Lock()
	defer p.docMu.Unlock()
	b, ok := p.docBindings[event]
	return b, ok
}

// MarkDocumentEventFired records that event has already been delivered once
// and reports whether this is the first delivery.
func (p *Page) MarkDocumentEventFired(event string) (firstTime bool) {
	p.docMu.Lock()
	defer p.docMu.Unlock()
	if p.docFired[event] {
		return false
	}
	p.docFired[event] = true
	return true
}

// BindDocumentEvent validates target is a Page before delegating to
// component.Bind — exported so callers wiring arbitrary components don't
// have to duplicate the ErrDocumentEventOnNonPage check themselves.
func BindDocumentEvent(target component.Component, eventName string, handler component.EventHandlerFunc, opts ...component.BindOption) error {
	if _, ok := target.(interface{ IsPage() bool }); !ok {
		return component.ErrDocumentEventOnNonPage
	}
	return component.Bind(target, eventName, handler, opts...)
}

// Notify asks the client to show a transient message via the page's
// snackbar script (bootstrapScript's showSnackbar, adapted from
// original_source's Snackbar.on_create inline script to also set the
// message text, since this module's snackbar element isn't a full
// component in the tree the way original_source's Snackbar is), driven
// through EXECUTE_JS rather than a server-side VDOM mutation since the
// snackbar's visibility is itself client-side state.
func (p *Page) Notify(ctx context.Context, s *transport.Session, message, level string, timeoutMS int) error {
	code := fmt.Sprintf(
		"showSnackbar(document.getElementById('lively-snackbar'), %q, %q, %s)",
		message, level, jsIntOrNull(timeoutMS),
	)
	_, err := s.ExecuteJS(ctx, code, "", 0, false)
	return err
}

func jsIntOrNull(ms int) string {
	if ms <= 0 {
		return "null"
	}
	return fmt.Sprintf("%d", ms)
}

// bootstrapScript defines the client-side helpers the progress bar and
// snackbar chrome in RenderDocument call into. updateProgressBar/
// hideProgressBar are adapted from original_source's ProgressBar.on_create
// inline script; showSnackbar/hideSnackbar are adapted from Snackbar's,
// extended with a message argument since this module renders the snackbar
// as static document chrome rather than as its own component subtree.
const bootstrapScript = `
function updateProgressBar(progress) {
  const bar = document.getElementById('lively-progress');
  if (!bar) return;
  progress = Math.max(0, Math.min(100, progress));
  requestAnimationFrame(function() {
    if (progress > 0) {
      bar.style.display = 'block';
      bar.style.width = progress + '%';
    } else {
      hideProgressBar();
    }
  });
}
function hideProgressBar() {
  const bar = document.getElementById('lively-progress');
  if (!bar) return;
  requestAnimationFrame(function() {
    bar.style.display = 'none';
    bar.style.width = '0%';
  });
}
if (!window._snackbarTimers) window._snackbarTimers = new WeakMap();
function showSnackbar(snackbar, message, type, timeout) {
  if (!snackbar) return;
  let bg = type === 'error' ? '#f44336' : (type === 'success' ? '#43a047' : '#2196f3');
  snackbar.style.background = bg;
  snackbar.textContent = message;
  let prevTimer = window._snackbarTimers.get(snackbar);
  if (prevTimer) clearTimeout(prevTimer);
  snackbar.style.display = 'flex';
  if (timeout) {
    let timer = setTimeout(function() { hideSnackbar(snackbar); }, timeout);
    window._snackbarTimers.set(snackbar, timer);
  }
}
function hideSnackbar(snackbar) {
  if (!snackbar) return;
  snackbar.style.display = 'none';
  window._snackbarTimers.delete(snackbar);
}
`

// RenderDocument builds the full HTML page (spec.md §6.4): a DOCTYPE
// prefix, the <head>'s SEO/social meta tags, the rendered <body> subtree,
// and — unless DisableLively is set — the runtime bootstrap script plus
// progress bar and snackbar elements. cspNonce, when non-empty, is attached
// to every inline <script>/<style> this method emits.
func (p *Page) RenderDocument(cspNonce string) string {
	component.AssignUIDs(p, "0", false)

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>")
	buf.WriteString(fmt.Sprintf(`<html lang="%s">`, html.EscapeString(p.Props().Map()["lang"])))

	buf.WriteString("<head>")
	buf.WriteString(`<meta charset="UTF-8"/>`)
	buf.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0"/>`)
	buf.WriteString(fmt.Sprintf(`<meta name="description" content="%s"/>`, html.EscapeString(p.meta["description"])))
	buf.WriteString(fmt.Sprintf(`<meta name="robots" content="%s"/>`, html.EscapeString(p.meta["robots"])))
	if kw := p.meta["keywords"]; kw != "" {
		buf.WriteString(fmt.Sprintf(`<meta name="keywords" content="%s"/>`, html.EscapeString(kw)))
	}
	buf.WriteString(fmt.Sprintf(`<meta http-equiv="Content-Language" content="%s"/>`, html.EscapeString(p.Props().Map()["lang"])))
	if c := p.meta["canonical"]; c != "" {
		buf.WriteString(fmt.Sprintf(`<link rel="canonical" href="%s"/>`, html.EscapeString(c)))
	}
	for _, key := range []string{
		"og:title", "og:description", "og:url", "og:image", "og:type", "og:site_name",
		"twitter:card", "twitter:title", "twitter:description", "twitter:image",
	} {
		if v, ok := p.meta[key]; ok && v != "" {
			buf.WriteString(fmt.Sprintf(`<meta property="%s" content="%s"/>`, html.EscapeString(key), html.EscapeString(v)))
		}
	}
	buf.WriteString(fmt.Sprintf(`<title>%s</title>`, html.EscapeString(p.titleText)))
	buf.WriteString(component.RenderHTML(p.Head))

	if !p.DisableLively {
		nonceAttr := ""
		if cspNonce != "" {
			nonceAttr = fmt.Sprintf(` nonce="%s"`, html.EscapeString(cspNonce))
		}
		buf.WriteString(fmt.Sprintf(`<script%s>window.PAGE_UID=%q;window.LIVELY_WS_URL=%q;window.LIVELY_DEBUG=%v;</script>`,
			nonceAttr, p.UID(), p.WSURL, p.Debug))
		buf.WriteString(fmt.Sprintf("<script%s>%s</script>", nonceAttr, bootstrapScript))
	}
	buf.WriteString("</head>")

	buf.WriteString("<body")
	if styleStr := bodyStyleAttr(p.Body); styleStr != "" {
		buf.WriteString(fmt.Sprintf(` style="%s"`, styleStr))
	}
	buf.WriteString(">")
	for _, child := range p.Body.ChildrenList().All() {
		buf.WriteString(component.RenderHTML(child))
	}
	if !p.DisableLively {
		buf.WriteString(`<div id="lively-progress" role="progressbar" style="width:100%;height:3px;display:none;"></div>`)
		buf.WriteString(`<div id="lively-snackbar" style="position:fixed;top:0;left:0;right:0;display:none;"></div>`)
	}
	buf.WriteString("</body></html>")
	return buf.String()
}

func bodyStyleAttr(b *bodyNode) string {
	entries := b.Style().Snapshot()
	if len(entries) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, kv := range entries {
		sb.WriteString(kv.Key)
		sb.WriteString(":")
		sb.WriteString(kv.Value)
		sb.WriteString(";")
	}
	return sb.String()
}
