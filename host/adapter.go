// Package host wires the component/transport/page stack into a concrete
// HTTP server: it serves the initial document over plain HTTP, upgrades
// the follow-up connection to the WebSocket transport, and resolves
// client-side navigation by replaying routes through its own router
// (spec.md §4.10, §6.5).
//
// The teacher's liveview.PageControl did the HTTP half of this job with
// gorilla/websocket and a text/template document; this package keeps
// echo as the router but speaks the RFC 6455 handshake itself (see
// websocket.go) and renders documents through page.Page.RenderDocument.
package host

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-lively/lively/component"
	"github.com/go-lively/lively/observability"
	"github.com/go-lively/lively/page"
	"github.com/go-lively/lively/transport"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// RouteHandler resolves an incoming request into the component tree that
// should be mounted at that path. fullReload tells the caller (direct HTTP
// load or synthesized navigation) that the route insists on a full browser
// reload rather than a patched transition.
type RouteHandler func(c echo.Context) (root component.Component, fullReload bool, err error)

// Adapter is the host application: an echo.Echo router plus the session
// options every upgraded connection is built with.
type Adapter struct {
	Echo           *echo.Echo
	SessionOptions transport.Options
	Debug          bool

	jwtSecret []byte
}

// NewAdapter creates an Adapter around a fresh echo.Echo. jwtSecret signs
// cookies set through SetCookie; a nil secret leaves cookies unsigned,
// matching original_source's behavior when no secret key is configured.
func NewAdapter(jwtSecret []byte, opts transport.Options) *Adapter {
	if opts.Logger == nil {
		opts.Logger = observability.Default()
	}
	return &Adapter{
		Echo:           echo.New(),
		SessionOptions: opts,
		jwtSecret:      jwtSecret,
	}
}

// RegisterPage wires handler at path for both the initial HTML document
// and the WebSocket transport, plus wsPath for the upgrade itself
// (mirroring the teacher's pc.Path / pc.Path+"ws_goliveview" pair).
func (a *Adapter) RegisterPage(path, wsPath string, handler RouteHandler) {
	a.Echo.GET(path, a.serveDocument(handler))
	a.Echo.GET(wsPath, a.serveWebSocket(handler))
}

func (a *Adapter) serveDocument(handler RouteHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		root, fullReload, err := handler(c)
		if err != nil {
			return err
		}
		if cap, ok := navCaptureFromContext(c.Request().Context()); ok {
			cap.root, cap.fullReload, cap.err = root, fullReload, nil
			return nil
		}
		if pg, ok := root.(*page.Page); ok {
			return c.HTML(http.StatusOK, pg.RenderDocument(""))
		}
		return c.HTML(http.StatusOK, component.RenderHTML(root))
	}
}

func (a *Adapter) serveWebSocket(handler RouteHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		root, _, err := handler(c)
		if err != nil {
			return err
		}

		conn, rd, err := upgradeWebSocket(c)
		if err != nil {
			return err
		}

		opts := a.SessionOptions
		opts.Debug = a.Debug
		if opts.Navigator == nil {
			opts.Navigator = a
		}
		sess := transport.NewSession(bufferedConn{Conn: conn, r: rd}, opts)
		sess.AddRoot(root)

		go func() {
			defer conn.Close()
			_ = sess.Run(c.Request().Context())
		}()
		return nil
	}
}

// navCaptureKey/navCapture let Navigate recover the component a route
// resolved to without that route writing an HTTP response — the Go
// equivalent of original_source's EventHandler reaching back into its own
// ASGI app (transport.Navigator has no other host to call back into).
type navCaptureKey struct{}

type navCapture struct {
	root       component.Component
	fullReload bool
	err        error
}

func navCaptureFromContext(ctx context.Context) (*navCapture, bool) {
	cap, ok := ctx.Value(navCaptureKey{}).(*navCapture)
	return cap, ok
}

// Navigate implements transport.Navigator by replaying path through this
// Adapter's own router and capturing the component the matching route
// resolves to, instead of letting it render an HTTP response.
func (a *Adapter) Navigate(ctx context.Context, path string, headers map[string]string) (component.Component, bool, map[string]string, error) {
	cap := &navCapture{}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(context.WithValue(req.Context(), navCaptureKey{}, cap))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	// Even though serveDocument returns before writing a body in capture
	// mode, handlers that call c.SetCookie (or otherwise touch
	// c.Response().Header()) write straight through to rec's header map,
	// so it still reflects whatever the real HTTP response would have
	// carried (spec.md §4.10 step 3).
	respHeaders := make(map[string]string, len(rec.Header()))
	for k := range rec.Header() {
		respHeaders[strings.ToLower(k)] = rec.Header().Get(k)
	}

	if cap.err != nil {
		return nil, false, respHeaders, cap.err
	}
	if cap.root == nil {
		// Route didn't resolve through the capture path (unknown route,
		// or a handler that isn't one of ours) — tell the session to
		// fall back to a full reload.
		return nil, true, respHeaders, nil
	}
	return cap.root, cap.fullReload, respHeaders, nil
}

// Resolve wraps echo's named-route reversal (spec.md §6.5).
func (a *Adapter) Resolve(name string, params ...interface{}) string {
	return a.Echo.Reverse(name, params...)
}

// DebugEnabled reports whether the adapter was configured for debug mode.
func (a *Adapter) DebugEnabled() bool { return a.Debug }

// cookieClaims is the JWT payload SetCookie signs and GetCookie verifies.
type cookieClaims struct {
	Value string `json:"value"`
	jwt.RegisteredClaims
}

// GetCookie reads and, if a signing key is configured, verifies a cookie
// set by SetCookie, grounded on the teacher's auth.go JWT pattern.
func (a *Adapter) GetCookie(c echo.Context, name string) (string, error) {
	raw, err := c.Cookie(name)
	if err != nil {
		return "", err
	}
	if len(a.jwtSecret) == 0 {
		return raw.Value, nil
	}
	claims := &cookieClaims{}
	_, err = jwt.ParseWithClaims(raw.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return a.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}
	return claims.Value, nil
}

// SetCookie writes a cookie, JWT-signing its value when a secret key is
// configured (teacher's auth.go: jwt.NewWithClaims + SignedString).
func (a *Adapter) SetCookie(c echo.Context, name, value string, maxAge time.Duration) error {
	out := value
	if len(a.jwtSecret) > 0 {
		claims := &cookieClaims{
			Value: value,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(maxAge)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
		if err != nil {
			return err
		}
		out = signed
	}
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    out,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Path:     "/",
	})
	return nil
}

// bufferedConn adapts a hijacked net.Conn plus the bufio.Reader that may
// already hold bytes the HTTP server read ahead of the handshake, so
// transport.NewSession's own bufio.Reader doesn't silently drop them.
type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (b bufferedConn) Read(p []byte) (int, error) { return b.r.Read(p) }
