package host

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-lively/lively/component"
	"github.com/go-lively/lively/page"
	"github.com/go-lively/lively/transport"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	return NewAdapter(nil, transport.Options{})
}

func TestAcceptKeyMatchesRFC6455Example(t *testing.T) {
	// RFC 6455 §1.3 worked example.
	require.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", acceptKey("dGhlIHNhbXBsZSBub25jZQ=="))
}

func TestServeDocumentRendersPageHTML(t *testing.T) {
	a := newTestAdapter(t)
	a.RegisterPage("/", "/ws", func(c echo.Context) (component.Component, bool, error) {
		pg, err := page.NewPage("Home", "en")
		if err != nil {
			return nil, false, err
		}
		return pg, false, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<title>Home</title>")
	require.Contains(t, rec.Body.String(), "window.LIVELY_WS_URL")
}

func TestNavigateCapturesResolvedComponentWithoutWritingResponse(t *testing.T) {
	a := newTestAdapter(t)
	a.RegisterPage("/about", "/about/ws", func(c echo.Context) (component.Component, bool, error) {
		pg, err := page.NewPage("About", "en")
		if err != nil {
			return nil, false, err
		}
		return pg, false, nil
	})

	root, fullReload, _, err := a.Navigate(context.Background(), "/about", nil)
	require.NoError(t, err)
	require.False(t, fullReload)
	require.NotNil(t, root)

	pg, ok := root.(*page.Page)
	require.True(t, ok)
	require.True(t, pg.IsPage())
}

func TestNavigateFallsBackToFullReloadForUnknownRoute(t *testing.T) {
	a := newTestAdapter(t)
	root, fullReload, _, err := a.Navigate(context.Background(), "/does-not-exist", nil)
	require.NoError(t, err)
	require.True(t, fullReload)
	require.Nil(t, root)
}

func TestNavigateSurfacesSetCookieHeaderFromRouteHandler(t *testing.T) {
	a := newTestAdapter(t)
	a.RegisterPage("/login", "/login/ws", func(c echo.Context) (component.Component, bool, error) {
		if err := a.SetCookie(c, "session", "user-42", time.Hour); err != nil {
			return nil, false, err
		}
		pg, err := page.NewPage("Login", "en")
		if err != nil {
			return nil, false, err
		}
		return pg, false, nil
	})

	root, fullReload, respHeaders, err := a.Navigate(context.Background(), "/login", nil)
	require.NoError(t, err)
	require.False(t, fullReload)
	require.NotNil(t, root)
	require.Contains(t, respHeaders, "set-cookie")
}

func TestSetCookieAndGetCookieRoundTripSigned(t *testing.T) {
	a := NewAdapter([]byte("test-secret"), transport.Options{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, a.SetCookie(c, "session", "user-42", time.Hour))

	setCookies := rec.Result().Cookies()
	require.Len(t, setCookies, 1)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(setCookies[0])
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)

	value, err := a.GetCookie(c2, "session")
	require.NoError(t, err)
	require.Equal(t, "user-42", value)
}

func TestDebugEnabledReflectsConfiguration(t *testing.T) {
	a := newTestAdapter(t)
	require.False(t, a.DebugEnabled())
	a.Debug = true
	require.True(t, a.DebugEnabled())
}
