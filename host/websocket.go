package host

import (
	"bufio"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// websocketMagicGUID is RFC 6455's fixed handshake constant.
const websocketMagicGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// ErrNotUpgradeRequest reports that the incoming request didn't ask for a
// WebSocket upgrade.
var ErrNotUpgradeRequest = errors.New("host: request is not a websocket upgrade")

// errNotHijackable reports that the response writer can't be hijacked into
// a raw net.Conn — needed since this module speaks RFC 6455 frames
// directly (wsframe) instead of delegating to a pre-built WebSocket
// library (see DESIGN.md's dropped-dependency note on gorilla/websocket).
var errNotHijackable = errors.New("host: response writer does not support hijacking")

// upgradeWebSocket validates the WebSocket upgrade handshake and hijacks
// the connection, handing back the raw net.Conn and its buffered reader so
// transport.NewSession can take over framing immediately after the 101
// response is written. Grounded on RFC 6455 §4.2.2; the teacher's
// page_content.go instead delegates this whole step to
// gorilla/websocket's Upgrader, which this module deliberately replaces.
func upgradeWebSocket(c echo.Context) (net.Conn, *bufio.Reader, error) {
	req := c.Request()
	if !strings.EqualFold(req.Header.Get("Connection"), "upgrade") &&
		!strings.Contains(strings.ToLower(req.Header.Get("Connection")), "upgrade") {
		return nil, nil, ErrNotUpgradeRequest
	}
	if !strings.EqualFold(req.Header.Get("Upgrade"), "websocket") {
		return nil, nil, ErrNotUpgradeRequest
	}
	key := req.Header.Get("Sec-WebSocket-Key")
	if key == "" {
		return nil, nil, ErrNotUpgradeRequest
	}

	hj, ok := hijacker(c.Response())
	if !ok {
		return nil, nil, errNotHijackable
	}
	conn, rw, err := hj.Hijack()
	if err != nil {
		return nil, nil, err
	}

	accept := acceptKey(key)
	resp := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: " + accept + "\r\n\r\n"
	if _, err := conn.Write([]byte(resp)); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, rw.Reader, nil
}

func hijacker(w http.ResponseWriter) (http.Hijacker, bool) {
	if hj, ok := w.(http.Hijacker); ok {
		return hj, true
	}
	if resp, ok := w.(*echo.Response); ok {
		if hj, ok := resp.Writer.(http.Hijacker); ok {
			return hj, true
		}
	}
	return nil, false
}

func acceptKey(clientKey string) string {
	h := sha1.New()
	h.Write([]byte(clientKey))
	h.Write([]byte(websocketMagicGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
