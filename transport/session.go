package transport

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"net"
	"sync"
	"time"

	"github.com/go-lively/lively/component"
	"github.com/go-lively/lively/observability"
	"github.com/go-lively/lively/wsframe"
	"golang.org/x/time/rate"
)

// defaultMaxMessageSize bounds a single WebSocket message, mirroring the
// teacher's page_content.go SEC-005 read-limit comment.
const defaultMaxMessageSize = 1 << 20 // 1 MiB

// pingInterval is how often the session pings an idle client to detect
// dead connections, matching the teacher's 30s keep-alive ticker.
const pingInterval = 30 * time.Second

// readTimeout bounds how long the session waits for client traffic before
// treating the connection as dead.
const readTimeout = 60 * time.Second

// Options configures a Session.
type Options struct {
	Logger               *observability.Logger
	Metrics              *observability.Metrics
	Debug                bool
	MustReloadOnUnknown  bool // sent as must_reload in COMPONENT_UNKNOWN when a UID can't be resolved
	RateLimitPerSecond   float64
	RateLimitBurst       int
	MaxMessageSize       int64
	Extensions           []wsframe.Extension
	Navigator            Navigator
}

// Session owns one client WebSocket connection: reading client messages,
// dispatching component events, and writing patches/JS-exec requests back
// (spec.md §5, §6.3).
type Session struct {
	conn    net.Conn
	br      *bufio.Reader
	opts    Options
	logger  *observability.Logger
	metrics *observability.Metrics
	limiter *rate.Limiter

	writeMu sync.Mutex

	rootsMu sync.RWMutex
	roots   map[string]component.Component

	pendingMu sync.Mutex
	pending   map[string]chan jsResult
}

type jsResult struct {
	result    interface{}
	exception string
}

// NewSession wraps a hijacked, already-upgraded net.Conn (the HTTP
// Upgrade handshake is the host package's job; this package only speaks
// the post-handshake frame/message protocol).
func NewSession(conn net.Conn, opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = observability.Default()
	}
	if opts.MaxMessageSize == 0 {
		opts.MaxMessageSize = defaultMaxMessageSize
	}
	if opts.RateLimitPerSecond == 0 {
		opts.RateLimitPerSecond = 50
	}
	if opts.RateLimitBurst == 0 {
		opts.RateLimitBurst = 100
	}
	return &Session{
		conn:    conn,
		br:      bufio.NewReader(conn),
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimitPerSecond), opts.RateLimitBurst),
		roots:   make(map[string]component.Component),
		pending: make(map[string]chan jsResult),
	}
}

// AddRoot registers root under its own UID (assigning one first if
// necessary) so DISPATCH_COMPONENT_EVENT messages naming it can resolve
// components through its registry.
func (s *Session) AddRoot(root component.Component) {
	component.AssignUIDs(root, "0", false)
	if s.metrics != nil {
		registry := root.Registry()
		registry.OnEvict(func(uid string) {
			s.metrics.RegistryEvictions.Inc()
			s.metrics.RegistrySize.Set(float64(registry.Len()))
		})
		s.metrics.RegistrySize.Set(float64(registry.Len()))
	}
	s.rootsMu.Lock()
	s.roots[root.UID()] = root
	s.rootsMu.Unlock()
}

func (s *Session) rootByUID(uid string) (component.Component, bool) {
	s.rootsMu.RLock()
	defer s.rootsMu.RUnlock()
	r, ok := s.roots[uid]
	return r, ok
}

// Run drives the session until the connection closes or ctx is canceled.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.closePendingJS()

	go s.pingLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_ = s.conn.SetReadDeadline(time.Now().Add(readTimeout))
		msg, opcode, err := s.readMessage()
		if err != nil {
			return err
		}

		switch opcode {
		case wsframe.OpClose:
			return nil
		case wsframe.OpPing:
			s.sendControl(wsframe.OpPong, msg)
			continue
		case wsframe.OpPong:
			continue
		case wsframe.OpBinary:
			// fallthrough to dispatch below
		default:
			continue
		}

		if !s.limiter.Allow() {
			s.logger.Warn("rate limit exceeded, dropping message")
			if s.metrics != nil {
				s.metrics.RateLimited.Inc()
			}
			continue
		}

		code, args, err := DecodeMessage(msg)
		if err != nil {
			s.logger.Warn("invalid message from client: %v", err)
			continue
		}
		s.dispatch(ctx, code, args)
	}
}

// readMessage reads one logical WebSocket message, reassembling
// continuation frames until FIN.
func (s *Session) readMessage() ([]byte, wsframe.OpCode, error) {
	var payload []byte
	var opcode wsframe.OpCode
	first := true

	for {
		f, err := wsframe.Parse(s.br, wsframe.ParseOptions{
			MaskRequired: true,
			MaxSize:      s.opts.MaxMessageSize,
			Extensions:   s.opts.Extensions,
		})
		if err != nil {
			return nil, 0, err
		}

		if first {
			opcode = f.OpCode
			first = false
		}
		if f.OpCode.IsControl() {
			return f.Payload, f.OpCode, nil
		}

		payload = append(payload, f.Payload...)
		if int64(len(payload)) > s.opts.MaxMessageSize {
			return nil, 0, wsframe.ErrPayloadTooBig
		}
		if f.Fin {
			return payload, opcode, nil
		}
	}
}

func (s *Session) sendControl(op wsframe.OpCode, payload []byte) {
	f := &wsframe.Frame{OpCode: op, Fin: true, Payload: payload}
	wire, err := f.Serialize(wsframe.SerializeOptions{})
	if err != nil {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_, _ = s.conn.Write(wire)
}

// sendBinary frames and writes a MessagePack-encoded message to the client.
func (s *Session) sendBinary(payload []byte) error {
	f := &wsframe.Frame{OpCode: wsframe.OpBinary, Fin: true, Payload: payload}
	wire, err := f.Serialize(wsframe.SerializeOptions{Extensions: s.opts.Extensions})
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_, err = s.conn.Write(wire)
	return err
}

func (s *Session) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sendControl(wsframe.OpPing, nil)
		}
	}
}

// generateShortUID produces a short URL-safe random ID used to correlate
// EXECUTE_JS requests with JS_EXECUTION_RESULT responses, matching
// original_source's secrets.token_urlsafe(length)[:length] generator.
func generateShortUID(length int) string {
	buf := make([]byte, length)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)[:length]
}
