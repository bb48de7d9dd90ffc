package transport

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrJSExecutionTimedOut reports that a client never returned a JS
// execution result within the requested timeout.
var ErrJSExecutionTimedOut = errors.New("transport: javascript execution timed out")

// ErrJSExecutionFailed reports that the client-side script raised or the
// connection closed before a result arrived.
var ErrJSExecutionFailed = errors.New("transport: javascript execution failed")

// ExecuteJS sends code to the client for execution (spec.md §5.1
// EXECUTE_JS). If waitForResult is false it returns immediately once the
// message is sent. If variable is non-empty, the client evaluates it after
// running code and returns its value.
func (s *Session) ExecuteJS(ctx context.Context, code, variable string, timeout time.Duration, waitForResult bool) (interface{}, error) {
	uid := generateShortUID(6)

	var varArg interface{}
	if variable != "" {
		varArg = variable
	}
	var timeoutArg interface{}
	if timeout > 0 {
		timeoutArg = timeout.Milliseconds()
	}

	payload, err := EncodeMessage(ExecuteJS, code, varArg, timeoutArg, waitForResult, uid)
	if err != nil {
		return nil, err
	}

	if !waitForResult {
		return nil, s.sendBinary(payload)
	}

	ch := make(chan jsResult, 1)
	s.pendingMu.Lock()
	s.pending[uid] = ch
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, uid)
		s.pendingMu.Unlock()
	}()

	if err := s.sendBinary(payload); err != nil {
		return nil, err
	}

	waitCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	select {
	case res := <-ch:
		if res.exception != "" {
			return nil, fmt.Errorf("%w: client javascript raised: %s", ErrJSExecutionFailed, res.exception)
		}
		return res.result, nil
	case <-waitCtx.Done():
		if waitCtx.Err() == context.DeadlineExceeded {
			return nil, ErrJSExecutionTimedOut
		}
		return nil, ErrJSExecutionFailed
	}
}

// handleJSExecutionResult processes the client's JS_EXECUTION_RESULT reply
// (spec.md §5.1): [result, exception, uid].
func (s *Session) handleJSExecutionResult(args []interface{}) {
	if len(args) != 1 {
		return
	}
	tuple, ok := args[0].([]interface{})
	if !ok || len(tuple) != 3 {
		return
	}
	result := tuple[0]
	exception := toString(tuple[1])
	uid := toString(tuple[2])

	s.pendingMu.Lock()
	ch, ok := s.pending[uid]
	s.pendingMu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- jsResult{result: result, exception: exception}:
	default:
	}
}

// closePendingJS unblocks every outstanding ExecuteJS waiter when the
// connection is going away, matching original_source's on_close behavior
// of cancelling every execution_futures entry.
func (s *Session) closePendingJS() {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	for uid, ch := range s.pending {
		select {
		case ch <- jsResult{exception: "websocket closed"}:
		default:
		}
		delete(s.pending, uid)
	}
}
