package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/go-lively/lively/wsframe"
	"github.com/stretchr/testify/require"
)

func readBinaryMessage(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	f, err := wsframe.Parse(conn, wsframe.ParseOptions{})
	require.NoError(t, err)
	return f.Payload
}

func TestExecuteJSWithoutWaitReturnsImmediately(t *testing.T) {
	s, client := newPipeSession(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.ExecuteJS(context.Background(), "1+1", "", 0, false)
		require.NoError(t, err)
	}()
	_ = readBinaryMessage(t, client)
	<-done
}

func TestExecuteJSResolvesOnMatchingResult(t *testing.T) {
	s, client := newPipeSession(t)

	resultCh := make(chan interface{}, 1)
	errCh := make(chan error, 1)
	go func() {
		res, err := s.ExecuteJS(context.Background(), "1+1", "", time.Second, true)
		resultCh <- res
		errCh <- err
	}()

	payload := readBinaryMessage(t, client)
	code, args, err := DecodeMessage(payload)
	require.NoError(t, err)
	require.Equal(t, ExecuteJS, code)
	tuple := args
	uid, _ := tuple[4].(string)
	require.NotEmpty(t, uid)

	s.handleJSExecutionResult([]interface{}{
		[]interface{}{"42", "", uid},
	})

	require.Equal(t, "42", <-resultCh)
	require.NoError(t, <-errCh)
}

func TestExecuteJSTimesOutWithoutClientResponse(t *testing.T) {
	s, client := newPipeSession(t)
	go func() {
		_ = readBinaryMessage(t, client)
	}()
	_, err := s.ExecuteJS(context.Background(), "1+1", "", 20*time.Millisecond, true)
	require.ErrorIs(t, err, ErrJSExecutionTimedOut)
}

func TestClosePendingJSUnblocksWaiters(t *testing.T) {
	s, client := newPipeSession(t)
	errCh := make(chan error, 1)
	go func() {
		_, err := s.ExecuteJS(context.Background(), "1+1", "", 0, true)
		errCh <- err
	}()
	_ = readBinaryMessage(t, client)
	s.closePendingJS()
	require.Error(t, <-errCh)
}
