package transport

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/go-lively/lively/observability"
	"github.com/go-lively/lively/wsframe"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func writeClientMessage(t *testing.T, conn net.Conn, opcode EventOpCode, args ...interface{}) {
	t.Helper()
	payload, err := EncodeMessage(opcode, args...)
	require.NoError(t, err)
	f := &wsframe.Frame{OpCode: wsframe.OpBinary, Fin: true, Payload: payload}
	wire, err := f.Serialize(wsframe.SerializeOptions{Mask: true, MaskKeyGen: func() [4]byte { return [4]byte{1, 2, 3, 4} }})
	require.NoError(t, err)
	_, err = conn.Write(wire)
	require.NoError(t, err)
}

func TestSessionRunRateLimitsBurstMessages(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	metrics := observability.NewMetrics("lively_test_ratelimit")
	s := NewSession(server, Options{
		Logger:             observability.Default(),
		Metrics:            metrics,
		RateLimitPerSecond: 1,
		RateLimitBurst:     1,
	})
	root := newFakeRoot(t, "div")
	s.AddRoot(root)

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(context.Background()) }()
	// Drain the server's replies so its writes never block the read loop.
	go func() { _, _ = io.Copy(io.Discard, client) }()

	for i := 0; i < 5; i++ {
		writeClientMessage(t, client, DispatchComponentEvent, []interface{}{root.UID(), "nope", "click", "", false})
	}
	client.Close()

	<-runErr
	require.Greater(t, testutil.ToFloat64(metrics.RateLimited), float64(0))
}
