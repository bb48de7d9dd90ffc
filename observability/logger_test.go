package observability

import (
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/require"
)

func TestLoggerFiltersBelowMinimumLevel(t *testing.T) {
	l := New("test")
	l.SetLevel(LogLevelWarn)

	var buf strings.Builder
	l.out.SetOutput(&buf)

	l.Info("should be dropped")
	l.Warn("should appear")

	require.NotContains(t, buf.String(), "should be dropped")
	require.Contains(t, buf.String(), "should appear")
}

func TestSetDebugTogglesLevel(t *testing.T) {
	l := New("test")
	l.SetDebug(true)
	require.Equal(t, LogLevelDebug, l.level)
	l.SetDebug(false)
	require.Equal(t, LogLevelInfo, l.level)
}

func TestErrorForwardsToAttachedSentryHub(t *testing.T) {
	l := New("test")
	client, err := sentry.NewClient(sentry.ClientOptions{Dsn: ""})
	require.NoError(t, err)
	hub := sentry.NewHub(client, sentry.NewScope())
	l.SetSentryHub(hub)

	// An empty DSN disables actual delivery; this only exercises that
	// attaching a hub and logging at Error level doesn't panic or block.
	l.Error("boom: %s", "disk full")
}

func TestWarnDoesNotForwardToSentry(t *testing.T) {
	l := New("test")
	client, err := sentry.NewClient(sentry.ClientOptions{Dsn: ""})
	require.NoError(t, err)
	hub := sentry.NewHub(client, sentry.NewScope())
	l.SetSentryHub(hub)

	l.Warn("not an error")
}
