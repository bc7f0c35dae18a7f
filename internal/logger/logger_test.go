package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel checks recognized and unrecognized level strings.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	level, ok := ParseLogLevel(" Debug ")
	require.True(t, ok)
	require.Equal(t, zapcore.DebugLevel, level)

	level, ok = ParseLogLevel("nonsense")
	require.False(t, ok)
	require.Equal(t, zapcore.InfoLevel, level)
}

// TestFromContextFallsBackToGlobal verifies context extraction behavior.
func TestFromContextFallsBackToGlobal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	require.Same(t, Logger(), FromContext(ctx))

	named := Logger().Named("scoped")
	ctx = ToContext(ctx, named)
	require.Same(t, named, FromContext(ctx))
}

// TestNewWithFile_FileReceivesDebugEvenWhenConsoleIsQuiet ensures the
// diagnostic log side records everything regardless of console level.
func TestNewWithFile_FileReceivesDebugEvenWhenConsoleIsQuiet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := NewWithFile(zap.NewAtomicLevelAt(zapcore.ErrorLevel), &buf)
	l.Debug("quiet-console-message")
	require.NoError(t, l.Sync())

	require.True(t, strings.Contains(buf.String(), "quiet-console-message"))
	require.True(t, strings.Contains(buf.String(), "DEBUG"))
}
