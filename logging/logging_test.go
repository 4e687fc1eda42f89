package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextLoggerRedacts(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelDebug).With("scheme", "rsa")

	logger.Debug("generated keys", "n", "3233", Redacted("d"))

	out := buf.String()
	require.Contains(t, out, "scheme=rsa")
	require.Contains(t, out, "n=3233")
	require.Contains(t, out, "d="+Placeholder())
	require.NotContains(t, out, "2753")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	require.False(t, logger.Enabled(slog.LevelInfo))
	require.True(t, logger.Enabled(slog.LevelError))
	require.False(t, strings.Contains(buf.String(), "hidden"))
	require.True(t, strings.Contains(buf.String(), "shown"))
}

func TestNopDiscards(t *testing.T) {
	logger := Nop()
	require.False(t, logger.Enabled(slog.LevelError))
	logger.Error("nothing happens")
}
