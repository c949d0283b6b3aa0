package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// restoreLog puts the root logger back after a test replaces it.
func restoreLog(t *testing.T) {
	t.Helper()
	prev := Log
	t.Cleanup(func() { Log = prev })
}

func TestDefaultLoggerIsNop(t *testing.T) {
	restoreLog(t)
	Log = zap.NewNop()

	child := For("viewer", zap.String("file", "a.vtx"))
	assert.False(t, child.Core().Enabled(zapcore.DebugLevel))
	assert.False(t, child.Core().Enabled(zapcore.ErrorLevel))
	child.Warn("discarded")
	Sync()
}

func TestForScopesEntries(t *testing.T) {
	restoreLog(t)
	core, logs := observer.New(zapcore.DebugLevel)
	Log = zap.New(core)

	mount := For("mount", zap.String("root", "/games/base"))
	mount.Info("mounted root", zap.Int("entries", 12))
	For("viewer").Named("model").Debug("mesh rebuilt")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "mount", entries[0].LoggerName)
	assert.Equal(t, "mounted root", entries[0].Message)
	assert.Equal(t, map[string]any{"root": "/games/base", "entries": int64(12)}, entries[0].ContextMap())

	assert.Equal(t, "viewer.model", entries[1].LoggerName)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestChildrenTakenBeforeInitStayQuiet(t *testing.T) {
	restoreLog(t)
	Log = zap.NewNop()
	early := For("early")

	var console bytes.Buffer
	require.NoError(t, initWriters("debug", &console, nil))

	early.Info("before init")
	For("late").Info("after init")

	assert.NotContains(t, console.String(), "before init")
	assert.Contains(t, console.String(), "after init")
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level    string
		debug    bool
		info     bool
		warnings bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			restoreLog(t)
			var console bytes.Buffer
			require.NoError(t, initWriters(tt.level, &console, nil))

			log := For("levels")
			log.Debug("debug-entry")
			log.Info("info-entry")
			log.Warn("warn-entry")

			out := console.String()
			assert.Equal(t, tt.debug, strings.Contains(out, "debug-entry"))
			assert.Equal(t, tt.info, strings.Contains(out, "info-entry"))
			assert.Equal(t, tt.warnings, strings.Contains(out, "warn-entry"))
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, "level %q", tt.in)
		assert.Equal(t, tt.want, got, "level %q", tt.in)
	}

	_, err := ParseLevel("chatty")
	assert.Error(t, err)
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	restoreLog(t)
	before := Log

	assert.Error(t, Init("chatty", ""))
	assert.Same(t, before, Log, "root logger kept on error")
}

func TestInitWritesLogFile(t *testing.T) {
	restoreLog(t)
	logFile := filepath.Join(t.TempDir(), "pakview.log")

	require.NoError(t, Init("info", logFile))
	For("mount", zap.String("root", "/games/patch")).Info("mounted root")
	For("mount").Debug("below level")
	Sync()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "mount")
	assert.Contains(t, out, "mounted root")
	assert.Contains(t, out, "/games/patch")
	assert.NotContains(t, out, "below level")
}
