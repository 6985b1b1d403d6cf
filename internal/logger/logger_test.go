package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cryptodb-gateway/internal/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesJSONLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "server.log")
	cfg := config.Default()
	cfg.LogFile = logPath

	svc, err := New(cfg)
	require.NoError(t, err)

	svc.Info("listening", zap.String("addr", "127.0.0.1:4444"))
	svc.Debug("dropped without debug")
	svc.Error("query failed", errors.New("no such table: nope"))
	require.NoError(t, svc.Close())

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "info", first["level"])
	require.Equal(t, "listening", first["msg"])
	require.Equal(t, "127.0.0.1:4444", first["addr"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Equal(t, "error", second["level"])
	require.Equal(t, "no such table: nope", second["error"])
}

func TestErrorWithoutMessageUsesErrorText(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewZap(zap.New(core))

	svc.Error("", errors.New("disk full"))
	svc.Warn("   ")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "disk full", entries[0].Message)
}

func TestSuccessMarksEntryOK(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewZap(zap.New(core))

	svc.Success("cryptodbd listening", zap.String("addr", "127.0.0.1:4444"))

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	require.Equal(t, true, fields["ok"])
	require.Equal(t, "127.0.0.1:4444", fields["addr"])
}
