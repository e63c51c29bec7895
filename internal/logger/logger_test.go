package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := New(path, "info", true)
	require.NoError(t, err)

	l.Info("session", "session approved", map[string]interface{}{"session_id": 7})
	l.Debug("session", "debug line is filtered", nil)
	l.Error("mentor", "embedding failed", map[string]interface{}{"error": errors.New("boom")})
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, `"message":"session approved"`)
	assert.Contains(t, out, `"module":"session"`)
	assert.Contains(t, out, `"error_ref":"boom"`)
	assert.NotContains(t, out, "debug line is filtered")
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "\n")+1)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("x", "y", nil)
	l.Warn("x", "y", nil)
	// Nop never fails
	assert.NoError(t, l.Sync())
}

func TestNewFileOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.log")
	l, err := NewFileOnly(path, "debug")
	require.NoError(t, err)

	l.Debug("mcp", "tool called", map[string]interface{}{"tool": "meetings_in"})
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tool":"meetings_in"`)
}
