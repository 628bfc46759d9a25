// ABOUTME: Tests for logger construction
// ABOUTME: Verifies level parsing, format selection, and file output

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")
	log.Info("login succeeded", "user_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "login succeeded", entry["msg"])
	assert.EqualValues(t, 7, entry["user_id"])
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "text")
	log.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestOpen_WritesToConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "storefront")

	log, closer, err := Open(dir, "info", "text")
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestOpen_EmptyDirDiscards(t *testing.T) {
	log, closer, err := Open("", "info", "text")
	require.NoError(t, err)
	assert.NotNil(t, log)
	assert.NoError(t, closer.Close())
}
