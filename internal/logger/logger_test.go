package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, err := New(Config{Level: "debug", Output: path, Format: "json"})
	require.NoError(t, err)

	log.Info("document created", zap.String("number", "Q-202303-005"))
	require.NoError(t, log.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, "document created", entry["msg"])
	assert.Equal(t, "Q-202303-005", entry["number"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewUnknownLevelDefaultsToInfo(t *testing.T) {
	log, err := New(Config{Level: "loud", Output: "stderr", Format: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNewDevelopmentPanicsOnDPanic(t *testing.T) {
	dir := t.TempDir()
	dev, err := New(Config{Level: "info", Output: filepath.Join(dir, "dev.log"), Format: "json", Development: true})
	require.NoError(t, err)
	assert.Panics(t, func() { dev.DPanic("invariant broken") })

	prod, err := New(Config{Level: "info", Output: filepath.Join(dir, "prod.log"), Format: "json"})
	require.NoError(t, err)
	assert.NotPanics(t, func() { prod.DPanic("invariant broken") })
}
