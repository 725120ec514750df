package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docchat/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docchat.log")
	log, err := New(config.LogConfig{File: path, Level: "debug", MaxSizeMB: 1}, false)
	require.NoError(t, err)

	log.Info("embeddings created", zap.Int("chunks", 12))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"embeddings created"`)
	assert.Contains(t, string(data), `"chunks":12`)
	assert.Contains(t, string(data), `"level":"INFO"`)
}

func TestNew_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docchat.log")
	log, err := New(config.LogConfig{File: path, Level: "warn"}, false)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, false)
	require.Error(t, err)
}

func TestNew_NoSinksIsNop(t *testing.T) {
	log, err := New(config.LogConfig{}, false)
	require.NoError(t, err)
	require.NotNil(t, log)
	log.Info("discarded")
}
