package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigurationMissingFile(t *testing.T) {
	cfg, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
	assert.Equal(t, DefaultHistoryFile, cfg.HistoryFile)
}

func TestLoadConfigurationOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fern.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_depth = 64
log_level = "debug"
`), 0o644))

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultHistoryFile, cfg.HistoryFile)
}

func TestLoadConfigurationRejectsBadDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fern.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth = -1\n"), 0o644))

	cfg, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
}

func TestLoadConfigurationBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fern.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_depth = = 1\n"), 0o644))

	_, err := LoadConfiguration(path)
	assert.Error(t, err)
}
