package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMergesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talon.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[engine]
hash_mib = 256
nn_weights_path = "weights.bin"

[play_service]
url = "wss://example.org/feed"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.EqualValues(t, 256, cfg.Engine.HashMiB)
	assert.EqualValues(t, 1, cfg.Engine.Threads) // unset: kept from Default()
	assert.Equal(t, "weights.bin", cfg.Engine.NNWeights)
	assert.Equal(t, "wss://example.org/feed", cfg.PlayService.URL)
	assert.Equal(t, 4, cfg.PlayService.MaxConcurrency) // unset: kept from Default()
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/talon.toml")
	assert.Error(t, err)
}
