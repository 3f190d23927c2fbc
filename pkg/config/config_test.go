package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avikoz/queryserve/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesPolicy(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, suggest.DefaultPolicy(), cfg.Policy())
	assert.Greater(t, cfg.Server.MaxK, 0)
	assert.GreaterOrEqual(t, cfg.Server.MaxK, cfg.Server.DefaultK)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
default_k = 7

[suggest]
trim_damping = 0.6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Server.DefaultK)
	assert.Equal(t, 0.6, cfg.Suggest.TrimDamping)
	// Untouched fields keep builtin defaults.
	assert.Equal(t, DefaultConfig().Server.MaxK, cfg.Server.MaxK)
	assert.Equal(t, DefaultConfig().Suggest.TailWindow, cfg.Suggest.TailWindow)
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	// Round-trips through the saved file.
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
