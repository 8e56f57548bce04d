package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.Workspace.Root)
	assert.Equal(t, []string{".txt", ".cal"}, cfg.Workspace.Extensions)
	assert.Equal(t, ".cside/index.db", cfg.Index.Path)
	assert.False(t, cfg.Index.Enabled)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cside.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[workspace]
root = "/src/nav"
extensions = [".txt"]

[index]
enabled = true
path = "/tmp/objects.db"

[log]
verbosity = 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/src/nav", cfg.Workspace.Root)
	assert.Equal(t, []string{".txt"}, cfg.Workspace.Extensions)
	assert.True(t, cfg.Index.Enabled)
	assert.Equal(t, "/tmp/objects.db", cfg.Index.Path)
	assert.Equal(t, 2, cfg.Log.Verbosity)
}

func TestLoad_FillsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cside.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
verbosity = 1
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Workspace.Root)
	assert.Equal(t, []string{".txt", ".cal"}, cfg.Workspace.Extensions)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadOrDefault_NoFileAnywhere(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Workspace.Root)
}
