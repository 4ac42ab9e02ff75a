package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"graphdb/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, 300, cfg.SnapshotInterval)
	assert.Equal(t, []string{"defaults", "environment"}, cfg.LoadedFrom)
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \":9999\"\nindex_max_entries: 64\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 64, cfg.IndexMaxEntries)
	assert.Equal(t, []string{"defaults", path, "environment"}, cfg.LoadedFrom)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: \":9999\"\n"), 0o644))

	os.Setenv("GRAPHDB_LISTEN_ADDR", ":1234")
	defer os.Unsetenv("GRAPHDB_LISTEN_ADDR")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":1234", cfg.ListenAddr)
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	cfg := &config.Config{
		Environment:     "production",
		IndexMaxEntries: 1,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateRejectsNonPositiveIndexMaxEntries(t *testing.T) {
	cfg := &config.Config{Environment: "development", IndexMaxEntries: 0}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index_max_entries")
}

func TestIsDevelopmentIsProduction(t *testing.T) {
	dev := &config.Config{Environment: "Development"}
	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())

	prod := &config.Config{Environment: "PRODUCTION"}
	assert.True(t, prod.IsProduction())
	assert.False(t, prod.IsDevelopment())
}
