package config_test

import (
	"testing"

	"graphdb/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWatcherNoopOutsideDevelopment(t *testing.T) {
	cfg := &config.Config{Environment: "production", IndexMaxEntries: 1}
	w, err := config.NewWatcher("/nonexistent/path.yaml", cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.Same(t, cfg, w.Current())
	w.Close()
}

func TestNewWatcherNoopWithEmptyPath(t *testing.T) {
	cfg := &config.Config{Environment: "development", IndexMaxEntries: 1}
	w, err := config.NewWatcher("", cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, w)

	assert.Same(t, cfg, w.Current())
	w.Close()
}
