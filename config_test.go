package vlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigPassesValidation(t *testing.T) {
	cfg := DefaultConfig(NewStaticAdapter(testItems(3)))
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigSetsDocumentedDefaults(t *testing.T) {
	cfg := DefaultConfig(NewStaticAdapter(testItems(3)))

	assert.Equal(t, StrategyOffset, cfg.Pagination.Strategy)
	assert.Equal(t, 20, cfg.Pagination.Limit)
	assert.Equal(t, 50, cfg.Virtual.ItemSize)
	assert.Equal(t, SelectionSingle, cfg.Selection.Mode)
	assert.True(t, cfg.AutoLoad)
	assert.Equal(t, "VLIST_", cfg.EnvPrefix)
}

func TestConfigValidateRejectsMissingAdapter(t *testing.T) {
	cfg := DefaultConfig(nil)
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateRejectsBadPaginationLimit(t *testing.T) {
	cfg := DefaultConfig(NewStaticAdapter(testItems(3)))
	cfg.Pagination.Limit = 0
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateRejectsUnknownSelectionMode(t *testing.T) {
	cfg := DefaultConfig(NewStaticAdapter(testItems(3)))
	cfg.Selection.Mode = SelectionMode("bogus")
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigFileMergesOverBase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pagination:\n  limit: 99\n"), 0o644))

	base := DefaultConfig(NewStaticAdapter(testItems(3)))
	merged, err := LoadConfigFile(path, base)
	require.NoError(t, err)

	assert.Equal(t, 99, merged.Pagination.Limit)
	assert.Equal(t, StrategyOffset, merged.Pagination.Strategy, "unspecified fields keep the base value")
}

func TestLoadConfigFileMissingFileReturnsBaseAndError(t *testing.T) {
	base := DefaultConfig(NewStaticAdapter(testItems(3)))
	result, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"), base)

	assert.Error(t, err)
	assert.Equal(t, base.Pagination.Limit, result.Pagination.Limit)
}

func TestLoadConfigEnvOverlaysPrefixedVars(t *testing.T) {
	cfg := DefaultConfig(NewStaticAdapter(testItems(3)))
	t.Setenv("VLIST_PAGINATION_LIMIT", "42")

	require.NoError(t, LoadConfigEnv(&cfg))
	assert.Equal(t, 42, cfg.Pagination.Limit)
}

func TestLoadConfigEnvDefaultsPrefixWhenUnset(t *testing.T) {
	cfg := DefaultConfig(NewStaticAdapter(testItems(3)))
	cfg.EnvPrefix = ""
	t.Setenv("VLIST_DEBUG", "true")

	require.NoError(t, LoadConfigEnv(&cfg))
	assert.True(t, cfg.Debug)
}
