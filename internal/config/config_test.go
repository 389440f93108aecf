package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancoleman/panflow-sub001/internal/conflict"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "panflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, conflict.Skip, cfg.Strategy())
	assert.Equal(t, 1024, cfg.CacheCapacity)
	assert.Equal(t, "_imported", cfg.RenameSuffix)
	assert.False(t, cfg.Tolerant)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, "conflict_strategy: rename\ncache_capacity: 16\ncache_ttl_seconds: 60\ntolerant: true\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, conflict.Rename, cfg.Strategy())
	assert.Equal(t, 16, cfg.CacheCapacity)
	assert.Equal(t, int64(60), int64(cfg.CacheTTL().Seconds()))
	assert.True(t, cfg.Tolerant)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "conflict_strategy: rename\n")
	t.Setenv("PANFLOW_CONFLICT_STRATEGY", "merge")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, conflict.Merge, cfg.Strategy())
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	path := writeConfigFile(t, "conflict_strategy: nonsense\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingExplicitFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestStrategyNormalizesCase(t *testing.T) {
	path := writeConfigFile(t, "conflict_strategy: KEEP_TARGET\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, conflict.KeepTarget, cfg.Strategy())
}
