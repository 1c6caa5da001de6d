package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordrush/internal/factory"
)

func lookup(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, factory.StorageTypeMemory, cfg.StorageType)
	assert.Equal(t, 30*time.Minute, cfg.SessionMaxAge)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Nil(t, cfg.Factory(nil).RedisConfig)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		EnvPort:           "9090",
		EnvStorageType:    "redis",
		EnvRedisURL:       "redis://cache:6379/1",
		EnvDictionaryURL:  "https://example.test/words.txt",
		EnvDictionaryPath: "/data/words.txt",
		EnvSessionMaxAge:  "10m",
		EnvSweepInterval:  "30s",
		EnvLogLevel:       "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server().Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 10*time.Minute, cfg.Registry().MaxAge)
	assert.Equal(t, 30*time.Second, cfg.Registry().SweepInterval)
	assert.Equal(t, "https://example.test/words.txt", cfg.Dictionary().URL)
	assert.Equal(t, "/data/words.txt", cfg.Dictionary().Path)

	fc := cfg.Factory(nil)
	require.NotNil(t, fc.RedisConfig)
	assert.Equal(t, "redis://cache:6379/1", fc.RedisConfig.URL)
	assert.Equal(t, 10*time.Minute, fc.Registry.MaxAge)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := map[string]map[string]string{
		"port":           {EnvPort: "eighty"},
		"port range":     {EnvPort: "70000"},
		"storage":        {EnvStorageType: "postgres"},
		"redis no url":   {EnvStorageType: "redis"},
		"max age":        {EnvSessionMaxAge: "forever"},
		"negative sweep": {EnvSweepInterval: "-1m"},
		"log level":      {EnvLogLevel: "chatty"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(lookup(vars))
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SWEEP_INTERVAL=45s\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv(EnvSweepInterval) })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.SweepInterval)
}

func TestLoadWithoutEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
