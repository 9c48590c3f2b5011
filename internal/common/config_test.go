package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Pipeline.MaxRetries)
	assert.True(t, cfg.Pipeline.FailOpen)
	assert.Equal(t, "0 8 * * *", cfg.Schedule.Cron)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newslens.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment = "production"

[server]
port = 9090

[pipeline]
max_retries = 5
fail_open = false
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Pipeline.MaxRetries)
	assert.False(t, cfg.Pipeline.FailOpen)
	// Untouched sections keep defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoadConfigSkipsMissingFiles(t *testing.T) {
	cfg, err := LoadConfig("", filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEWSLENS_PORT", "7070")
	t.Setenv("NEWSLENS_MAX_RETRIES", "4")
	t.Setenv("NEWSLENS_FAIL_OPEN", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Pipeline.MaxRetries)
	assert.False(t, cfg.Pipeline.FailOpen)
}

func TestResolveAPIKeyPrecedence(t *testing.T) {
	ctx := context.Background()

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("DART_API_KEY", "from-env")
		key, err := ResolveAPIKey(ctx, nil, "dart_api_key", "from-config")
		require.NoError(t, err)
		assert.Equal(t, "from-env", key)
	})

	t.Run("fallback used last", func(t *testing.T) {
		key, err := ResolveAPIKey(ctx, nil, "dart_api_key", "from-config")
		require.NoError(t, err)
		assert.Equal(t, "from-config", key)
	})

	t.Run("missing everywhere errors", func(t *testing.T) {
		_, err := ResolveAPIKey(ctx, nil, "dart_api_key", "")
		assert.Error(t, err)
	})
}
