package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".databrickscfg")
	content := `[DEFAULT]

[marketing]
host = https://adb-123.azuredatabricks.net
token = dapi-secret
http_path = /sql/1.0/warehouses/abc

[no-warehouse]
host = https://adb-456.azuredatabricks.net
token = dapi-other
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	registry, err := NewProfileRegistry(path)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("profiles with keys", func(t *testing.T) {
		profiles, err := registry.GetProfiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"marketing", "no-warehouse"}, profiles)
	})

	t.Run("config", func(t *testing.T) {
		cfg, err := registry.GetConfig(ctx, "marketing")
		require.NoError(t, err)
		assert.Equal(t, "https://adb-123.azuredatabricks.net", cfg.Host)
		assert.Equal(t, "dapi-secret", cfg.Token)
	})

	t.Run("http path", func(t *testing.T) {
		p, err := registry.GetHTTPPath(ctx, "marketing")
		require.NoError(t, err)
		assert.Equal(t, "/sql/1.0/warehouses/abc", p)

		_, err = registry.GetHTTPPath(ctx, "no-warehouse")
		assert.Error(t, err)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := registry.GetConfig(ctx, "missing")
		assert.Error(t, err)
	})
}

func TestNewProfileRegistry_MissingFile(t *testing.T) {
	_, err := NewProfileRegistry(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
