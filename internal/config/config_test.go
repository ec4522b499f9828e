package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
core:
  telegram:
    token: "123:abc"
bot:
  channel_username: "@maabuz"
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Bot.DataDir)
	assert.Equal(t, 2000, cfg.Bot.CartLimit)
	assert.Equal(t, 10, cfg.Bot.PageSize)
	assert.Equal(t, CatalogCSV, cfg.Bot.CatalogBackend)
	// Leading @ is stripped so the value can build t.me links directly.
	assert.Equal(t, "maabuz", cfg.Bot.ChannelUsername)
	require.NotNil(t, cfg.CoreConfig())
	assert.Equal(t, "123:abc", cfg.CoreConfig().Telegram.Token)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `
core:
  telegram:
    token: "123:abc"
bot:
  catalog_backend: mongo
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog_backend")
}

func TestLoadPostgresBackendNeedsHost(t *testing.T) {
	_, err := Load(writeConfig(t, `
core:
  telegram:
    token: "123:abc"
bot:
  catalog_backend: postgres
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
}

func TestLoadMissingTokenFails(t *testing.T) {
	_, err := Load(writeConfig(t, "core:\n  telegram:\n    token: \"\"\n"))
	require.Error(t, err)
}
