package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "http://short.url", cfg.ShortLink.BaseURL)
	assert.Equal(t, 6, cfg.ShortLink.CodeLength)
	assert.Equal(t, "*/10 * * * *", cfg.Stats.Cron)
	assert.Equal(t, "en", cfg.I18n.DefaultLang)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  addr: "127.0.0.1:9000"
db:
  driver: sqlite
  dsn: links.db
shortlink:
  base_url: "https://s.example/"
  code_length: 8
desktop:
  enabled: false
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "links.db", cfg.DB.DSN)
	assert.Equal(t, "https://s.example", cfg.ShortLink.BaseURL)
	assert.Equal(t, 8, cfg.ShortLink.CodeLength)
	assert.False(t, cfg.Desktop.Enabled)
	// 未配置的项保持默认值
	assert.Equal(t, "qrcodes", cfg.Desktop.QRDir)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  dsn: file.db\n"), 0o644))
	t.Setenv("SHORTLINK_DB_DSN", "env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DB.DSN)
}
