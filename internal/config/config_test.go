package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://file::memory:")

	c, err := Load(writeConfig(t, "bot:\n  token: abc\n"))
	require.NoError(t, err)

	assert.Equal(t, "abc", c.Bot.Token)
	assert.Equal(t, "!", c.Bot.Prefix)
	assert.Equal(t, 30*time.Second, c.GBan.Interval)
	assert.Equal(t, 60*time.Second, c.GBan.ListTimeout)
	assert.Equal(t, 0, c.GBan.FanOutConcurrency)
	assert.False(t, c.GBan.RateLimitUnban)
	assert.Equal(t, "sqlite://file::memory:", c.Database.URL)
	assert.Equal(t, 10, c.Database.MaxIdleConns)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "mysql://u:p@tcp(localhost:3306)/gban")

	c, err := Load(writeConfig(t, `
gban:
  interval: 45s
  fanout_concurrency: 8
  rate_limit_unban: true
logger:
  level: DEBUG
`))
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, c.GBan.Interval)
	assert.Equal(t, 8, c.GBan.FanOutConcurrency)
	assert.True(t, c.GBan.RateLimitUnban)
	assert.Equal(t, "DEBUG", c.Logger.Level)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load(writeConfig(t, "bot:\n  token: abc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidateTelegramMirror(t *testing.T) {
	c := &Config{Database: DatabaseConfig{URL: "sqlite://x.db"}}
	c.Notify.Telegram.Enabled = true
	assert.Error(t, c.Validate())

	c.Notify.Telegram.Token = "123:abc"
	c.Notify.Telegram.ChatID = -100
	assert.NoError(t, c.Validate())
}
