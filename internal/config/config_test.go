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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ProviderYahoo, cfg.DataSource.Provider)
	assert.Equal(t, "SPY", cfg.DataSource.Symbol)
	assert.Equal(t, 30*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
data_source:
  provider: yfinance
  symbol: "005930"
  timeout: 10s
telegram:
  bot_token: tok
  chat_id: "42"
schedule:
  report_cron: "0 0 8 * * 1-5"
log:
  level: debug
  pretty: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, ProviderYFinance, cfg.DataSource.Provider)
	assert.Equal(t, "005930", cfg.DataSource.Symbol)
	assert.Equal(t, 10*time.Second, cfg.DataSource.Timeout)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")
	t.Setenv("PORT", "7000")
	t.Setenv("BARS_API_BASE_URL", "http://bars.local")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("DEFAULT_SYMBOL", "QQQ")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, ProviderBarsAPI, cfg.DataSource.Provider)
	assert.Equal(t, "http://bars.local", cfg.DataSource.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "QQQ", cfg.DataSource.Symbol)
}

func TestLoad_BadInput(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)

	t.Setenv("FETCH_TIMEOUT", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"bars api without url", func(c *Config) { c.DataSource.Provider = ProviderBarsAPI }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "tok" }},
		{"cron without telegram", func(c *Config) { c.Schedule.ReportCron = "0 0 8 * * 1" }},
		{"bad cron", func(c *Config) {
			c.Telegram.BotToken, c.Telegram.ChatID = "tok", "1"
			c.Schedule.ReportCron = "every monday"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
