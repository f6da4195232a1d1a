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
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, []string{"*"}, c.Server.CORSOrigins)
	assert.Equal(t, QuoteSourceFMP, c.Quotes.Source)
	assert.Equal(t, []string{"NASDAQ", "NYSE", "AMEX"}, c.Quotes.Exchanges)
	assert.Equal(t, "demo", c.FMP.APIKey)
	assert.Equal(t, 20*time.Second, c.Quotes.FetchTimeout)
	assert.NoError(t, c.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := writeConfig(t, `
environment: production
server:
  port: 9090
quotes:
  exchanges: [NYSE]
  fetch_timeout: 5s
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, []string{"NYSE"}, c.Quotes.Exchanges)
	assert.Equal(t, 5*time.Second, c.Quotes.FetchTimeout)
	assert.Equal(t, "https://financialmodelingprep.com", c.FMP.BaseURL)
}

func TestLoadRejectsUnknownSource(t *testing.T) {
	p := writeConfig(t, "quotes:\n  source: csv\n")
	_, err := Load(p)
	assert.ErrorContains(t, err, "quotes.source")
}

func TestValidateClickHouseSourceNeedsHost(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	c.Quotes.Source = QuoteSourceClickHouse
	assert.Error(t, c.Validate())

	c.ClickHouse.Host = "ch"
	assert.NoError(t, c.Validate())
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FMP_API_KEY", "secret")
	t.Setenv("SCREEN_EXCHANGES", "nyse, amex")
	t.Setenv("PORT", "7000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("QUOTES_RATE_PER_SECOND", "not-a-number")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "secret", c.FMP.APIKey)
	assert.Equal(t, []string{"nyse", "amex"}, c.Quotes.Exchanges)
	assert.Equal(t, 7000, c.Server.Port)
	assert.Equal(t, 3, c.Redis.DB)
	assert.Equal(t, 5.0, c.Quotes.RatePerSecond, "invalid values keep the default")
}

func TestLoadWithEnvBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadSampleConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, QuoteSourceFMP, c.Quotes.Source)
	assert.Equal(t, []string{"NASDAQ", "NYSE", "AMEX"}, c.Quotes.Exchanges)
	assert.Equal(t, uint32(3), c.Quotes.Breaker.MaxFailures)
	assert.False(t, c.Redis.Enabled)
	assert.Empty(t, c.Kafka.Brokers)
}
