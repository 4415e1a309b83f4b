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

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "database:\n  host: localhost\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, int64(118800), cfg.Harvest.SeedArticleID)
	assert.Equal(t, 24*time.Hour, cfg.Harvest.RecrawlWindow)
	assert.Equal(t, 5, cfg.Harvest.MinTextLength)
	assert.Equal(t, 50, cfg.Harvest.QuoteMinLength)
	assert.Equal(t, 100, cfg.Harvest.StrongQuoteLength)
	assert.Equal(t, "Europe/Berlin", cfg.Dates.Location)
	assert.Equal(t, "Artikel auf tagesschau.de", cfg.Source.TeaserSuffix)
	assert.Equal(t, 3, cfg.Source.Retry.MaxAttempts)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("HARVESTER_DB_PASSWORD", "s3cret")
	path := writeConfig(t, `
database:
  host: db
  port: 5433
  user: harvester
  password: ${HARVESTER_DB_PASSWORD}
  dbname: comments
harvest:
  seed_article_id: 200000
  recrawl_window: 12h
log_level: debug
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, int64(200000), cfg.Harvest.SeedArticleID)
	assert.Equal(t, 12*time.Hour, cfg.Harvest.RecrawlWindow)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t,
		"host=db port=5433 user=harvester password=s3cret dbname=comments sslmode=disable",
		cfg.Database.DSN(),
	)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	_, err = Load(writeConfig(t, "database: [unterminated"))
	assert.ErrorContains(t, err, "parse config")
}

func TestDatesConfig_MonthTable(t *testing.T) {
	table, err := DatesConfig{Months: map[string]string{"März": "March", "Mai": "May"}}.MonthTable()
	require.NoError(t, err)
	assert.Equal(t, time.March, table["März"])
	assert.Equal(t, time.May, table["Mai"])

	table, err = DatesConfig{}.MonthTable()
	require.NoError(t, err)
	assert.Nil(t, table)

	_, err = DatesConfig{Months: map[string]string{"Mai": "Mayo"}}.MonthTable()
	assert.Error(t, err)
}
