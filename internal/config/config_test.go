package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	assert.Equal(t, 10, cfg.Enrichment.BatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Enrichment.InterBatchDelay.Std())
	assert.Equal(t, 200*time.Millisecond, cfg.Enrichment.InterLinkDelay.Std())
	assert.Equal(t, 10*time.Second, cfg.Jira.Timeout.Std())
	assert.Equal(t, 7*24*time.Hour, cfg.Scheduler.Interval.Std())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JIRA_BASE_URL", "https://jira.internal.example.com")
	t.Setenv("JIRA_TOKEN", "tok")
	t.Setenv("CONFLUENCE_USER", "svc")
	t.Setenv("CONFLUENCE_API_TOKEN", "api-tok")
	t.Setenv("DATABASE_DSN", "postgres://report:pw@db/reports")

	cfg := defaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "https://jira.internal.example.com", cfg.Jira.BaseURL)
	assert.Equal(t, "tok", cfg.Jira.Token)
	assert.Equal(t, "svc", cfg.Confluence.User)
	assert.Equal(t, "api-tok", cfg.Confluence.APIToken)
	assert.Equal(t, "postgres://report:pw@db/reports", cfg.Database.DSN)
}

func TestLoadMergesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
jira:
  baseUrl: https://jira.file.example.com
  jql: project = NDB
enrichment:
  batchSize: 5
  interLinkDelay: 50ms
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	t.Setenv("NDB_STATUS_CONFIG", path)

	cfg := Load()

	assert.Equal(t, "https://jira.file.example.com", cfg.Jira.BaseURL)
	assert.Equal(t, "project = NDB", cfg.Jira.JQL)
	assert.Equal(t, 5, cfg.Enrichment.BatchSize)
	assert.Equal(t, 50*time.Millisecond, cfg.Enrichment.InterLinkDelay.Std())
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 100*time.Millisecond, cfg.Enrichment.InterBatchDelay.Std())
	assert.Equal(t, 200, cfg.Jira.MaxResults)
}

func TestLoadNegativeDelayDisablesPacing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
enrichment:
  interBatchDelay: -1ms
  interLinkDelay: -1ms
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	t.Setenv("NDB_STATUS_CONFIG", path)

	cfg := Load()

	// Negative values must survive the merge; they mean "no pacing".
	assert.Equal(t, -time.Millisecond, cfg.Enrichment.InterBatchDelay.Std())
	assert.Equal(t, -time.Millisecond, cfg.Enrichment.InterLinkDelay.Std())
}

func TestBindTimezone(t *testing.T) {
	cfg := defaultConfig()
	cfg.Scheduler.Timezone = "not/a-zone"
	cfg.bindTimezone()
	assert.Equal(t, time.UTC, cfg.Scheduler.Location())
}
