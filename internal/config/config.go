package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv         = "NDB_STATUS_CONFIG"
	jiraBaseURLEnv        = "JIRA_BASE_URL"
	jiraTokenEnv          = "JIRA_TOKEN"
	confluenceBaseURLEnv  = "CONFLUENCE_BASE_URL"
	confluenceUserEnv     = "CONFLUENCE_USER"
	confluenceAPITokenEnv = "CONFLUENCE_API_TOKEN"
	databaseDSNEnv        = "DATABASE_DSN"
	webhookURLEnv         = "WEBHOOK_URL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Jira       JiraConfig       `yaml:"jira"`
	Confluence ConfluenceConfig `yaml:"confluence"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Database   DatabaseConfig   `yaml:"database"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// JiraConfig describes the issue-tracker endpoint and its query scope.
type JiraConfig struct {
	BaseURL    string   `yaml:"baseUrl"`
	Token      string   `yaml:"token"`
	JQL        string   `yaml:"jql"`
	MaxResults int      `yaml:"maxResults"`
	Timeout    Duration `yaml:"timeout"`
}

// ConfluenceConfig describes the wiki endpoint and both credential schemes.
// TitleRescue lets the resolver salvage titles from HTML bodies returned in
// place of JSON.
type ConfluenceConfig struct {
	BaseURL     string   `yaml:"baseUrl"`
	User        string   `yaml:"user"`
	APIToken    string   `yaml:"apiToken"`
	Token       string   `yaml:"token"`
	Timeout     Duration `yaml:"timeout"`
	TitleRescue bool     `yaml:"titleRescue"`
}

// EnrichmentConfig tunes batch sizing and pacing of the link pipeline.
// A negative delay disables that pacing step; zero keeps the default.
type EnrichmentConfig struct {
	BatchSize       int      `yaml:"batchSize"`
	InterBatchDelay Duration `yaml:"interBatchDelay"`
	InterLinkDelay  Duration `yaml:"interLinkDelay"`
	LabelSignal     bool     `yaml:"labelSignal"`
}

// DatabaseConfig describes Postgres connection details for report history.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// WebhookConfig wires the outbound digest channel.
type WebhookConfig struct {
	URL string `yaml:"url"`
}

// SchedulerConfig defines when the recurring report should run.
type SchedulerConfig struct {
	Interval Duration `yaml:"interval"`
	Timezone string   `yaml:"timezone"`
	location *time.Location
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	return time.UTC
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(jiraBaseURLEnv); v != "" {
		c.Jira.BaseURL = v
	}

	if v := os.Getenv(jiraTokenEnv); v != "" {
		c.Jira.Token = v
	}

	if v := os.Getenv(confluenceBaseURLEnv); v != "" {
		c.Confluence.BaseURL = v
	}

	if v := os.Getenv(confluenceUserEnv); v != "" {
		c.Confluence.User = v
	}

	if v := os.Getenv(confluenceAPITokenEnv); v != "" {
		c.Confluence.APIToken = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Webhook.URL = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		c.Scheduler.location = time.UTC
		return
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to UTC", tz)
		loc = time.UTC
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Jira.BaseURL != "" {
		base.Jira.BaseURL = override.Jira.BaseURL
	}
	if override.Jira.Token != "" {
		base.Jira.Token = override.Jira.Token
	}
	if override.Jira.JQL != "" {
		base.Jira.JQL = override.Jira.JQL
	}
	if override.Jira.MaxResults > 0 {
		base.Jira.MaxResults = override.Jira.MaxResults
	}
	if override.Jira.Timeout > 0 {
		base.Jira.Timeout = override.Jira.Timeout
	}

	if override.Confluence.BaseURL != "" {
		base.Confluence.BaseURL = override.Confluence.BaseURL
	}
	if override.Confluence.User != "" {
		base.Confluence.User = override.Confluence.User
	}
	if override.Confluence.APIToken != "" {
		base.Confluence.APIToken = override.Confluence.APIToken
	}
	if override.Confluence.Token != "" {
		base.Confluence.Token = override.Confluence.Token
	}
	if override.Confluence.Timeout > 0 {
		base.Confluence.Timeout = override.Confluence.Timeout
	}
	if override.Confluence.TitleRescue {
		base.Confluence.TitleRescue = true
	}

	if override.Enrichment.BatchSize > 0 {
		base.Enrichment.BatchSize = override.Enrichment.BatchSize
	}
	// Negative pacing values are meaningful (they disable pacing), so any
	// non-zero override wins; zero means "not set".
	if override.Enrichment.InterBatchDelay != 0 {
		base.Enrichment.InterBatchDelay = override.Enrichment.InterBatchDelay
	}
	if override.Enrichment.InterLinkDelay != 0 {
		base.Enrichment.InterLinkDelay = override.Enrichment.InterLinkDelay
	}
	if override.Enrichment.LabelSignal {
		base.Enrichment.LabelSignal = true
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	if override.Webhook.URL != "" {
		base.Webhook.URL = override.Webhook.URL
	}

	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Jira: JiraConfig{
			BaseURL:    "https://jira.example.com",
			JQL:        `project = ERA AND fixVersion in unreleasedVersions() ORDER BY key`,
			MaxResults: 200,
			Timeout:    Duration(10 * time.Second),
		},
		Confluence: ConfluenceConfig{
			BaseURL: "https://confluence.example.com",
			Timeout: Duration(10 * time.Second),
		},
		Enrichment: EnrichmentConfig{
			BatchSize:       10,
			InterBatchDelay: Duration(100 * time.Millisecond),
			InterLinkDelay:  Duration(200 * time.Millisecond),
		},
		Database: DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{
			Interval: Duration(7 * 24 * time.Hour),
			Timezone: "UTC",
			location: time.UTC,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
