// Package config provides configuration loading and validation for the tracker.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-tracker/internal/timeutil"
)

// Retry backoff strategy constants
const (
	BackoffFixed       = "fixed"
	BackoffExponential = "exponential"
)

// Collector kind constants
const (
	KindHTTP    = "http"
	KindBrowser = "browser"
)

// DefaultMaxPages caps pagination for sources that do not set their own.
const DefaultMaxPages = 5

// SelectorSet names the CSS selectors a collector uses to pull fields out of
// a listing page. List scopes one posting; the field selectors are resolved
// relative to it. URL reads the href attribute of its match.
type SelectorSet struct {
	List           string `json:"list"`
	Title          string `json:"title"`
	Company        string `json:"company,omitempty"`
	Location       string `json:"location,omitempty"`
	URL            string `json:"url"`
	Description    string `json:"description,omitempty"`
	Level          string `json:"level,omitempty"`
	Salary         string `json:"salary,omitempty"`
	EmploymentType string `json:"employment_type,omitempty"`
	PostedDate     string `json:"posted_date,omitempty"`
	NextPage       string `json:"next_page,omitempty"`
}

// SourceConfig describes one career-site source.
type SourceConfig struct {
	Name         string            `json:"name" validate:"required,min=1"`
	Kind         string            `json:"kind" validate:"required,oneof=http browser"`
	URL          string            `json:"url" validate:"required,url"`
	Enabled      bool              `json:"enabled"`
	MaxPages     int               `json:"max_pages,omitempty" validate:"min=0"`
	FetchDetails bool              `json:"fetch_details,omitempty"`
	SearchParams map[string]string `json:"search_params,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	Selectors    SelectorSet       `json:"selectors"`
}

// Config is the tracker configuration, loaded from a JSON file. Missing
// values fall back to DefaultConfig via MergeWithDefaults.
type Config struct {
	DataFile             string `json:"data_file,omitempty"`
	StatusFile           string `json:"status_file,omitempty"`
	BackupDir            string `json:"backup_dir,omitempty"`
	Timezone             string `json:"timezone,omitempty"`
	MaxRetries           int    `json:"max_retries,omitempty" validate:"min=0"`
	RetryDelaySeconds    int    `json:"retry_delay_seconds,omitempty" validate:"min=0"`
	RetryBackoff         string `json:"retry_backoff,omitempty" validate:"omitempty,oneof=fixed exponential"`
	SourceDelaySeconds   int    `json:"source_delay_seconds,omitempty" validate:"min=0"`
	SourceTimeoutSeconds int    `json:"source_timeout_seconds,omitempty" validate:"min=0"`
	WatchIntervalHours   int    `json:"watch_interval_hours,omitempty" validate:"min=0"`
	MetricsAddr          string `json:"metrics_addr,omitempty"`
	UserAgent            string `json:"user_agent,omitempty"`
	Verbose              bool   `json:"verbose,omitempty"`

	Sources []SourceConfig `json:"sources" validate:"dive"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DataFile:             filepath.Join("data", "jobs.json"),
		StatusFile:           filepath.Join("data", "last_run.json"),
		Timezone:             timeutil.DefaultZone,
		MaxRetries:           2,
		RetryDelaySeconds:    1,
		RetryBackoff:         BackoffFixed,
		SourceDelaySeconds:   5,
		SourceTimeoutSeconds: 60,
		WatchIntervalHours:   6,
	}
}

// LoadConfig loads configuration from a JSON file, applies defaults and
// environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	merged := cfg.MergeWithDefaults(DefaultConfig())
	merged.applyEnvOverrides()

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("config error: unknown timezone %q", c.Timezone)
		}
	}

	seen := make(map[string]bool, len(c.Sources))
	for _, src := range c.Sources {
		if seen[src.Name] {
			return fmt.Errorf("config error: duplicate source name %q", src.Name)
		}
		seen[src.Name] = true

		if src.Selectors.List == "" {
			return fmt.Errorf("config error: source %q is missing the 'list' selector", src.Name)
		}
		if src.Selectors.Title == "" {
			return fmt.Errorf("config error: source %q is missing the 'title' selector", src.Name)
		}
		if src.Selectors.URL == "" {
			return fmt.Errorf("config error: source %q is missing the 'url' selector", src.Name)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. Source max_pages falls back to DefaultMaxPages.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DataFile == "" {
		result.DataFile = defaults.DataFile
	}
	if result.StatusFile == "" {
		result.StatusFile = defaults.StatusFile
	}
	if result.BackupDir == "" {
		result.BackupDir = defaults.BackupDir
	}
	if result.Timezone == "" {
		result.Timezone = defaults.Timezone
	}
	if result.RetryBackoff == "" {
		result.RetryBackoff = defaults.RetryBackoff
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}

	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.RetryDelaySeconds == 0 {
		result.RetryDelaySeconds = defaults.RetryDelaySeconds
	}
	if result.SourceDelaySeconds == 0 {
		result.SourceDelaySeconds = defaults.SourceDelaySeconds
	}
	if result.SourceTimeoutSeconds == 0 {
		result.SourceTimeoutSeconds = defaults.SourceTimeoutSeconds
	}
	if result.WatchIntervalHours == 0 {
		result.WatchIntervalHours = defaults.WatchIntervalHours
	}

	result.Sources = make([]SourceConfig, len(c.Sources))
	copy(result.Sources, c.Sources)
	for i := range result.Sources {
		if result.Sources[i].MaxPages == 0 {
			result.Sources[i].MaxPages = DefaultMaxPages
		}
	}

	return result
}

// applyEnvOverrides lets the environment trump file values for the paths
// operators most often relocate.
func (c *Config) applyEnvOverrides() {
	c.DataFile = getEnv("JOB_TRACKER_DATA_FILE", c.DataFile)
	c.StatusFile = getEnv("JOB_TRACKER_STATUS_FILE", c.StatusFile)
	c.BackupDir = getEnv("JOB_TRACKER_BACKUP_DIR", c.BackupDir)
	c.Timezone = getEnv("JOB_TRACKER_TIMEZONE", c.Timezone)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// RetryDelay returns the base delay between retry attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// SourceDelay returns the pause between consecutive sources.
func (c *Config) SourceDelay() time.Duration {
	return time.Duration(c.SourceDelaySeconds) * time.Second
}

// SourceTimeout returns the deadline applied to each collection attempt.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutSeconds) * time.Second
}

// WatchInterval returns the cadence of watch-mode runs.
func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.WatchIntervalHours) * time.Hour
}

// EnabledSources returns the enabled sources in declared order.
func (c *Config) EnabledSources() []SourceConfig {
	var enabled []SourceConfig
	for _, src := range c.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}
	return enabled
}

// SourceByName returns the named source regardless of enabled state.
func (c *Config) SourceByName(name string) (SourceConfig, bool) {
	for _, src := range c.Sources {
		if src.Name == name {
			return src, true
		}
	}
	return SourceConfig{}, false
}
