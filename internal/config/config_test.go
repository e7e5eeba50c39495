package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSource(name string) SourceConfig {
	return SourceConfig{
		Name:    name,
		Kind:    KindHTTP,
		URL:     "https://example.com/careers",
		Enabled: true,
		Selectors: SelectorSet{
			List:  "div.job",
			Title: "h2.title",
			URL:   "a.apply",
		},
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"sources": [
			{
				"name": "google_career",
				"kind": "browser",
				"url": "https://careers.google.com/jobs",
				"enabled": true,
				"selectors": {"list": "li.job", "title": "h3", "url": "a"}
			}
		]
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "jobs.json"), cfg.DataFile)
	assert.Equal(t, filepath.Join("data", "last_run.json"), cfg.StatusFile)
	assert.Equal(t, "America/Los_Angeles", cfg.Timezone)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, BackoffFixed, cfg.RetryBackoff)
	assert.Equal(t, 60, cfg.SourceTimeoutSeconds)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, DefaultMaxPages, cfg.Sources[0].MaxPages, "unset max_pages should fall back to the default cap")
}

func TestLoadConfig_ExplicitValuesSurvive(t *testing.T) {
	path := writeConfigFile(t, `{
		"data_file": "elsewhere/jobs.json",
		"timezone": "UTC",
		"max_retries": 4,
		"retry_backoff": "exponential",
		"sources": [
			{
				"name": "acme_jobs",
				"kind": "http",
				"url": "https://jobs.acme.test/list",
				"enabled": false,
				"max_pages": 2,
				"selectors": {"list": ".row", "title": ".t", "url": "a"}
			}
		]
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "elsewhere/jobs.json", cfg.DataFile)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 4, cfg.MaxRetries)
	assert.Equal(t, BackoffExponential, cfg.RetryBackoff)
	assert.Equal(t, 2, cfg.Sources[0].MaxPages)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("JOB_TRACKER_DATA_FILE", "/var/lib/tracker/jobs.json")
	t.Setenv("JOB_TRACKER_TIMEZONE", "UTC")

	path := writeConfigFile(t, `{"data_file": "ignored.json", "sources": []}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/tracker/jobs.json", cfg.DataFile, "environment should trump the file value")
	assert.Equal(t, "UTC", cfg.Timezone)
}

func TestLoadConfig_Failures(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("unparseable json", func(t *testing.T) {
		_, err := LoadConfig(writeConfigFile(t, "{broken"))
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.Sources = []SourceConfig{validSource("google_career")}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name: "unknown kind",
			mutate: func(c *Config) {
				c.Sources[0].Kind = "ftp"
			},
			wantErr: "config error",
		},
		{
			name: "missing source name",
			mutate: func(c *Config) {
				c.Sources[0].Name = ""
			},
			wantErr: "config error",
		},
		{
			name: "bad source url",
			mutate: func(c *Config) {
				c.Sources[0].URL = "not a url"
			},
			wantErr: "config error",
		},
		{
			name: "duplicate source names",
			mutate: func(c *Config) {
				c.Sources = append(c.Sources, validSource("google_career"))
			},
			wantErr: `duplicate source name "google_career"`,
		},
		{
			name: "missing list selector",
			mutate: func(c *Config) {
				c.Sources[0].Selectors.List = ""
			},
			wantErr: "missing the 'list' selector",
		},
		{
			name: "missing title selector",
			mutate: func(c *Config) {
				c.Sources[0].Selectors.Title = ""
			},
			wantErr: "missing the 'title' selector",
		},
		{
			name: "missing url selector",
			mutate: func(c *Config) {
				c.Sources[0].Selectors.URL = ""
			},
			wantErr: "missing the 'url' selector",
		},
		{
			name: "unknown timezone",
			mutate: func(c *Config) {
				c.Timezone = "Mars/Olympus_Mons"
			},
			wantErr: "unknown timezone",
		},
		{
			name: "negative retries",
			mutate: func(c *Config) {
				c.MaxRetries = -1
			},
			wantErr: "config error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_EnabledSources(t *testing.T) {
	disabled := validSource("second")
	disabled.Enabled = false
	cfg := Config{Sources: []SourceConfig{
		validSource("first"),
		disabled,
		validSource("third"),
	}}

	enabled := cfg.EnabledSources()
	require.Len(t, enabled, 2)
	assert.Equal(t, "first", enabled[0].Name, "declared order should be preserved")
	assert.Equal(t, "third", enabled[1].Name)
}

func TestConfig_SourceByName(t *testing.T) {
	cfg := Config{Sources: []SourceConfig{validSource("google_career")}}

	src, ok := cfg.SourceByName("google_career")
	require.True(t, ok)
	assert.Equal(t, KindHTTP, src.Kind)

	_, ok = cfg.SourceByName("missing")
	assert.False(t, ok)
}

func TestConfig_DurationAccessors(t *testing.T) {
	cfg := Config{
		RetryDelaySeconds:    3,
		SourceDelaySeconds:   10,
		SourceTimeoutSeconds: 45,
		WatchIntervalHours:   6,
	}

	assert.Equal(t, 3*time.Second, cfg.RetryDelay())
	assert.Equal(t, 10*time.Second, cfg.SourceDelay())
	assert.Equal(t, 45*time.Second, cfg.SourceTimeout())
	assert.Equal(t, 6*time.Hour, cfg.WatchInterval())
}
