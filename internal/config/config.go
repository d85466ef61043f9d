// Package config provides loading, validation and saving of the importer
// settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the settings file used when neither --config nor
// VACANCY_IMPORTER_CONFIG is given.
const DefaultPath = "config.yml"

// Defaults for the global settings.
const (
	DefaultLanguage        = "da"
	DefaultTimezone        = "UTC"
	DefaultHTTPTimeout     = 30 * time.Second
	DefaultImportInterval  = 30 * time.Minute
	DefaultArchiveInterval = 15 * time.Minute
	DefaultArchiveMinutes  = 15
	DefaultCleanupInterval = 24 * time.Hour
	MinInterval            = time.Minute
)

// Defaults for the per-source settings.
const (
	DefaultEmplyAPIPath     = "/v1/norden/postings"
	DefaultHRManagerDomain  = "https://api.hr-manager.net"
	DefaultHRManagerAPIPath = "/jobportal.svc"
)

// Config is the importer settings document.
type Config struct {
	Source      string        `yaml:"source"`
	Language    string        `yaml:"language"`
	Timezone    string        `yaml:"timezone"`
	DatabaseURL string        `yaml:"database_url,omitempty"`
	RedisURL    string        `yaml:"redis_url,omitempty"`
	HTTP        HTTPConfig    `yaml:"http"`
	Import      JobConfig     `yaml:"import"`
	Archive     ArchiveConfig `yaml:"archive"`
	Cleanup     JobConfig     `yaml:"cleanup"`
	Log         LogConfig     `yaml:"log"`
	Sources     SourcesConfig `yaml:"sources"`
}

// HTTPConfig configures outbound vendor requests.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// JobConfig enables a scheduled job and sets its interval.
type JobConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// ArchiveConfig is the schedule of the archive sweep plus its grace period.
type ArchiveConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	Minutes  int           `yaml:"minutes"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
}

// SourcesConfig holds the settings of every known vendor source.
type SourcesConfig struct {
	Emply     EmplyConfig     `yaml:"emply"`
	HRManager HRManagerConfig `yaml:"hrmanager"`
}

// EmplyConfig holds the Emply API settings.
type EmplyConfig struct {
	APIDomain          string      `yaml:"api_domain" validate:"required"`
	APIPath            string      `yaml:"api_path,omitempty"`
	MediaID            string      `yaml:"media_id" validate:"required"`
	APIKey             string      `yaml:"api_key" validate:"required"`
	InsertJobIDInFacts bool        `yaml:"insert_jobid_in_facts"`
	FactIDs            EmplyFactID `yaml:"fact_ids"`
}

// EmplyFactID maps Emply fact identifiers to vacancy categories.
type EmplyFactID struct {
	WorkArea       string `yaml:"work_area"`
	WorkTime       string `yaml:"work_time"`
	EmploymentType string `yaml:"employment_type"`
	WorkPlace      string `yaml:"work_place"`
}

// HRManagerConfig holds the HR-Manager API settings.
type HRManagerConfig struct {
	APIDomain          string            `yaml:"api_domain" validate:"required"`
	APIName            string            `yaml:"api_name" validate:"required"`
	QueryParameters    map[string]string `yaml:"query_parameters,omitempty"`
	InsertJobIDInFacts bool              `yaml:"insert_jobid_in_facts"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := newConfig()
	cfg.ApplyDefaults()
	return cfg
}

// newConfig returns the Config a settings document is decoded into. Fields
// where zero is a meaningful setting are pre-filled so only an absent key
// takes the default.
func newConfig() *Config {
	return &Config{Archive: ArchiveConfig{Minutes: DefaultArchiveMinutes}}
}

// ApplyDefaults fills zero values with their defaults. Archive.Minutes is
// left alone since 0 means archiving right at the due date.
func (c *Config) ApplyDefaults() {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}
	if c.Import.Interval == 0 {
		c.Import.Interval = DefaultImportInterval
	}
	if c.Archive.Interval == 0 {
		c.Archive.Interval = DefaultArchiveInterval
	}
	if c.Cleanup.Interval == 0 {
		c.Cleanup.Interval = DefaultCleanupInterval
	}
	if c.Sources.Emply.APIPath == "" {
		c.Sources.Emply.APIPath = DefaultEmplyAPIPath
	}
	if c.Sources.HRManager.APIDomain == "" {
		c.Sources.HRManager.APIDomain = DefaultHRManagerDomain
	}
}

// Location returns the site time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ResolvePath picks the settings file: explicit flag, then
// VACANCY_IMPORTER_CONFIG, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("VACANCY_IMPORTER_CONFIG"); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads the settings file at path, applies environment overrides and
// defaults. A missing file at DefaultPath yields defaults plus environment.
func Load(path string) (*Config, error) {
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

	cfg := newConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && filepath.Base(path) == DefaultPath:
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.ApplyEnv(os.Getenv)
	cfg.ApplyDefaults()
	return cfg, nil
}

// Parse decodes a settings document without touching the environment.
func Parse(data []byte) (*Config, error) {
	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Source, "VACANCY_IMPORTER_SOURCE")
	set(&c.DatabaseURL, "DATABASE_URL")
	set(&c.RedisURL, "REDIS_URL")
	set(&c.Sources.Emply.APIKey, "EMPLY_API_KEY")
	set(&c.Sources.Emply.MediaID, "EMPLY_MEDIA_ID")
	set(&c.Sources.HRManager.APIName, "HRMANAGER_API_NAME")
}
