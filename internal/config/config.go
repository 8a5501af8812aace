// Package config provides configuration loading and validation for the
// analytics service. It uses koanf to merge defaults, an optional YAML file,
// and ANALYTICS_-prefixed environment variables, with env taking precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// ANALYTICS_POSTGRES_DSN maps to the postgres_dsn key.
const EnvPrefix = "ANALYTICS_"

// Config holds all configuration values for the analytics service.
type Config struct {
	// Server
	Addr string `koanf:"addr"`

	// Database
	PostgresDSN string `koanf:"postgres_dsn"`

	// Ingest
	DeveloperIDs    []string `koanf:"developer_ids"`
	FetchPageSize   int      `koanf:"fetch_page_size"`
	ForceFullReload bool     `koanf:"force_full_reload"`

	// Reporting
	WeekRegime         string `koanf:"week_regime"` // epoch or calendar
	WeekAnchor         string `koanf:"week_anchor"` // weekday name, calendar regime only
	WeekEpoch          string `koanf:"week_epoch"`  // RFC3339, epoch regime only
	MinURLViews        int    `koanf:"min_url_views"`
	IncludeLivestreams bool   `koanf:"include_livestreams"`

	// Logging
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// Configuration validation errors.
var (
	ErrMissingPostgresDSN = errors.New("postgres_dsn is required")
	ErrInvalidWeekRegime  = errors.New("week_regime must be epoch or calendar")
	ErrInvalidWeekAnchor  = errors.New("week_anchor must be a weekday name")
	ErrInvalidWeekEpoch   = errors.New("week_epoch must be an RFC3339 UTC timestamp")
	ErrInvalidPageSize    = errors.New("fetch_page_size must be positive")
	ErrInvalidMinURLViews = errors.New("min_url_views must be positive")
)

// Defaults for non-secret configuration.
const (
	DefaultAddr          = ":8080"
	DefaultFetchPageSize = 5000
	DefaultWeekRegime    = "epoch"
	DefaultWeekAnchor    = "sunday"
	DefaultMinURLViews   = 1
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load reads configuration from an optional YAML file and ANALYTICS_-prefixed
// environment variables. Env values take precedence over file values.
func Load(configFilePath string) (*Config, error) {
	k := koanf.New(".")

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configFilePath, err)
		}
	}

	// ANALYTICS_POSTGRES_DSN -> postgres_dsn
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		Addr:          DefaultAddr,
		FetchPageSize: DefaultFetchPageSize,
		WeekRegime:    DefaultWeekRegime,
		WeekAnchor:    DefaultWeekAnchor,
		MinURLViews:   DefaultMinURLViews,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Env vars carry list values as comma-separated strings.
	cfg.DeveloperIDs = normalizeList(cfg.DeveloperIDs)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalizeList(in []string) []string {
	var out []string
	for _, v := range in {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	var errs []error

	if c.PostgresDSN == "" {
		errs = append(errs, ErrMissingPostgresDSN)
	}
	if c.FetchPageSize <= 0 {
		errs = append(errs, ErrInvalidPageSize)
	}
	if c.MinURLViews <= 0 {
		errs = append(errs, ErrInvalidMinURLViews)
	}

	switch strings.ToLower(c.WeekRegime) {
	case "epoch":
		if c.WeekEpoch != "" {
			if _, err := time.Parse(time.RFC3339, c.WeekEpoch); err != nil {
				errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidWeekEpoch, err))
			}
		}
	case "calendar":
		if _, ok := weekdays[strings.ToLower(c.WeekAnchor)]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidWeekAnchor, c.WeekAnchor))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidWeekRegime, c.WeekRegime))
	}

	return errors.Join(errs...)
}

// WeekAnchorDay returns the configured anchor as a time.Weekday. Call only
// after Validate has passed.
func (c *Config) WeekAnchorDay() time.Weekday {
	return weekdays[strings.ToLower(c.WeekAnchor)]
}

// WeekEpochTime returns the configured week epoch, or the zero time when the
// default epoch should be used. Call only after Validate has passed.
func (c *Config) WeekEpochTime() time.Time {
	if c.WeekEpoch == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, c.WeekEpoch)
	return t.UTC()
}
