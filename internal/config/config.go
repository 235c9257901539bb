// Package config reads the MatchHub settings from an optional YAML file and
// MATCHHUB_* environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"matchhub/internal/adapters/league"
)

// EnvPrefix is prepended to every environment variable, e.g. MATCHHUB_ADDR.
const EnvPrefix = "MATCHHUB"

// Environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Validation errors
var (
	ErrInvalidEnv     = errors.New("env must be development or production")
	ErrInvalidCSRFKey = errors.New("csrf_key must be 64 hex characters (32 bytes)")
	ErrMissingCSRFKey = errors.New("csrf_key is required in production")
	ErrInvalidLimit   = errors.New("rate_limit must be at least 1")
)

// LeagueConfig points the scraper at the league site.
type LeagueConfig struct {
	StandingsURL    string        `mapstructure:"standings_url"`
	FixturesURL     string        `mapstructure:"fixtures_url"`
	TeamURLTemplate string        `mapstructure:"team_url_template"`
	UserAgent       string        `mapstructure:"user_agent"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// EmailConfig configures partner notifications. An empty ResendKey disables them.
type EmailConfig struct {
	ResendKey string `mapstructure:"resend_key"`
	From      string `mapstructure:"from"`
}

// Config is the resolved application configuration.
type Config struct {
	Addr           string        `mapstructure:"addr"`
	Env            string        `mapstructure:"env"`
	DataDir        string        `mapstructure:"data_dir"`
	StaticDir      string        `mapstructure:"static_dir"`
	AuthFile       string        `mapstructure:"auth_file"`
	CSRFKey        string        `mapstructure:"csrf_key"`
	TrustedOrigins []string      `mapstructure:"trusted_origins"`
	BaseURL        string        `mapstructure:"base_url"`
	LogLevel       string        `mapstructure:"log_level"`
	FocusTeam      string        `mapstructure:"focus_team"`
	Timezone       string        `mapstructure:"timezone"`
	WatchContent   bool          `mapstructure:"watch_content"`
	RateLimit      int           `mapstructure:"rate_limit"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	SlowMs         int           `mapstructure:"slow_ms"`
	League         LeagueConfig  `mapstructure:"league"`
	Email          EmailConfig   `mapstructure:"email"`

	location *time.Location
}

// setDefaults registers a default for every key so AutomaticEnv can see them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("data_dir", "data")
	v.SetDefault("static_dir", "static")
	v.SetDefault("auth_file", filepath.Join("data", "auth.yaml"))
	v.SetDefault("csrf_key", "")
	v.SetDefault("trusted_origins", []string{})
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("focus_team", "ERC Ingolstadt")
	v.SetDefault("timezone", "Europe/Berlin")
	v.SetDefault("watch_content", true)
	v.SetDefault("rate_limit", 10)
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("slow_ms", 200)
	v.SetDefault("league.standings_url", league.DefaultStandingsURL)
	v.SetDefault("league.fixtures_url", league.DefaultFixturesURL)
	v.SetDefault("league.team_url_template", league.DefaultTeamURLTemplate)
	v.SetDefault("league.user_agent", league.DefaultUserAgent)
	v.SetDefault("league.timeout", league.DefaultTimeout)
	v.SetDefault("email.resend_key", "")
	v.SetDefault("email.from", "MatchHub <matchhub@example.com>")
}

// Load resolves the configuration from defaults, the YAML file and the
// environment, in increasing precedence.
// PRE: path is empty or names a readable YAML file
// POST: Returns a validated config with the time zone loaded
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("matchhub")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// MATCHHUB_RESEND_KEY is accepted as a short alias.
	if err := v.BindEnv("email.resend_key", EnvPrefix+"_EMAIL_RESEND_KEY", EnvPrefix+"_RESEND_KEY"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		slog.Debug("config_event", "event", "config_file_loaded", "path", v.ConfigFileUsed())
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and loads the time zone.
func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("%w: %q", ErrInvalidEnv, c.Env)
	}
	if c.CSRFKey == "" && c.Production() {
		return ErrMissingCSRFKey
	}
	if c.CSRFKey != "" {
		key, err := hex.DecodeString(c.CSRFKey)
		if err != nil || len(key) != 32 {
			return ErrInvalidCSRFKey
		}
	}
	if c.RateLimit < 1 {
		return ErrInvalidLimit
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	c.location = loc
	return nil
}

// Production reports whether secure cookies and a fixed CSRF key are required.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// CSRFKeyBytes returns the decoded key, or nil when none is configured.
func (c *Config) CSRFKeyBytes() []byte {
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil || len(key) != 32 {
		return nil
	}
	return key
}

// Location returns the league time zone. Falls back to UTC before Validate.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// SlogLevel parses log_level (debug, info, warn, error).
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// DBPath is the SQLite file holding accounts and the refresh log.
func (c *Config) DBPath() string { return filepath.Join(c.DataDir, "matchhub.db") }

// CacheDir holds the scraped league pages.
func (c *Config) CacheDir() string { return filepath.Join(c.DataDir, "cache") }

// SubmissionsDir holds mood and observation files.
func (c *Config) SubmissionsDir() string { return filepath.Join(c.DataDir, "submissions") }

// SessionsDir holds the academy session files.
func (c *Config) SessionsDir() string { return filepath.Join(c.DataDir, "academy", "sessions") }

// CurriculumPath is the read-only curriculum file.
func (c *Config) CurriculumPath() string {
	return filepath.Join(c.DataDir, "academy", "curriculum.json")
}

// GlossaryPath is the read-only glossary file.
func (c *Config) GlossaryPath() string { return filepath.Join(c.DataDir, "wiki_terms.json") }
