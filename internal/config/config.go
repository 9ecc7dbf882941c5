// Package config loads the service configuration from TOML files and SCOUT_*
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/scout/pkg/auth"
	"github.com/JaimeStill/scout/pkg/database"
	"github.com/JaimeStill/scout/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvScoutEnv             = "SCOUT_ENV"
	EnvScoutShutdownTimeout = "SCOUT_SHUTDOWN_TIMEOUT"
	EnvScoutVersion         = "SCOUT_VERSION"
	EnvScoutLogLevel        = "SCOUT_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	URL:             "SCOUT_DB_URL",
	Host:            "SCOUT_DB_HOST",
	Port:            "SCOUT_DB_PORT",
	Name:            "SCOUT_DB_NAME",
	User:            "SCOUT_DB_USER",
	Password:        "SCOUT_DB_PASSWORD",
	SSLMode:         "SCOUT_DB_SSL_MODE",
	MaxOpenConns:    "SCOUT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SCOUT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SCOUT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SCOUT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "SCOUT_STORAGE_CONTAINER_NAME",
	ConnectionString: "SCOUT_STORAGE_CONNECTION_STRING",
	AccountURL:       "SCOUT_STORAGE_ACCOUNT_URL",
	URLExpiry:        "SCOUT_STORAGE_URL_EXPIRY",
	MaxRetries:       "SCOUT_STORAGE_MAX_RETRIES",
}

var authEnv = &auth.Env{
	Issuer:            "SCOUT_AUTH_ISSUER",
	ClientID:          "SCOUT_AUTH_CLIENT_ID",
	JWKSURL:           "SCOUT_AUTH_JWKS_URL",
	SkipClientIDCheck: "SCOUT_AUTH_SKIP_CLIENT_ID_CHECK",
	DevUser:           "SCOUT_AUTH_DEV_USER",
}

// Config is the root configuration for the Scout service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Auth            auth.Config     `toml:"auth"`
	Gemini          GeminiConfig    `toml:"gemini"`
	Match           MatchConfig     `toml:"match"`
	Extract         ExtractConfig   `toml:"extract"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
	LogLevel        string          `toml:"log_level"`
}

// Env returns the SCOUT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvScoutEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var l slog.Level
	_ = l.UnmarshalText([]byte(c.LogLevel))
	return l
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Gemini.Merge(&overlay.Gemini)
	c.Match.Merge(&overlay.Match)
	c.Extract.Merge(&overlay.Extract)
}

// Finalize applies defaults, environment overrides, and validation to every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"auth", func() error { return c.Auth.Finalize(authEnv) }},
		{"gemini", c.Gemini.Finalize},
		{"match", c.Match.Finalize},
		{"extract", c.Extract.Finalize},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	if w := c.Server.WriteTimeoutDuration(); w < c.Match.TimeoutDuration() || w < c.Extract.TimeoutDuration() {
		return fmt.Errorf("server: write_timeout %s is shorter than a progress stream", c.Server.WriteTimeout)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvScoutShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvScoutVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvScoutLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvScoutEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
