package storage

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Azure Blob Storage connection parameters.
// ConnectionString takes precedence; otherwise AccountURL is used with the
// default Azure credential chain.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	URLExpiry        string `toml:"url_expiry"`
	MaxRetries       int32  `toml:"max_retries"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	AccountURL       string
	URLExpiry        string
	MaxRetries       string
}

// URLExpiryDuration returns URLExpiry as a time.Duration.
func (c *Config) URLExpiryDuration() time.Duration {
	d, _ := time.ParseDuration(c.URLExpiry)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.URLExpiry != "" {
		c.URLExpiry = overlay.URLExpiry
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "resumes"
	}
	if c.URLExpiry == "" {
		c.URLExpiry = "8760h"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ContainerName != "" {
		if v := os.Getenv(env.ContainerName); v != "" {
			c.ContainerName = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.AccountURL != "" {
		if v := os.Getenv(env.AccountURL); v != "" {
			c.AccountURL = v
		}
	}
	if env.URLExpiry != "" {
		if v := os.Getenv(env.URLExpiry); v != "" {
			c.URLExpiry = v
		}
	}
	if env.MaxRetries != "" {
		if v := os.Getenv(env.MaxRetries); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				c.MaxRetries = int32(n)
			}
		}
	}
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" && c.AccountURL == "" {
		return fmt.Errorf("connection_string or account_url required")
	}
	if d, err := time.ParseDuration(c.URLExpiry); err != nil || d <= 0 {
		return fmt.Errorf("invalid url_expiry: %q", c.URLExpiry)
	}
	return nil
}
