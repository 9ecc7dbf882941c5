package database

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds PostgreSQL connection parameters. A URL takes precedence over
// the discrete fields.
type Config struct {
	URL             string `toml:"url"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	Name            string `toml:"name"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	SSLMode         string `toml:"ssl_mode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
	ConnTimeout     string `toml:"conn_timeout"`
}

// Env names the environment variables that override Config. Empty names are skipped.
type Env struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    string
	MaxIdleConns    string
	ConnMaxLifetime string
	ConnTimeout     string
}

func (c *Config) ConnMaxLifetimeDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnMaxLifetime)
	return d
}

func (c *Config) ConnTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnTimeout)
	return d
}

// Dsn returns the connection string handed to pgx.
func (c *Config) Dsn() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Name, c.User, c.Password, c.SSLMode,
	)
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
	for dst, src := range c.stringFields(overlay) {
		if *src != "" {
			*dst = *src
		}
	}
	for dst, src := range c.intFields(overlay) {
		if *src != 0 {
			*dst = *src
		}
	}
}

// stringFields pairs each string field of c with the same field of o.
func (c *Config) stringFields(o *Config) map[*string]*string {
	return map[*string]*string{
		&c.URL:             &o.URL,
		&c.Host:            &o.Host,
		&c.Name:            &o.Name,
		&c.User:            &o.User,
		&c.Password:        &o.Password,
		&c.SSLMode:         &o.SSLMode,
		&c.ConnMaxLifetime: &o.ConnMaxLifetime,
		&c.ConnTimeout:     &o.ConnTimeout,
	}
}

func (c *Config) intFields(o *Config) map[*int]*int {
	return map[*int]*int{
		&c.Port:         &o.Port,
		&c.MaxOpenConns: &o.MaxOpenConns,
		&c.MaxIdleConns: &o.MaxIdleConns,
	}
}

func (c *Config) loadDefaults() {
	setDefault(&c.Host, "localhost")
	setDefault(&c.Port, 5432)
	setDefault(&c.SSLMode, "disable")
	setDefault(&c.MaxOpenConns, 25)
	setDefault(&c.MaxIdleConns, 5)
	setDefault(&c.ConnMaxLifetime, "15m")
	setDefault(&c.ConnTimeout, "5s")
}

func (c *Config) loadEnv(env *Env) {
	strs := []struct {
		name string
		dst  *string
	}{
		{env.URL, &c.URL},
		{env.Host, &c.Host},
		{env.Name, &c.Name},
		{env.User, &c.User},
		{env.Password, &c.Password},
		{env.SSLMode, &c.SSLMode},
		{env.ConnMaxLifetime, &c.ConnMaxLifetime},
		{env.ConnTimeout, &c.ConnTimeout},
	}
	for _, f := range strs {
		if v := lookup(f.name); v != "" {
			*f.dst = v
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{env.Port, &c.Port},
		{env.MaxOpenConns, &c.MaxOpenConns},
		{env.MaxIdleConns, &c.MaxIdleConns},
	}
	for _, f := range ints {
		if n, err := strconv.Atoi(lookup(f.name)); err == nil {
			*f.dst = n
		}
	}
}

func (c *Config) validate() error {
	if c.URL == "" {
		if c.Name == "" {
			return fmt.Errorf("name required")
		}
		if c.User == "" {
			return fmt.Errorf("user required")
		}
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return fmt.Errorf("max_idle_conns (%d) exceeds max_open_conns (%d)", c.MaxIdleConns, c.MaxOpenConns)
	}
	if _, err := time.ParseDuration(c.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid conn_max_lifetime: %w", err)
	}
	if _, err := time.ParseDuration(c.ConnTimeout); err != nil {
		return fmt.Errorf("invalid conn_timeout: %w", err)
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func setDefault[T comparable](dst *T, v T) {
	var zero T
	if *dst == zero {
		*dst = v
	}
}
