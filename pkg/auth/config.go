package auth

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds bearer token verification settings.
// Leaving Issuer empty selects development mode, where requests without a token
// run as DevUser.
type Config struct {
	Issuer            string `toml:"issuer"`
	ClientID          string `toml:"client_id"`
	JWKSURL           string `toml:"jwks_url"`
	SkipClientIDCheck bool   `toml:"skip_client_id_check"`
	DevUser           string `toml:"dev_user"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Issuer            string
	ClientID          string
	JWKSURL           string
	SkipClientIDCheck string
	DevUser           string
}

// DevMode reports whether token verification is disabled.
func (c *Config) DevMode() bool {
	return c.Issuer == ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.JWKSURL != "" {
		c.JWKSURL = overlay.JWKSURL
	}
	if overlay.SkipClientIDCheck {
		c.SkipClientIDCheck = true
	}
	if overlay.DevUser != "" {
		c.DevUser = overlay.DevUser
	}
}

func (c *Config) loadDefaults() {
	if c.DevMode() && c.DevUser == "" {
		c.DevUser = "local-dev"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.JWKSURL != "" {
		if v := os.Getenv(env.JWKSURL); v != "" {
			c.JWKSURL = v
		}
	}
	if env.SkipClientIDCheck != "" {
		if v := os.Getenv(env.SkipClientIDCheck); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.SkipClientIDCheck = b
			}
		}
	}
	if env.DevUser != "" {
		if v := os.Getenv(env.DevUser); v != "" {
			c.DevUser = v
		}
	}
}

func (c *Config) validate() error {
	if c.DevMode() {
		return nil
	}
	if c.ClientID == "" && !c.SkipClientIDCheck {
		return fmt.Errorf("client_id required unless skip_client_id_check is set")
	}
	return nil
}
