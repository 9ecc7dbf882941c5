package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/scout/pkg/batch"
	"github.com/JaimeStill/scout/pkg/retry"
)

const (
	EnvMatchGroupSize     = "SCOUT_MATCH_GROUP_SIZE"
	EnvMatchWidth         = "SCOUT_MATCH_WIDTH"
	EnvMatchMaxAttempts   = "SCOUT_MATCH_MAX_ATTEMPTS"
	EnvMatchBaseDelay     = "SCOUT_MATCH_BASE_DELAY"
	EnvMatchMaxDelay      = "SCOUT_MATCH_MAX_DELAY"
	EnvMatchMaxCandidates = "SCOUT_MATCH_MAX_CANDIDATES"
	EnvMatchSnippetLimit  = "SCOUT_MATCH_SNIPPET_LIMIT"
	EnvMatchTimeout       = "SCOUT_MATCH_TIMEOUT"
)

// Snippet limit bounds.
const (
	MinSnippetLimit = 1000
	MaxSnippetLimit = 4000
)

// MatchConfig holds candidate matching parameters.
type MatchConfig struct {
	GroupSize     int    `toml:"group_size"`
	Width         int    `toml:"width"`
	MaxAttempts   int    `toml:"max_attempts"`
	BaseDelay     string `toml:"base_delay"`
	MaxDelay      string `toml:"max_delay"`
	MaxCandidates int    `toml:"max_candidates"`
	SnippetLimit  int    `toml:"snippet_limit"`
	Timeout       string `toml:"timeout"`
}

// Size returns the batch plan dimensions.
func (c *MatchConfig) Size() batch.Size {
	return batch.Size{Group: c.GroupSize, Width: c.Width}
}

// Policy returns the per-group retry policy.
func (c *MatchConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.MaxAttempts,
		BaseDelay:   parseDuration(c.BaseDelay),
		MaxDelay:    parseDuration(c.MaxDelay),
	}
}

// TimeoutDuration bounds a whole match run.
func (c *MatchConfig) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *MatchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *MatchConfig) Merge(overlay *MatchConfig) {
	if overlay.GroupSize != 0 {
		c.GroupSize = overlay.GroupSize
	}
	if overlay.Width != 0 {
		c.Width = overlay.Width
	}
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.BaseDelay != "" {
		c.BaseDelay = overlay.BaseDelay
	}
	if overlay.MaxDelay != "" {
		c.MaxDelay = overlay.MaxDelay
	}
	if overlay.MaxCandidates != 0 {
		c.MaxCandidates = overlay.MaxCandidates
	}
	if overlay.SnippetLimit != 0 {
		c.SnippetLimit = overlay.SnippetLimit
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *MatchConfig) loadDefaults() {
	if c.GroupSize <= 0 {
		c.GroupSize = batch.DefaultGroupSize
	}
	if c.Width <= 0 {
		c.Width = batch.DefaultWidth
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay == "" {
		c.BaseDelay = "1s"
	}
	if c.MaxDelay == "" {
		c.MaxDelay = "30s"
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = 100
	}
	if c.SnippetLimit == 0 {
		c.SnippetLimit = MinSnippetLimit
	}
	if c.Timeout == "" {
		c.Timeout = "10m"
	}
}

func (c *MatchConfig) loadEnv() {
	envInt(EnvMatchGroupSize, &c.GroupSize)
	envInt(EnvMatchWidth, &c.Width)
	envInt(EnvMatchMaxAttempts, &c.MaxAttempts)
	envString(EnvMatchBaseDelay, &c.BaseDelay)
	envString(EnvMatchMaxDelay, &c.MaxDelay)
	envInt(EnvMatchMaxCandidates, &c.MaxCandidates)
	envInt(EnvMatchSnippetLimit, &c.SnippetLimit)
	envString(EnvMatchTimeout, &c.Timeout)
}

func (c *MatchConfig) validate() error {
	if c.GroupSize < 1 || c.Width < 1 {
		return fmt.Errorf("group_size and width must be positive")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive")
	}
	if c.SnippetLimit < MinSnippetLimit || c.SnippetLimit > MaxSnippetLimit {
		return fmt.Errorf("snippet_limit must be between %d and %d", MinSnippetLimit, MaxSnippetLimit)
	}
	if err := validateDelays(c.BaseDelay, c.MaxDelay); err != nil {
		return err
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	return nil
}

func validateDelays(base, limit string) error {
	b, err := time.ParseDuration(base)
	if err != nil || b < 0 {
		return fmt.Errorf("invalid base_delay: %q", base)
	}
	m, err := time.ParseDuration(limit)
	if err != nil || m < b {
		return fmt.Errorf("invalid max_delay: %q", limit)
	}
	return nil
}

func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func envString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
