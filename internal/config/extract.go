package config

import (
	"fmt"
	"time"

	"github.com/JaimeStill/scout/pkg/formatting"
	"github.com/JaimeStill/scout/pkg/retry"
)

const (
	EnvExtractMode        = "SCOUT_EXTRACT_MODE"
	EnvExtractMaxAttempts = "SCOUT_EXTRACT_MAX_ATTEMPTS"
	EnvExtractBaseDelay   = "SCOUT_EXTRACT_BASE_DELAY"
	EnvExtractMaxDelay    = "SCOUT_EXTRACT_MAX_DELAY"
	EnvExtractMaxFileSize = "SCOUT_EXTRACT_MAX_FILE_SIZE"
	EnvExtractTimeout     = "SCOUT_EXTRACT_TIMEOUT"
)

// Extraction modes.
const (
	ModeStructured = "structured"
	ModeOCR        = "ocr"
)

// MaxExtractAttempts caps extract.max_attempts.
const MaxExtractAttempts = 5

// ExtractConfig holds resume extraction parameters.
type ExtractConfig struct {
	Mode        string `toml:"mode"`
	MaxAttempts int    `toml:"max_attempts"`
	BaseDelay   string `toml:"base_delay"`
	MaxDelay    string `toml:"max_delay"`
	MaxFileSize string `toml:"max_file_size"`
	Timeout     string `toml:"timeout"`
}

// Policy returns the extraction retry policy.
func (c *ExtractConfig) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.MaxAttempts,
		BaseDelay:   parseDuration(c.BaseDelay),
		MaxDelay:    parseDuration(c.MaxDelay),
	}
}

// MaxFileSizeBytes returns MaxFileSize in bytes.
func (c *ExtractConfig) MaxFileSizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxFileSize)
	return n
}

// TimeoutDuration bounds a whole extraction run.
func (c *ExtractConfig) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ExtractConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ExtractConfig) Merge(overlay *ExtractConfig) {
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
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
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *ExtractConfig) loadDefaults() {
	if c.Mode == "" {
		c.Mode = ModeStructured
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
	if c.MaxFileSize == "" {
		c.MaxFileSize = "20MB"
	}
	if c.Timeout == "" {
		c.Timeout = "5m"
	}
}

func (c *ExtractConfig) loadEnv() {
	envString(EnvExtractMode, &c.Mode)
	envInt(EnvExtractMaxAttempts, &c.MaxAttempts)
	envString(EnvExtractBaseDelay, &c.BaseDelay)
	envString(EnvExtractMaxDelay, &c.MaxDelay)
	envString(EnvExtractMaxFileSize, &c.MaxFileSize)
	envString(EnvExtractTimeout, &c.Timeout)
}

func (c *ExtractConfig) validate() error {
	if c.Mode != ModeStructured && c.Mode != ModeOCR {
		return fmt.Errorf("unknown mode: %q", c.Mode)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > MaxExtractAttempts {
		return fmt.Errorf("max_attempts must be between 1 and %d", MaxExtractAttempts)
	}
	if err := validateDelays(c.BaseDelay, c.MaxDelay); err != nil {
		return err
	}
	if n, err := formatting.ParseBytes(c.MaxFileSize); err != nil || n <= 0 {
		return fmt.Errorf("invalid max_file_size: %q", c.MaxFileSize)
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	return nil
}
