package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/scout/pkg/formatting"
	"github.com/JaimeStill/scout/pkg/middleware"
	"github.com/JaimeStill/scout/pkg/pagination"
)

const (
	EnvAPIBasePath      = "SCOUT_API_BASE_PATH"
	EnvAPIMaxUploadSize = "SCOUT_API_MAX_UPLOAD_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "SCOUT_CORS_ENABLED",
	Origins:          "SCOUT_CORS_ORIGINS",
	AllowedMethods:   "SCOUT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "SCOUT_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "SCOUT_CORS_EXPOSED_HEADERS",
	AllowCredentials: "SCOUT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "SCOUT_CORS_MAX_AGE",
}

var paginationEnv = &pagination.Env{
	DefaultPageSize: "SCOUT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "SCOUT_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request limits, CORS, and pagination settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes bounds a whole multipart request body, form fields included.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	if n, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || n <= 0 {
		return fmt.Errorf("invalid max_upload_size: %q", c.MaxUploadSize)
	}
	return nil
}
