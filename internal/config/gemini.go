package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvGeminiAPIKey   = "SCOUT_GEMINI_API_KEY"
	EnvGeminiModel    = "SCOUT_GEMINI_MODEL"
	EnvGeminiBackend  = "SCOUT_GEMINI_BACKEND"
	EnvGeminiProject  = "SCOUT_GEMINI_PROJECT"
	EnvGeminiLocation = "SCOUT_GEMINI_LOCATION"
	EnvGeminiTimeout  = "SCOUT_GEMINI_TIMEOUT"
)

// Gemini backends.
const (
	BackendGeminiAPI = "gemini"
	BackendVertexAI  = "vertex"
)

// GeminiConfig holds model client settings. The Gemini API backend needs an API key;
// the Vertex AI backend needs a project and location and uses application default credentials.
type GeminiConfig struct {
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
	Backend  string `toml:"backend"`
	Project  string `toml:"project"`
	Location string `toml:"location"`
	Timeout  string `toml:"timeout"`
}

// TimeoutDuration returns the per-call timeout.
func (c *GeminiConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *GeminiConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *GeminiConfig) Merge(overlay *GeminiConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Project != "" {
		c.Project = overlay.Project
	}
	if overlay.Location != "" {
		c.Location = overlay.Location
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *GeminiConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	if c.Backend == "" {
		c.Backend = BackendGeminiAPI
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
}

func (c *GeminiConfig) loadEnv() {
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvGeminiModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvGeminiBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvGeminiProject); v != "" {
		c.Project = v
	}
	if v := os.Getenv(EnvGeminiLocation); v != "" {
		c.Location = v
	}
	if v := os.Getenv(EnvGeminiTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *GeminiConfig) validate() error {
	switch c.Backend {
	case BackendGeminiAPI:
		if c.APIKey == "" {
			return fmt.Errorf("api_key required for the %s backend", c.Backend)
		}
	case BackendVertexAI:
		if c.Project == "" || c.Location == "" {
			return fmt.Errorf("project and location required for the %s backend", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	return nil
}
