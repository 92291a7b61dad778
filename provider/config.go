package provider

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds configuration for creating a backend client.
// Common fields apply to all backends; use Options for backend-specific settings.
type Config struct {
	// Provider is the registered name of the backend to use.
	// Required. Values: "echo", "scripted", or any name a backend registers.
	Provider string `json:"provider" yaml:"provider" toml:"provider"`

	// Model is the model to use (backend-specific name).
	Model string `json:"model" yaml:"model" toml:"model"`

	// MaxTokens is the default output cap applied when a Request leaves
	// MaxTokens at zero. Zero means the backend default.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`

	// Timeout is the maximum duration of one completion call or stream.
	// 0 means no client-imposed limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout"`

	// Options holds backend-specific configuration.
	//
	// Echo:
	//   - "prefix": string (default "Echo: ")
	//
	// Scripted:
	//   - "responses": []string (scripted model outputs, cycled)
	//   - "chunk_size": int (stream text as Partial deltas of this many runes)
	Options map[string]any `json:"options" yaml:"options" toml:"options"`
}

// DefaultConfig returns a Config with sensible defaults.
// Provider must still be set before use.
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Minute,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables use the LLMCORE_ prefix and take precedence over
// existing values.
//
// Supported variables:
//   - LLMCORE_PROVIDER: Provider name
//   - LLMCORE_MODEL: Model name
//   - LLMCORE_MAX_TOKENS: Default output cap
//   - LLMCORE_TIMEOUT: Timeout duration (e.g., "5m")
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("LLMCORE_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("LLMCORE_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("LLMCORE_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTokens = n
		}
	}
	if v := os.Getenv("LLMCORE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be >= 0, got %d", c.MaxTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// ApplyDefaults fills request fields the caller left unset from the config.
func (c Config) ApplyDefaults(req Request) Request {
	if req.MaxTokens == 0 {
		req.MaxTokens = c.MaxTokens
	}
	return req
}

// WithProvider returns a copy of the config with the specified provider.
func (c Config) WithProvider(provider string) Config {
	c.Provider = provider
	return c
}

// WithModel returns a copy of the config with the specified model.
func (c Config) WithModel(model string) Config {
	c.Model = model
	return c
}

// WithOption returns a copy of the config with the specified option set.
func (c Config) WithOption(key string, value any) Config {
	if c.Options == nil {
		c.Options = make(map[string]any)
	} else {
		// Copy to avoid modifying original
		newOpts := make(map[string]any, len(c.Options)+1)
		for k, v := range c.Options {
			newOpts[k] = v
		}
		c.Options = newOpts
	}
	c.Options[key] = value
	return c
}

// GetOption retrieves a backend-specific option by key.
func (c Config) GetOption(key string) any {
	if c.Options == nil {
		return nil
	}
	return c.Options[key]
}

// GetStringOption retrieves a string option, returning defaultVal if not set.
func (c Config) GetStringOption(key, defaultVal string) string {
	if c.Options == nil {
		return defaultVal
	}
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetBoolOption retrieves a bool option, returning defaultVal if not set.
func (c Config) GetBoolOption(key string, defaultVal bool) bool {
	if c.Options == nil {
		return defaultVal
	}
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return defaultVal
}

// GetIntOption retrieves an int option, returning defaultVal if not set.
func (c Config) GetIntOption(key string, defaultVal int) int {
	if c.Options == nil {
		return defaultVal
	}
	switch v := c.Options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultVal
}

// GetStringSliceOption retrieves a string slice option, returning nil if not set.
// Handles both []string and []any (from JSON, YAML or TOML decoding).
func (c Config) GetStringSliceOption(key string) []string {
	if c.Options == nil {
		return nil
	}
	switch v := c.Options[key].(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
