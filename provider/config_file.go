package provider

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk form of Config. Timeout is a duration string
// ("30s", "5m") in every format.
type fileConfig struct {
	Provider  string         `json:"provider" yaml:"provider" toml:"provider"`
	Model     string         `json:"model" yaml:"model" toml:"model"`
	MaxTokens int            `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
	Timeout   string         `json:"timeout" yaml:"timeout" toml:"timeout"`
	Options   map[string]any `json:"options" yaml:"options" toml:"options"`
}

// LoadConfigFile reads a config file on top of DefaultConfig.
// The format is chosen by extension: .yaml/.yml, .toml or .json.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes config data in the given format ("yaml", "toml",
// "json", with or without a leading dot) on top of DefaultConfig.
func ParseConfig(data []byte, format string) (Config, error) {
	var fc fileConfig
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("yaml: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return Config{}, fmt.Errorf("toml: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return Config{}, fmt.Errorf("json: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}

	cfg := DefaultConfig()
	cfg.Provider = fc.Provider
	cfg.Model = fc.Model
	cfg.MaxTokens = fc.MaxTokens
	cfg.Options = fc.Options
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
