// Package config holds the settings of the harbor daemon. Settings come from
// an optional YAML or JSON-with-comments file; command-line flags override
// whatever the file sets.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Config is the daemon configuration.
type Config struct {
	HTTPAddr  string  `yaml:"http_addr" json:"http_addr"`
	DataDir   string  `yaml:"data_dir" json:"data_dir"`
	LogFormat string  `yaml:"log_format" json:"log_format"`
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" json:"rate_burst"`
	ZipkinURL string  `yaml:"zipkin_url" json:"zipkin_url"`
	Seed      bool    `yaml:"seed" json:"seed"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{
		HTTPAddr:  ":8080",
		DataDir:   "data",
		LogFormat: "logfmt",
		RateLimit: 10,
		RateBurst: 100,
	}
}

// Load reads path on top of the defaults. The format follows the file
// extension: .yaml/.yml for YAML, .json/.jsonc for JSON with comments.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), &cfg)
	default:
		return cfg, fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that would otherwise fail later at startup.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "logfmt", "json":
	default:
		return fmt.Errorf("invalid log_format %q (valid: logfmt, json)", c.LogFormat)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("rate_limit and rate_burst must be positive")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}
