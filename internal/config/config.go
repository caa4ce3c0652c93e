package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bucket   string        `yaml:"bucket"`
	Prefix   string        `yaml:"prefix"`
	Region   string        `yaml:"region"`
	Endpoint string        `yaml:"endpoint"`
	LogLevel string        `yaml:"log_level"`
	Restore  RestoreConfig `yaml:"restore"`
	Transit  TransitConfig `yaml:"transit"`
}

type RestoreConfig struct {
	Days   int     `yaml:"days"`
	Tier   string  `yaml:"tier"`
	Strict bool    `yaml:"strict"`
	RPS    float64 `yaml:"rps"`
}

type TransitConfig struct {
	StorageClass string `yaml:"storage_class"`
	PollSeconds  int    `yaml:"poll_seconds"`
}

// Default returns the built-in defaults. File, env and flags layer on
// top of these, in that order.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Transit: TransitConfig{
			PollSeconds: 3600,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
