// Package config parses the optional chip.yaml runtime configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "chip.yaml"

// Config is the top-level chip.yaml structure.
type Config struct {
	// MaxEvalDepth caps nested evaluation; 0 keeps the engine default.
	MaxEvalDepth int `yaml:"max_eval_depth,omitempty"`

	// Prelude seeds the state with named scalar values before the first
	// evaluation. Values may be integers, booleans or strings.
	Prelude map[string]interface{} `yaml:"prelude,omitempty"`
}

// Load reads and parses path. A missing file yields an empty Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses and validates raw yaml. name is used in diagnostics.
func Parse(data []byte, name string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if err := cfg.validate(name); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate(name string) error {
	if c.MaxEvalDepth < 0 {
		return fmt.Errorf("%s: max_eval_depth: must not be negative", name)
	}
	for key, v := range c.Prelude {
		switch v.(type) {
		case int, int64, bool, string:
		default:
			return fmt.Errorf("%s: prelude.%s: value must be an integer, boolean or string", name, key)
		}
	}
	return nil
}
