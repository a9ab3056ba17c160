package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load loads a policy file from the given path. It applies default
// values, validates the configuration and returns any errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy file %q: %w", path, err)
	}

	return cfg, nil
}

// Parse parses policy YAML from memory, applying defaults and validating
// the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills unset policy fields from the defaults section and
// unset sweep fields from package defaults.
func ApplyDefaults(cfg *Config) {
	for name, policy := range cfg.Policies {
		if policy.Window == 0 {
			policy.Window = cfg.Defaults.Window
		}
		if policy.Count == 0 {
			policy.Count = cfg.Defaults.Count
		}
		cfg.Policies[name] = policy
	}

	if cfg.Sweep.Schedule != "" && cfg.Sweep.Grace == 0 {
		cfg.Sweep.Grace = DefaultSweepGrace
	}
}
