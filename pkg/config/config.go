package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of a policy file.
type Config struct {
	// Defaults supplies values for policy fields left unset.
	Defaults Defaults `yaml:"defaults"`

	// Policies maps policy names to their limits.
	Policies map[string]Policy `yaml:"policies"`

	// Sweep configures the optional scheduled sweeper.
	Sweep SweepConfig `yaml:"sweep"`
}

// Defaults holds fallback values applied to policies that omit a field.
type Defaults struct {
	Window Duration `yaml:"window"`
	Count  uint64   `yaml:"count"`
}

// Policy describes one limit: Count uses per Window.
type Policy struct {
	// Window is the duration over which uses are counted.
	Window Duration `yaml:"window"`

	// Count is the number of uses allowed per window. Must be positive
	// after defaults are applied.
	Count uint64 `yaml:"count"`
}

// SweepConfig configures the optional stale-record sweeper.
type SweepConfig struct {
	// Schedule is a cron expression ("0 3 * * *", "@hourly"). Empty
	// disables scheduled sweeping.
	Schedule string `yaml:"schedule"`

	// Grace is how long past window expiry a record must be before a
	// sweep removes it.
	Grace Duration `yaml:"grace"`
}

// Duration wraps time.Duration so policy files can use Go duration
// strings. Bare integers are interpreted as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string or integer: %w", err)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// String returns the duration in Go syntax.
func (d Duration) String() string {
	return time.Duration(d).String()
}
