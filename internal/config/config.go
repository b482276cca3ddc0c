package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigError is returned when a TOML file is missing a required key or
// carries a value outside its valid range. Fatal at construction time:
// callers are expected to fix the file and retry, not recover in place.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config: %s", e.Reason)
	}
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Config is the typed form of the advisor's TOML configuration file. Raw
// keys match spec.md §6 / SPEC_FULL.md §6 verbatim.
type Config struct {
	WeightNetwork float64 `toml:"weight_network"`
	WeightDisk    float64 `toml:"weight_disk"`
	WeightSkew    float64 `toml:"weight_skew"`

	Nodes       int     `toml:"nodes"`
	MaxMemoryMB float64 `toml:"max_memory"`
	AddressSize float64 `toml:"address_size"`

	SkewIntervals int `toml:"skew_intervals"`
	WindowSize    int `toml:"window_size"`

	LNSTimeBudgetSeconds int `toml:"lns_time_budget_seconds"`
}

// LNSTimeBudget returns the configured LNS time budget as a
// time.Duration.
func (c Config) LNSTimeBudget() time.Duration {
	return time.Duration(c.LNSTimeBudgetSeconds) * time.Second
}

// Load parses path as TOML into a Config, checks that every recognized
// key is present and then validates every value, returning a
// *ConfigError on the first violation found.
func Load(path string) (Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, &ConfigError{Reason: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	for _, key := range []string{
		"weight_network", "weight_disk", "weight_skew", "nodes", "max_memory",
		"address_size", "skew_intervals", "window_size", "lns_time_budget_seconds",
	} {
		if !md.IsDefined(key) {
			return Config{}, &ConfigError{Key: key, Reason: "missing"}
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks every recognized key is in range. It sees only the
// decoded struct, where an absent key reads as zero; Load reports absent
// keys before calling it.
func (c Config) Validate() error {
	if c.WeightNetwork < 0 {
		return &ConfigError{Key: "weight_network", Reason: "must be >= 0"}
	}
	if c.WeightDisk < 0 {
		return &ConfigError{Key: "weight_disk", Reason: "must be >= 0"}
	}
	if c.WeightSkew < 0 {
		return &ConfigError{Key: "weight_skew", Reason: "must be >= 0"}
	}
	if c.WeightNetwork == 0 && c.WeightDisk == 0 && c.WeightSkew == 0 {
		return &ConfigError{Key: "weight_network/weight_disk/weight_skew", Reason: "at least one weight must be > 0"}
	}
	if c.Nodes <= 0 {
		return &ConfigError{Key: "nodes", Reason: "must be a positive integer"}
	}
	if c.MaxMemoryMB <= 0 {
		return &ConfigError{Key: "max_memory", Reason: "must be > 0"}
	}
	if c.AddressSize <= 0 {
		return &ConfigError{Key: "address_size", Reason: "must be > 0"}
	}
	if c.SkewIntervals < 2 {
		return &ConfigError{Key: "skew_intervals", Reason: "must be >= 2"}
	}
	if c.WindowSize <= 0 {
		return &ConfigError{Key: "window_size", Reason: "must be > 0"}
	}
	if c.LNSTimeBudgetSeconds <= 0 {
		return &ConfigError{Key: "lns_time_budget_seconds", Reason: "must be > 0"}
	}
	return nil
}
