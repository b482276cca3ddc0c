// Package config loads the advisor's TOML configuration file into a
// typed Config, validating every key the core cost model and search
// engine need before any component is constructed.
package config
