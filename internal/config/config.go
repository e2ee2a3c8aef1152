// Package config loads the translator's YAML-backed run configuration: the
// seeding mode and a handful of per-run knobs the CLI and embeddable façade
// both read.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/axiomates/cil2cpp/internal/reach"
)

// Config is the translator's run configuration.
type Config struct {
	// Seeding selects the reachability analyzer's mode: "executable",
	// "library", or "auto" (the zero value behaves as "auto").
	Seeding string `yaml:"seeding"`

	// RootAssembly is parsed from the file, but nothing in this module reads
	// it: the root assembly always comes from the loader source.
	RootAssembly string `yaml:"root_assembly"`

	// RegisterValueTypes lists extra IL names the Name Mapper should treat
	// as value types beyond the fixed primitives (§5), for loader sources
	// that cannot themselves report is_value_type reliably.
	RegisterValueTypes []string `yaml:"register_value_types"`

	// EmitWhyTrace makes `translate` print the reachable-method count after
	// its summary; it does not print the per-method Why reasons (those are
	// shown by `list-reachable --explain`) and never affects marking
	// decisions.
	EmitWhyTrace bool `yaml:"emit_why_trace"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{Seeding: "auto"}
}

// Load reads and parses a YAML configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.Seeding == "" {
		cfg.Seeding = "auto"
	}
	return cfg, nil
}

// ReachMode translates the configuration's Seeding string to reach.Mode,
// defaulting to reach.ModeAuto for an empty or unrecognized value.
func (c Config) ReachMode() reach.Mode {
	switch c.Seeding {
	case "executable":
		return reach.ModeExecutable
	case "library":
		return reach.ModeLibrary
	default:
		return reach.ModeAuto
	}
}
