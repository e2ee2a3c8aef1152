package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/axiomates/cil2cpp/internal/reach"
)

func TestLoadParsesYAMLAndDefaultsSeeding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cil2cpp.yaml")
	contents := "root_assembly: Game\nregister_value_types:\n  - Game.Vector2\nemit_why_trace: true\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RootAssembly != "Game" {
		t.Errorf("RootAssembly = %q, want Game", cfg.RootAssembly)
	}
	if cfg.Seeding != "auto" {
		t.Errorf("Seeding = %q, want auto (default)", cfg.Seeding)
	}
	if len(cfg.RegisterValueTypes) != 1 || cfg.RegisterValueTypes[0] != "Game.Vector2" {
		t.Errorf("RegisterValueTypes = %+v", cfg.RegisterValueTypes)
	}
	if !cfg.EmitWhyTrace {
		t.Errorf("expected EmitWhyTrace true")
	}
}

func TestReachModeMapping(t *testing.T) {
	cases := map[string]reach.Mode{
		"executable": reach.ModeExecutable,
		"library":    reach.ModeLibrary,
		"":           reach.ModeAuto,
		"nonsense":   reach.ModeAuto,
	}
	for seeding, want := range cases {
		got := Config{Seeding: seeding}.ReachMode()
		if got != want {
			t.Errorf("Config{Seeding:%q}.ReachMode() = %v, want %v", seeding, got, want)
		}
	}
}
