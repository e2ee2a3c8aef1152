package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

const fixtureJSON = `{
  "root": "Game",
  "assemblies": ["Game"],
  "entryPoint": {"owner": "Game.Program", "name": "Main", "signature": "()"},
  "types": [
    {
      "il": "Game.Program",
      "namespace": "Game",
      "isPublic": true,
      "baseType": "System.Object",
      "methods": [
        {
          "name": "Main",
          "signature": "()",
          "isStatic": true,
          "isPublic": true,
          "returnType": "System.Void",
          "body": [
            {"op": "ldc.i4", "int": 42},
            {"op": "pop"},
            {"op": "ret"}
          ]
        }
      ]
    }
  ]
}`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "game.il.json")
	if err := os.WriteFile(path, []byte(fixtureJSON), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadSourceParsesFixture(t *testing.T) {
	path := writeFixture(t)
	mem, err := loadSource(path)
	if err != nil {
		t.Fatalf("loadSource: %v", err)
	}
	if mem.RootAssembly() != "Game" {
		t.Errorf("RootAssembly() = %q, want Game", mem.RootAssembly())
	}
}

func TestLoadRunConfigDefaultsWithoutAPath(t *testing.T) {
	translateConfigPath = ""
	cfg, err := loadRunConfig()
	if err != nil {
		t.Fatalf("loadRunConfig: %v", err)
	}
	if cfg.Seeding != "auto" {
		t.Errorf("Seeding = %q, want auto", cfg.Seeding)
	}
}

func TestRunTranslatePrintsSummary(t *testing.T) {
	path := writeFixture(t)
	translateConfigPath = ""
	if err := runTranslate(translateCmd, []string{path}); err != nil {
		t.Fatalf("runTranslate: %v", err)
	}
}
