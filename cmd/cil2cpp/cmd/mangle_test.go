package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunMangleProjectsEachLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.txt")
	if err := os.WriteFile(path, []byte("System.Int32\nGame.Widget\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	mangleAsPointer = false
	mangleField = false
	if err := runMangle(mangleCmd, []string{path}); err != nil {
		t.Fatalf("runMangle: %v", err)
	}
}

func TestRunMangleFieldMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fields.txt")
	if err := os.WriteFile(path, []byte("_count\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	mangleField = true
	defer func() { mangleField = false }()
	if err := runMangle(mangleCmd, []string{path}); err != nil {
		t.Fatalf("runMangle: %v", err)
	}
}
