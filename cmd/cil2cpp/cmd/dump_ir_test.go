package cmd

import "testing"

func TestRunDumpIRTextMode(t *testing.T) {
	path := writeFixture(t)
	translateConfigPath = ""
	dumpIRJSON = false
	if err := runDumpIR(dumpIRCmd, []string{path}); err != nil {
		t.Fatalf("runDumpIR: %v", err)
	}
}

func TestRunDumpIRJSONMode(t *testing.T) {
	path := writeFixture(t)
	translateConfigPath = ""
	dumpIRJSON = true
	defer func() { dumpIRJSON = false }()
	if err := runDumpIR(dumpIRCmd, []string{path}); err != nil {
		t.Fatalf("runDumpIR: %v", err)
	}
}
