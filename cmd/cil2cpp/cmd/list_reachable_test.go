package cmd

import "testing"

func TestRunListReachablePrintsReachableTypes(t *testing.T) {
	path := writeFixture(t)
	translateConfigPath = ""
	listReachableExplain = false
	if err := runListReachable(listReachableCmd, []string{path}); err != nil {
		t.Fatalf("runListReachable: %v", err)
	}
}

func TestRunListReachableExplainDoesNotError(t *testing.T) {
	path := writeFixture(t)
	translateConfigPath = ""
	listReachableExplain = true
	defer func() { listReachableExplain = false }()
	if err := runListReachable(listReachableCmd, []string{path}); err != nil {
		t.Fatalf("runListReachable: %v", err)
	}
}
