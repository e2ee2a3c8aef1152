package diag

import "testing"

func TestTranslationErrorFormat(t *testing.T) {
	err := NewTranslationError(Location{MethodOwnerIL: "Game.Program", MethodName: "Main", Offset: 4, Opcode: "call"}, "unhandled opcode %s", "frobnicate")
	got := err.Error()
	want := "translation error at Game.Program.Main[4] (call)\nunhandled opcode frobnicate"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTraceStringOrdersOldestFirst(t *testing.T) {
	trace := Trace{
		{MethodOwnerIL: "Game.Program", MethodName: "Main", Reason: "entry point"},
		{MethodOwnerIL: "Game.Helper", MethodName: "Compute", Reason: "called from Game.Program.Main"},
	}
	want := "Game.Program.Main (entry point)\nGame.Helper.Compute (called from Game.Program.Main)"
	if got := trace.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if top := trace.Top(); top == nil || top.MethodName != "Compute" {
		t.Errorf("Top() = %+v", top)
	}
}

func TestEmptyTraceStringIsEmpty(t *testing.T) {
	var trace Trace
	if trace.String() != "" {
		t.Errorf("expected empty string for an empty trace")
	}
	if trace.Top() != nil {
		t.Errorf("expected nil Top() for an empty trace")
	}
}
