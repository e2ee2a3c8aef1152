package cil2cpp

import (
	"testing"

	"github.com/axiomates/cil2cpp/internal/loader"
)

func TestTranslateProducesAModuleForASimpleEntryPoint(t *testing.T) {
	mem := loader.NewMemory("Game")
	mem.AddType("Game", loader.TypeInfo{ILName: "System.Object", IsPublic: true})
	mem.AddType("Game", loader.TypeInfo{ILName: "Game.Program", IsPublic: true, BaseType: "System.Object"})
	mem.AddMethod("Game.Program", loader.MethodInfo{Name: "Main", Signature: "()", IsStatic: true})
	ref := loader.MethodRef{Owner: "Game.Program", Name: "Main", Signature: "()"}
	mem.SetBody(ref, loader.Body{Instructions: []loader.Op{{Code: loader.OpRet}}})
	mem.SetEntryPoint(ref)

	res, err := Translate(mem, Options{Mode: Executable})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Module == nil {
		t.Fatal("expected a non-nil Module")
	}
	if _, ok := res.Module.TypeByILName("Game.Program"); !ok {
		t.Errorf("expected Game.Program in the translated module")
	}
	if res.Reachable == nil || !res.Reachable.Types["Game.Program"] {
		t.Errorf("expected the reachability result to mark Game.Program reachable")
	}
}
