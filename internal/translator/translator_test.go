package translator

import (
	"testing"

	"github.com/axiomates/cil2cpp/internal/ir"
	"github.com/axiomates/cil2cpp/internal/loader"
	"github.com/axiomates/cil2cpp/internal/reach"
)

func buildFixture() *loader.Memory {
	mem := loader.NewMemory("Game")

	mem.AddType("Game", loader.TypeInfo{ILName: "System.Object", Namespace: "System", IsPublic: true})
	mem.AddType("Game", loader.TypeInfo{ILName: "System.Int32", Namespace: "System", IsValueType: true, IsPublic: true})
	mem.AddType("Game", loader.TypeInfo{
		ILName: "Game.Helper", Namespace: "Game", IsPublic: true, BaseType: "System.Object",
	})
	mem.AddMethod("Game.Helper", loader.MethodInfo{
		Name: "AddOne", Signature: "(System.Int32)", IsStatic: true, ReturnType: "System.Int32",
		Params: []loader.ParamInfo{{Name: "x", ILTypeName: "System.Int32"}},
	})
	mem.SetBody(loader.MethodRef{Owner: "Game.Helper", Name: "AddOne", Signature: "(System.Int32)"}, loader.Body{
		Instructions: []loader.Op{
			{Code: loader.OpLdArg, ArgIndex: 0},
			{Code: loader.OpLdcI4, IntOperand: 1},
			{Code: loader.OpAdd},
			{Code: loader.OpRet},
		},
	})

	mem.AddType("Game", loader.TypeInfo{
		ILName: "Game.Program", Namespace: "Game", IsPublic: true, BaseType: "System.Object",
	})
	mem.AddMethod("Game.Program", loader.MethodInfo{Name: "Main", Signature: "()", IsStatic: true, ReturnType: "System.Void"})
	mainRef := loader.MethodRef{Owner: "Game.Program", Name: "Main", Signature: "()"}
	mem.SetBody(mainRef, loader.Body{
		Instructions: []loader.Op{
			{Code: loader.OpLdcI4, IntOperand: 41},
			{Code: loader.OpCall, MethodOperand: &loader.MethodRef{Owner: "Game.Helper", Name: "AddOne", Signature: "(System.Int32)"}},
			{Code: loader.OpPop},
			{Code: loader.OpRet},
		},
	})
	mem.SetEntryPoint(mainRef)

	return mem
}

func TestTranslateBuildsShellsAndLiftsReachableBodies(t *testing.T) {
	mem := buildFixture()
	res, err := Translate(mem, Options{Mode: reach.ModeExecutable})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	program, ok := res.Module.TypeByILName("Game.Program")
	if !ok {
		t.Fatalf("expected Game.Program in the module")
	}
	helper, ok := res.Module.TypeByILName("Game.Helper")
	if !ok {
		t.Fatalf("expected Game.Helper in the module")
	}

	if len(program.Methods) != 1 || program.Methods[0].Name != "Main" {
		t.Fatalf("unexpected Program methods: %+v", program.Methods)
	}
	main := program.Methods[0]
	if len(main.Blocks) == 0 || len(main.Blocks[0].Instructions) == 0 {
		t.Fatalf("expected Main's body to be lifted, got %+v", main.Blocks)
	}

	var sawCall bool
	for _, b := range main.Blocks {
		for _, inst := range b.Instructions {
			if _, ok := inst.(*ir.Call); ok {
				sawCall = true
			}
		}
	}
	if !sawCall {
		t.Errorf("expected Main's lifted body to contain a Call instruction")
	}

	if len(helper.Methods) != 1 || len(helper.Methods[0].Blocks[0].Instructions) == 0 {
		t.Fatalf("expected AddOne to be lifted too")
	}
}

// TestTranslateMaterializesInterceptedGenericBuiltins exercises §8 scenario
// 6: a method constructs a Span<int> and reads its Length, both of which are
// handled entirely through interception (internal/intercept never consults
// the loader for System.Span`1). The instantiation itself must still land
// in the Module so an emitter can generate its storage.
func TestTranslateMaterializesInterceptedGenericBuiltins(t *testing.T) {
	mem := loader.NewMemory("Game")
	mem.AddType("Game", loader.TypeInfo{
		ILName: "Game.Program", Namespace: "Game", IsPublic: true, BaseType: "System.Object",
	})
	mem.AddMethod("Game.Program", loader.MethodInfo{Name: "Main", Signature: "()", IsStatic: true, ReturnType: "System.Int32"})
	mainRef := loader.MethodRef{Owner: "Game.Program", Name: "Main", Signature: "()"}
	mem.SetBody(mainRef, loader.Body{
		Instructions: []loader.Op{
			{Code: loader.OpLdNull},
			{Code: loader.OpLdcI4, IntOperand: 4},
			{Code: loader.OpNewObj, MethodOperand: &loader.MethodRef{
				Owner: "System.Span`1<System.Int32>", Name: ".ctor", Signature: "(System.Int32[],System.Int32)",
			}},
			{Code: loader.OpCallVirt, MethodOperand: &loader.MethodRef{
				Owner: "System.Span`1<System.Int32>", Name: "get_Length", Signature: "()",
			}},
			{Code: loader.OpRet},
		},
	})
	mem.SetEntryPoint(mainRef)

	res, err := Translate(mem, Options{Mode: reach.ModeExecutable})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	span, ok := res.Module.TypeByILName("System.Span`1<System.Int32>")
	if !ok {
		t.Fatalf("expected System.Span`1<System.Int32> to be materialized in the module")
	}
	if span.Kind != ir.KindSyntheticBuiltin {
		t.Errorf("Kind = %v, want KindSyntheticBuiltin", span.Kind)
	}
	if len(span.Fields) == 0 {
		t.Errorf("expected Span's synthetic fields to be populated")
	}
}

func TestTranslateIsNoOpOnUnreachableTypes(t *testing.T) {
	mem := buildFixture()
	mem.AddType("Game", loader.TypeInfo{ILName: "Game.Unused", Namespace: "Game", IsPublic: true, BaseType: "System.Object"})
	mem.AddMethod("Game.Unused", loader.MethodInfo{Name: "Dead", Signature: "()"})
	mem.SetBody(loader.MethodRef{Owner: "Game.Unused", Name: "Dead", Signature: "()"}, loader.Body{
		Instructions: []loader.Op{{Code: loader.OpRet}},
	})

	res, err := Translate(mem, Options{Mode: reach.ModeExecutable})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if _, ok := res.Module.TypeByILName("Game.Unused"); ok {
		t.Errorf("Game.Unused must not appear in the translated module")
	}
}
