package lift

import (
	"testing"

	"github.com/axiomates/cil2cpp/internal/ilname"
	"github.com/axiomates/cil2cpp/internal/ir"
	"github.com/axiomates/cil2cpp/internal/loader"
)

// noIntercept claims nothing, exercising only the general (non-intercepted)
// call/newobj path — the seven built-in handlers get their own tests in
// package intercept.
type noIntercept struct{}

func (noIntercept) MatchCall(string, string, string) (int, bool, string, bool)    { return 0, false, "", false }
func (noIntercept) EmitCall(string, string, []ir.Operand, string) ir.Instruction  { return nil }
func (noIntercept) MatchNewObject(string, string) (int, bool)                     { return 0, false }
func (noIntercept) EmitNewObject(string, []ir.Operand, string) ir.Instruction     { return nil }

// spanIntercept claims newobj and the get_Length call on
// System.Span`1<System.Int32>, standing in for package intercept's real
// table in these tests.
type spanIntercept struct{}

func (spanIntercept) MatchCall(owner, name, _ string) (int, bool, string, bool) {
	if owner == "System.Span`1<System.Int32>" && name == "get_Length" {
		return 0, true, "System.Int32", true
	}
	return 0, false, "", false
}
func (spanIntercept) EmitCall(owner, _ string, args []ir.Operand, dest string) ir.Instruction {
	return &ir.RawTargetText{Dest: dest, Text: args[0].Text + ".length"}
}
func (spanIntercept) MatchNewObject(owner, _ string) (int, bool) {
	if owner == "System.Span`1<System.Int32>" {
		return 2, true
	}
	return 0, false
}
func (spanIntercept) EmitNewObject(owner string, args []ir.Operand, dest string) ir.Instruction {
	return &ir.RawTargetText{Dest: dest, Text: "{" + args[0].Text + ", " + args[1].Text + "}"}
}

func TestLiftMethodArithmeticAndReturn(t *testing.T) {
	mem := loader.NewMemory("Game")
	mem.AddType("Game", loader.TypeInfo{ILName: "Game.Math", IsPublic: true})
	mem.AddMethod("Game.Math", loader.MethodInfo{
		Name: "AddOne", Signature: "(System.Int32)", IsStatic: true, ReturnType: "System.Int32",
		Params: []loader.ParamInfo{{Name: "x", ILTypeName: "System.Int32"}},
	})
	ref := loader.MethodRef{Owner: "Game.Math", Name: "AddOne", Signature: "(System.Int32)"}
	mem.SetBody(ref, loader.Body{
		Instructions: []loader.Op{
			{Code: loader.OpLdArg, ArgIndex: 0},
			{Code: loader.OpLdcI4, IntOperand: 1},
			{Code: loader.OpAdd},
			{Code: loader.OpRet},
		},
	})

	mapper := ilname.NewMapper()
	lifter := New(mem, mapper, noIntercept{})

	owner := &ir.Type{ILName: "Game.Math", NativeName: "Game_Math"}
	mi, _ := lifter.lookupMethod("Game.Math", "AddOne", "(System.Int32)")
	method := &ir.Method{Name: "AddOne", NativeName: "Game_Math_AddOne", Owner: owner, HasThis: mi.HasThis, ReturnILType: string(mi.ReturnType)}

	body, _ := mem.MethodBody(ref)
	if err := lifter.LiftMethod(owner, method, mi, body); err != nil {
		t.Fatalf("LiftMethod: %v", err)
	}

	if len(method.Blocks) != 1 {
		t.Fatalf("expected a single block, got %d", len(method.Blocks))
	}
	insts := method.Blocks[0].Instructions
	if len(insts) != 3 {
		t.Fatalf("expected 3 lifted instructions, got %d", len(insts))
	}
	if _, ok := insts[1].(*ir.Arithmetic); !ok {
		t.Fatalf("instruction 1 = %T, want *ir.Arithmetic", insts[1])
	}
	ret, ok := insts[2].(*ir.Return)
	if !ok {
		t.Fatalf("instruction 2 = %T, want *ir.Return", insts[2])
	}
	if ret.Value.Text == "" {
		t.Errorf("expected a non-void return value")
	}
}

func TestLiftMethodSplitsBlocksOnBranchTargets(t *testing.T) {
	mem := loader.NewMemory("Game")
	mem.AddType("Game", loader.TypeInfo{ILName: "Game.Cond", IsPublic: true})
	mem.AddMethod("Game.Cond", loader.MethodInfo{Name: "Pick", Signature: "(System.Int32)", IsStatic: true, ReturnType: "System.Int32"})
	ref := loader.MethodRef{Owner: "Game.Cond", Name: "Pick", Signature: "(System.Int32)"}
	mem.SetBody(ref, loader.Body{
		Instructions: []loader.Op{
			{Code: loader.OpLdArg, ArgIndex: 0},          // 0
			{Code: loader.OpBrTrue, BranchTarget: 3},     // 1
			{Code: loader.OpLdcI4, IntOperand: 0},        // 2 (fallthrough label)
			{Code: loader.OpRet},                          // 3 (branch target label) -- NOTE: overlapping for brevity
		},
	})

	mapper := ilname.NewMapper()
	lifter := New(mem, mapper, noIntercept{})
	owner := &ir.Type{ILName: "Game.Cond"}
	mi, _ := lifter.lookupMethod("Game.Cond", "Pick", "(System.Int32)")
	method := &ir.Method{Name: "Pick", Owner: owner, ReturnILType: string(mi.ReturnType)}

	body, _ := mem.MethodBody(ref)
	if err := lifter.LiftMethod(owner, method, mi, body); err != nil {
		t.Fatalf("LiftMethod: %v", err)
	}
	if len(method.Blocks) < 3 {
		t.Fatalf("expected at least 3 blocks from branch-target splitting, got %d", len(method.Blocks))
	}
}

func TestLiftMethodRecordsInterceptedGenericInstanceOwners(t *testing.T) {
	mem := loader.NewMemory("Game")
	mem.AddType("Game", loader.TypeInfo{ILName: "Game.Program", IsPublic: true})
	mem.AddMethod("Game.Program", loader.MethodInfo{Name: "Main", Signature: "()", IsStatic: true, ReturnType: "System.Int32"})
	ref := loader.MethodRef{Owner: "Game.Program", Name: "Main", Signature: "()"}
	spanCtor := &loader.MethodRef{Owner: "System.Span`1<System.Int32>", Name: ".ctor", Signature: "(System.Int32[],System.Int32)"}
	lengthGetter := &loader.MethodRef{Owner: "System.Span`1<System.Int32>", Name: "get_Length", Signature: "()"}
	mem.SetBody(ref, loader.Body{
		Instructions: []loader.Op{
			{Code: loader.OpLdNull},
			{Code: loader.OpLdcI4, IntOperand: 4},
			{Code: loader.OpNewObj, MethodOperand: spanCtor},
			{Code: loader.OpCall, MethodOperand: lengthGetter},
			{Code: loader.OpRet},
		},
	})

	mapper := ilname.NewMapper()
	lifter := New(mem, mapper, spanIntercept{})
	owner := &ir.Type{ILName: "Game.Program"}
	mi, _ := lifter.lookupMethod("Game.Program", "Main", "()")
	method := &ir.Method{Name: "Main", Owner: owner, ReturnILType: string(mi.ReturnType)}

	body, _ := mem.MethodBody(ref)
	if err := lifter.LiftMethod(owner, method, mi, body); err != nil {
		t.Fatalf("LiftMethod: %v", err)
	}

	got := lifter.InterceptedOwners()
	if len(got) != 1 || got[0] != "System.Span`1<System.Int32>" {
		t.Fatalf("InterceptedOwners() = %v, want [System.Span`1<System.Int32>]", got)
	}
}

func TestLiftMethodRejectsUnknownOpcode(t *testing.T) {
	mem := loader.NewMemory("Game")
	mem.AddType("Game", loader.TypeInfo{ILName: "Game.Bad", IsPublic: true})
	mem.AddMethod("Game.Bad", loader.MethodInfo{Name: "M", Signature: "()", IsStatic: true})
	ref := loader.MethodRef{Owner: "Game.Bad", Name: "M", Signature: "()"}
	body := loader.Body{Instructions: []loader.Op{{Code: loader.OpCode(9999)}}}

	mapper := ilname.NewMapper()
	lifter := New(mem, mapper, noIntercept{})
	owner := &ir.Type{ILName: "Game.Bad"}
	method := &ir.Method{Name: "M", Owner: owner}

	if err := lifter.LiftMethod(owner, method, loader.MethodInfo{Name: "M", Signature: "()"}, body); err == nil {
		t.Fatalf("expected an error for an unhandled opcode")
	}
	_ = ref
}
