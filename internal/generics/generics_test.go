package generics

import (
	"testing"

	"github.com/axiomates/cil2cpp/internal/ilname"
	"github.com/axiomates/cil2cpp/internal/ir"
	"github.com/axiomates/cil2cpp/internal/loader"
)

func TestEnsureSynthesizesBuiltinSpanInstance(t *testing.T) {
	module := ir.NewModule()
	mapper := ilname.NewMapper()

	typ, err := Ensure(module, mapper, "System.Span`1<System.Int32>")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if typ.Kind != ir.KindSyntheticBuiltin {
		t.Fatalf("expected KindSyntheticBuiltin, got %v", typ.Kind)
	}
	if !typ.IsRuntimeProvided {
		t.Errorf("expected IsRuntimeProvided")
	}
	if len(typ.Fields) != 2 {
		t.Fatalf("expected 2 synthetic fields, got %d", len(typ.Fields))
	}
	if _, ok := module.TypeByILName("System.Span`1<System.Int32>"); !ok {
		t.Errorf("expected the instance registered in the module")
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	module := ir.NewModule()
	mapper := ilname.NewMapper()

	first, err := Ensure(module, mapper, "System.Threading.Tasks.TaskCompletionSource`1<System.Int32>")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	second, err := Ensure(module, mapper, "System.Threading.Tasks.TaskCompletionSource`1<System.Int32>")
	if err != nil {
		t.Fatalf("Ensure (second): %v", err)
	}
	if first != second {
		t.Errorf("expected the same Type pointer on a repeat Ensure")
	}
}

func TestEnsureNonGenericIsNoOp(t *testing.T) {
	module := ir.NewModule()
	mapper := ilname.NewMapper()

	typ, err := Ensure(module, mapper, "Game.Program")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if typ != nil {
		t.Errorf("expected nil for a non-generic-instance name")
	}
}

func TestEnsureAllFiltersToGenericInstances(t *testing.T) {
	module := ir.NewModule()
	mapper := ilname.NewMapper()

	refs := []loader.TypeRef{"Game.Program", "System.Span`1<System.Byte>", "System.Int32"}
	if err := EnsureAll(module, mapper, refs); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	if _, ok := module.TypeByILName("System.Span`1<System.Byte>"); !ok {
		t.Fatalf("expected the span instance to be ensured")
	}
	if _, ok := module.TypeByILName("Game.Program"); ok {
		t.Errorf("a non-generic-instance name must not be added by this step")
	}
}

func TestEnsureUserGenericInstanceWithoutInterceptionGetsPlainShell(t *testing.T) {
	module := ir.NewModule()
	mapper := ilname.NewMapper()

	typ, err := Ensure(module, mapper, "Game.Box`1<System.Int32>")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if typ.Kind != ir.KindGenericInstance {
		t.Fatalf("expected KindGenericInstance, got %v", typ.Kind)
	}
	if typ.IsRuntimeProvided {
		t.Errorf("a user generic instance must not be marked runtime-provided")
	}
	if len(typ.GenericArgs) != 1 || typ.GenericArgs[0] != "System.Int32" {
		t.Errorf("unexpected generic args: %+v", typ.GenericArgs)
	}
}
