package ir

import "testing"

func TestModuleAddTypeRejectsCollision(t *testing.T) {
	m := NewModule()
	a := &Type{ILName: "Foo.Bar", NativeName: "Foo_Bar"}
	b := &Type{ILName: "Foo_Bar", NativeName: "Foo_Bar"}

	if err := m.AddType(a); err != nil {
		t.Fatalf("AddType(a): unexpected error: %v", err)
	}
	err := m.AddType(b)
	if err == nil {
		t.Fatalf("AddType(b): expected a NameCollisionError, got nil")
	}
	if _, ok := err.(*NameCollisionError); !ok {
		t.Fatalf("AddType(b): expected *NameCollisionError, got %T", err)
	}
}

func TestModuleAddTypeIdempotentForSameILName(t *testing.T) {
	m := NewModule()
	a := &Type{ILName: "Foo.Bar", NativeName: "Foo_Bar"}
	if err := m.AddType(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.AddType(a); err != nil {
		t.Fatalf("re-adding the same type must not collide: %v", err)
	}
	if len(m.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(m.Types))
	}
}

func TestMethodSignatureDisambiguatesOverloads(t *testing.T) {
	a := &Method{Name: "Write", Params: []Parameter{{ILTypeName: "System.Int32"}}}
	b := &Method{Name: "Write", Params: []Parameter{{ILTypeName: "System.String"}}}
	if a.Signature() == b.Signature() {
		t.Fatalf("expected distinct signatures, got %q for both", a.Signature())
	}
}
