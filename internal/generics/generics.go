// Package generics implements the translator's Generic Specialization step
// (§4.G): for every reachable closed generic instantiation, ensure a
// corresponding Type exists in the module, synthesizing one directly from
// the interception tables when the instantiation is a built-in the loader
// cannot itself describe.
package generics

import (
	"github.com/axiomates/cil2cpp/internal/ilname"
	"github.com/axiomates/cil2cpp/internal/intercept"
	"github.com/axiomates/cil2cpp/internal/ir"
	"github.com/axiomates/cil2cpp/internal/loader"
)

// Ensure guarantees module has a Type for il, a closed generic
// instantiation's IL name. If one already exists (added from loader
// metadata by the translator's normal type-shell pass) this is a no-op; if
// the instantiation is one of the seven built-ins intercept.Table
// recognizes, a synthetic Type is built here instead, since the loader has
// no definition for it to report.
func Ensure(module *ir.Module, mapper *ilname.Mapper, il string) (*ir.Type, error) {
	if t, ok := module.TypeByILName(il); ok {
		return t, nil
	}

	open, args, ok := ilname.SplitGenericInstance(il)
	if !ok {
		return nil, nil // not a generic instance; nothing for this step to do
	}

	t := &ir.Type{
		ILName:      il,
		NativeName:  mapper.ProjectType(il, true),
		Kind:        ir.KindGenericInstance,
		GenericOpen: open,
		GenericArgs: args,
	}

	if fields, isBuiltin := intercept.SyntheticFields(il); isBuiltin {
		t.IsRuntimeProvided = true
		t.Kind = ir.KindSyntheticBuiltin
		for _, sf := range fields {
			field := &ir.Field{Name: sf.Name, NativeName: mapper.ProjectField(sf.Name), ILTypeName: sf.ILType, IsStatic: sf.IsStatic}
			if sf.IsStatic {
				t.AddStaticField(field)
			} else {
				t.AddField(field)
			}
		}
	}

	if err := module.AddType(t); err != nil {
		return nil, err
	}
	return t, nil
}

// EnsureAll walks the reachable generic instantiations recorded in ilNames
// (typically the reachability analyzer's type order, filtered to those that
// parse as generic instances) and ensures each has a module Type, per
// §4.G's "for every reachable closed generic instantiation".
func EnsureAll(module *ir.Module, mapper *ilname.Mapper, ilNames []loader.TypeRef) error {
	for _, ref := range ilNames {
		if _, _, ok := ilname.SplitGenericInstance(string(ref)); !ok {
			continue
		}
		if _, err := Ensure(module, mapper, string(ref)); err != nil {
			return err
		}
	}
	return nil
}
