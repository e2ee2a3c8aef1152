// Package translator orchestrates the translator's components A-G (§2 data
// flow): reachability first computes the live set, type and method shells
// are populated from it using the Name Mapper for identifier projection,
// each live method body is lifted (consulting the interception tables),
// generic specialization fills in any closed instantiation the loader
// itself cannot describe, and the attribute collector runs last over the
// now-complete shells.
package translator

import (
	"github.com/axiomates/cil2cpp/internal/attrs"
	"github.com/axiomates/cil2cpp/internal/generics"
	"github.com/axiomates/cil2cpp/internal/ilname"
	"github.com/axiomates/cil2cpp/internal/intercept"
	"github.com/axiomates/cil2cpp/internal/ir"
	"github.com/axiomates/cil2cpp/internal/lift"
	"github.com/axiomates/cil2cpp/internal/loader"
	"github.com/axiomates/cil2cpp/internal/reach"
)

// Options configures one translation run.
type Options struct {
	Mode reach.Mode

	// RegisterValueTypes lists extra IL names the Name Mapper should treat
	// as value types beyond the fixed primitive set (§5), typically loaded
	// from internal/config.
	RegisterValueTypes []string
}

// Result is everything a translation run produces: the populated module
// tree handed off to the (external) emitter, and the reachability set that
// shaped it, kept around for CLI/debug consumption (`list-reachable`).
type Result struct {
	Module *ir.Module
	Reach  *reach.Result
}

// Translate runs the full A-G pipeline over src and returns the populated
// Module, per §2's "Data flow" paragraph and §3's Lifecycle ("built once
// per translation invocation, populated in phases").
func Translate(src loader.Source, opts Options) (*Result, error) {
	mapper := ilname.NewMapper()
	for _, vt := range opts.RegisterValueTypes {
		mapper.RegisterValueType(vt)
	}

	reachable, err := reach.New(src, opts.Mode).Run()
	if err != nil {
		return nil, err
	}

	module := ir.NewModule()
	intercepts := intercept.New(mapper)
	lifter := lift.New(src, mapper, intercepts)

	infoByIL := make(map[loader.TypeRef]loader.TypeInfo, len(reachable.TypeOrder))

	// Phase 1: type shells, in first-reachable order (§3 "insertion-ordered
	// list of Type records").
	for _, ref := range reachable.TypeOrder {
		info, ok := src.TypeInfo(ref)
		if !ok {
			continue // no loader definition; left for generic specialization below
		}
		infoByIL[ref] = info
		t := buildTypeShell(mapper, info)
		for _, f := range src.FieldsOf(ref) {
			field := buildFieldShell(mapper, f)
			if f.IsStatic {
				t.AddStaticField(field)
			} else {
				t.AddField(field)
			}
		}
		if err := module.AddType(t); err != nil {
			return nil, err
		}
	}

	// Phase 2 (§4.G): ensure every reachable closed generic instantiation
	// has a module Type, synthesizing built-ins the loader has no
	// definition for.
	if err := generics.EnsureAll(module, mapper, reachable.TypeOrder); err != nil {
		return nil, err
	}

	// Phase 3: method shells, attached to whichever owner type phase 1
	// built. A method whose owner has no shell (a built-in synthesized in
	// phase 2, which carries no loader-described methods) is skipped —
	// such owners are only ever reached through interception.
	methodsByRef := make(map[loader.MethodRef]*ir.Method, len(reachable.MethodOrder))
	for _, ref := range reachable.MethodOrder {
		owner, ok := module.TypeByILName(string(ref.Owner))
		if !ok {
			continue
		}
		mi, ok := lookupMethodInfo(src, ref)
		if !ok {
			continue
		}
		m := buildMethodShell(mapper, owner.NativeName, mi)
		owner.AddMethod(m)
		methodsByRef[ref] = m
	}

	// Phase 4: lift each method body now that every shell it might
	// reference exists. Bodies are lifted in reachability order so the
	// intercepted-owner list that phase 4b consumes is deterministic.
	for _, ref := range reachable.MethodOrder {
		m, ok := methodsByRef[ref]
		if !ok {
			continue
		}
		body, ok := src.MethodBody(ref)
		if !ok {
			continue
		}
		mi, _ := lookupMethodInfo(src, ref)
		owner, _ := module.TypeByILName(string(ref.Owner))
		if err := lifter.LiftMethod(owner, m, mi, body); err != nil {
			return nil, err
		}
	}

	// Phase 4b (§4.G, continued): lifting can route a call or newobj
	// against a built-in generic instantiation (Span<T>, EqualityComparer<T>,
	// ...) that reachability never added to reachable.TypeOrder, since reach
	// adds a call's owner or a type operand only once the loader resolves
	// it — exactly what these built-ins fail to do by design. Ensure those
	// instantiations get their
	// synthetic shells too, now that lifting has surfaced which ones were
	// actually used.
	interceptedRefs := make([]loader.TypeRef, len(lifter.InterceptedOwners()))
	for i, owner := range lifter.InterceptedOwners() {
		interceptedRefs[i] = loader.TypeRef(owner)
	}
	if err := generics.EnsureAll(module, mapper, interceptedRefs); err != nil {
		return nil, err
	}

	// Phase 5 (§4.F): attribute collection, last, over every type the
	// loader actually described.
	for _, t := range module.Types {
		info, ok := infoByIL[loader.TypeRef(t.ILName)]
		if !ok {
			continue // synthetic built-in: no loader metadata to collect from
		}
		attrs.Collect(src, info, t)
	}

	return &Result{Module: module, Reach: reachable}, nil
}

func buildTypeShell(mapper *ilname.Mapper, info loader.TypeInfo) *ir.Type {
	t := &ir.Type{
		ILName:               string(info.ILName),
		NativeName:           mapper.ProjectType(string(info.ILName), true),
		Namespace:            info.Namespace,
		Kind:                 typeKind(mapper, info),
		IsValueType:          info.IsValueType || mapper.IsValueType(string(info.ILName)),
		IsSealed:             info.IsSealed,
		HasGenericParameters: info.HasGenericParameters,
		BaseType:             string(info.BaseType),
	}
	for _, iface := range info.Interfaces {
		t.Interfaces = append(t.Interfaces, string(iface))
	}
	if info.IsGenericInstance {
		t.GenericOpen = string(info.GenericOpen)
		for _, arg := range info.GenericArgs {
			t.GenericArgs = append(t.GenericArgs, string(arg))
		}
	}
	return t
}

func typeKind(mapper *ilname.Mapper, info loader.TypeInfo) ir.Kind {
	switch {
	case info.IsInterface:
		return ir.KindInterface
	case info.HasGenericParameters:
		return ir.KindGenericOpen
	case info.IsGenericInstance:
		return ir.KindGenericInstance
	case info.IsValueType || mapper.IsValueType(string(info.ILName)):
		return ir.KindValueType
	default:
		return ir.KindClass
	}
}

func buildFieldShell(mapper *ilname.Mapper, f loader.FieldInfo) *ir.Field {
	return &ir.Field{
		Name:       f.Name,
		NativeName: mapper.ProjectField(f.Name),
		ILTypeName: string(f.ILTypeName),
		IsStatic:   f.IsStatic,
		IsPublic:   f.IsPublic,
	}
}

func buildMethodShell(mapper *ilname.Mapper, ownerNative string, mi loader.MethodInfo) *ir.Method {
	m := &ir.Method{
		Name:          mi.Name,
		NativeName:    mapper.ProjectMethod(ownerNative, mi.Name),
		ReturnILType:  string(mi.ReturnType),
		HasThis:       mi.HasThis,
		IsConstructor: mi.IsConstructor,
		IsStatic:      mi.IsStatic,
		IsVirtual:     mi.IsVirtual,
	}
	for _, p := range mi.Params {
		m.Params = append(m.Params, ir.Parameter{Name: p.Name, ILTypeName: string(p.ILTypeName)})
	}
	if mi.IsGenericInstance {
		if mi.GenericOpen != nil {
			m.GenericOpen = string(mi.GenericOpen.Owner) + "::" + mi.GenericOpen.Name
		}
		for _, arg := range mi.GenericArgs {
			m.GenericArgs = append(m.GenericArgs, string(arg))
		}
	}
	return m
}

func lookupMethodInfo(src loader.Source, ref loader.MethodRef) (loader.MethodInfo, bool) {
	for _, mi := range src.MethodsOf(ref.Owner) {
		if mi.Name == ref.Name && mi.Signature == ref.Signature {
			return mi, true
		}
	}
	return loader.MethodInfo{}, false
}
