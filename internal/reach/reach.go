// Package reach implements the translator's Reachability Analyzer (§4.C): a
// worklist closure over types, methods and fields starting from an entry
// point or, in library mode, the public surface.
package reach

import "github.com/axiomates/cil2cpp/internal/loader"

// MethodKey is a deduplication key for the processed-method set (§4.C state:
// "a set of already-processed method keys (owner full name plus method
// signature)").
type MethodKey string

func keyOf(ref loader.MethodRef) MethodKey {
	return MethodKey(string(ref.Owner) + "::" + ref.Name + ref.Signature)
}

// Result is the live set the analyzer computes: every reachable type and
// method. Order preserves first-reachable (BFS seed) order so that
// downstream IR construction and its snapshot tests are deterministic.
type Result struct {
	Types   map[loader.TypeRef]bool
	Methods map[MethodKey]bool

	TypeOrder   []loader.TypeRef
	MethodOrder []loader.MethodRef

	// Why records, for each reachable method, a one-line reason for what
	// first pulled it in: "entry point", "public surface: T.M",
	// "called from T.M", "method of reached type T", and the like. This is
	// purely observational (§SUPPLEMENT of SPEC_FULL.md): it is consulted
	// only by CLI/debug output, never by marking decisions.
	Why map[MethodKey]string
}

func newResult() *Result {
	return &Result{
		Types:   make(map[loader.TypeRef]bool),
		Methods: make(map[MethodKey]bool),
		Why:     make(map[MethodKey]string),
	}
}

// Mode selects the seeding policy (§4.C Seeding policy).
type Mode uint8

const (
	// ModeAuto seeds the root assembly's entry point if it declares one,
	// and falls back to ModeLibrary otherwise.
	ModeAuto Mode = iota
	ModeExecutable
	ModeLibrary
)

// Analyzer runs the worklist closure described in §4.C.
type Analyzer struct {
	src   loader.Source
	mode  Mode
	res   *Result
	queue []queueItem
}

type queueItem struct {
	ref loader.MethodRef
	why string
}

// New returns an Analyzer over src with the given seeding mode.
func New(src loader.Source, mode Mode) *Analyzer {
	return &Analyzer{src: src, mode: mode, res: newResult()}
}

// Run executes the worklist to closure and returns the reachable set.
func (a *Analyzer) Run() (*Result, error) {
	a.seed()
	for len(a.queue) > 0 {
		item := a.queue[0]
		a.queue = a.queue[1:]
		if err := a.processMethod(item.ref); err != nil {
			return nil, err
		}
	}
	return a.res, nil
}

func (a *Analyzer) seed() {
	mode := a.mode
	var epSeeded bool
	if mode == ModeAuto || mode == ModeExecutable {
		if ep, ok := a.src.EntryPoint(); ok {
			a.enqueue(ep, "entry point")
			a.markType(ep.Owner)
			epSeeded = true
		}
	}
	if epSeeded {
		return
	}
	if mode == ModeExecutable {
		return // no entry point found; nothing to seed
	}

	// Library mode: every public type in the root assembly's main module,
	// every public or family-level method of those types.
	for _, tref := range a.src.Types(a.src.RootAssembly()) {
		info, ok := a.src.TypeInfo(tref)
		if !ok || !info.IsPublic {
			continue
		}
		for _, mi := range a.src.MethodsOf(tref) {
			if !mi.IsPublic && !mi.IsFamily {
				continue
			}
			ref := loader.MethodRef{Owner: tref, Name: mi.Name, Signature: mi.Signature}
			a.enqueue(ref, "public surface: "+string(tref)+"."+mi.Name)
		}
		a.markType(tref)
	}
}

func (a *Analyzer) enqueue(ref loader.MethodRef, why string) {
	key := keyOf(ref)
	if a.res.Methods[key] {
		return
	}
	a.res.Methods[key] = true
	a.res.MethodOrder = append(a.res.MethodOrder, ref)
	a.res.Why[key] = why
	a.queue = append(a.queue, queueItem{ref: ref, why: why})
}

// markType implements §4.C mark_type. It is conservative by design: every
// method of a reached type is seeded (step 5) rather than attempting a
// type-hierarchy analysis of virtual dispatch targets, because the
// downstream cost of extra reachable methods is lower than the cost of a
// missing one (the spec's own rationale, carried verbatim).
func (a *Analyzer) markType(ref loader.TypeRef) {
	if a.res.Types[ref] {
		return
	}
	a.res.Types[ref] = true
	a.res.TypeOrder = append(a.res.TypeOrder, ref)

	info, ok := a.src.TypeInfo(ref)
	if !ok {
		return // unresolvable: silently skipped (§4.C, §7)
	}

	if info.BaseType != "" {
		a.markType(info.BaseType)
	}
	for _, iface := range info.Interfaces {
		a.markType(iface)
	}
	if info.StaticConstructor != nil {
		a.enqueue(*info.StaticConstructor, "static constructor of "+string(ref))
	}
	for _, mi := range a.src.MethodsOf(ref) {
		mref := loader.MethodRef{Owner: ref, Name: mi.Name, Signature: mi.Signature}
		a.enqueue(mref, "method of reached type "+string(ref))
	}
	for _, f := range a.src.FieldsOf(ref) {
		a.markType(f.ILTypeName)
	}
	for _, nested := range info.NestedTypes {
		a.markType(nested) // regardless of visibility: may be closures or state machines
	}

	if info.IsGenericInstance {
		a.markGenericType(info)
	}
}

// markGenericType implements §4.C generic handling for types: mark each
// type argument individually, then mark the open element.
func (a *Analyzer) markGenericType(info loader.TypeInfo) {
	for _, arg := range info.GenericArgs {
		a.markType(arg)
	}
	if info.GenericOpen != "" {
		a.markType(info.GenericOpen)
	}
}

func (a *Analyzer) processMethod(ref loader.MethodRef) error {
	body, ok := a.src.MethodBody(ref)
	if !ok {
		return nil // unresolvable reference: silently skipped
	}

	mi, hasInfo := a.lookupMethodInfo(ref)
	if hasInfo && mi.IsGenericInstance {
		a.markGenericMethod(mi)
	}

	for _, op := range body.Instructions {
		if err := a.processOp(op, ref); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) lookupMethodInfo(ref loader.MethodRef) (loader.MethodInfo, bool) {
	for _, mi := range a.src.MethodsOf(ref.Owner) {
		if mi.Name == ref.Name && mi.Signature == ref.Signature {
			return mi, true
		}
	}
	return loader.MethodInfo{}, false
}

// markGenericMethod implements §4.C generic handling for methods: mark each
// type argument and recurse on the open method.
func (a *Analyzer) markGenericMethod(mi loader.MethodInfo) {
	for _, arg := range mi.GenericArgs {
		a.markType(arg)
	}
	if mi.GenericOpen != nil {
		a.enqueue(*mi.GenericOpen, "open definition of generic method")
	}
}

func (a *Analyzer) processOp(op loader.Op, from loader.MethodRef) error {
	switch {
	case loader.MethodOperandOps[op.Code]:
		if op.MethodOperand == nil {
			return nil
		}
		a.markMethodReference(*op.MethodOperand, from)

	case loader.TypeOperandOps[op.Code]:
		if op.TypeOperand == nil {
			return nil
		}
		if _, ok := a.src.TypeInfo(*op.TypeOperand); ok {
			a.markType(*op.TypeOperand)
		}

	case loader.FieldOperandOps[op.Code]:
		if op.FieldOperand == nil {
			return nil
		}
		a.markFieldReference(*op.FieldOperand, from)

	case op.Code == loader.OpLdToken:
		switch op.TokenKind {
		case loader.TokenMethod:
			if op.MethodOperand != nil {
				a.markMethodReference(*op.MethodOperand, from)
			}
		case loader.TokenField:
			if op.FieldOperand != nil {
				a.markFieldReference(*op.FieldOperand, from)
			}
		default:
			if op.TypeOperand != nil {
				if _, ok := a.src.TypeInfo(*op.TypeOperand); ok {
					a.markType(*op.TypeOperand)
				}
			}
		}
	}
	return nil
}

// markMethodReference implements §4.C method processing step 3: mark the
// declaring type then seed the resolved target. An unresolvable target
// (resolved via ResolveMethod returning false, e.g. because its assembly
// isn't loaded) is silently ignored — this is the tolerated failure that
// feeds the interception model of §4.E: a built-in whose body cannot be
// resolved must instead be intercepted by name.
func (a *Analyzer) markMethodReference(ref loader.MethodRef, from loader.MethodRef) {
	if _, ok := a.src.ResolveMethod(ref.Owner, ref.Name, ref.Signature); !ok {
		return
	}
	a.markType(ref.Owner)
	a.enqueue(ref, "called from "+string(from.Owner)+"."+from.Name)
}

// markFieldReference implements §4.C method processing step 4: mark the
// declaring type and the field's declared type.
func (a *Analyzer) markFieldReference(ref loader.FieldRef, from loader.MethodRef) {
	if _, ok := a.src.ResolveField(ref.Owner, ref.Name); !ok {
		return
	}
	a.markType(ref.Owner)
	for _, f := range a.src.FieldsOf(ref.Owner) {
		if f.Name == ref.Name {
			a.markType(f.ILTypeName)
			break
		}
	}
}
