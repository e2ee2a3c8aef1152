// Package loader defines the translator's one real input boundary: the
// bytecode loader and metadata reader described in §6 as an external
// collaborator. The package holds only the interface the rest of the
// translator programs against (Source) plus the plain data shapes that
// cross that boundary — never a concrete metadata reader, since the real
// one ships outside this repository.
package loader

// TypeRef is a type's IL full name. Cross-references throughout the
// translator are symbolic (IL names), never pointers, per §3's Ownership
// note — this is what makes the IR safely traversable in any order.
type TypeRef string

// MethodRef identifies one method by its owner and signature. Signature
// disambiguates overloads; it is the IL parameter type list in the form
// "(T1,T2,...)", which the lifter and the interception tables parse to count
// parameters when no MethodInfo is available.
type MethodRef struct {
	Owner     TypeRef
	Name      string
	Signature string
}

// FieldRef identifies one field by its owner and name.
type FieldRef struct {
	Owner TypeRef
	Name  string
}

// ParamInfo is one formal parameter as reported by the loader.
type ParamInfo struct {
	Name       string
	ILTypeName TypeRef
}

// TypeInfo is everything the analyzer and IR builder need to know about a
// type without walking its members (§6 "enumeration of types per module").
type TypeInfo struct {
	ILName               TypeRef
	Namespace            string
	IsValueType          bool
	IsSealed             bool
	IsInterface          bool
	IsPublic             bool
	HasGenericParameters bool
	IsGenericInstance    bool
	GenericOpen          TypeRef
	GenericArgs          []TypeRef
	BaseType             TypeRef // "" if none (System.Object or an interface)
	Interfaces           []TypeRef
	NestedTypes          []TypeRef
	StaticConstructor    *MethodRef
	Assembly             string
}

// FieldInfo is everything the analyzer and IR builder need about a field.
type FieldInfo struct {
	Name       string
	ILTypeName TypeRef
	IsStatic   bool
	IsPublic   bool
}

// MethodInfo is everything the analyzer and IR builder need about a method
// without its body.
type MethodInfo struct {
	Name              string
	Signature         string
	Params            []ParamInfo
	ReturnType        TypeRef
	HasThis           bool
	IsConstructor     bool
	IsStatic          bool
	IsVirtual         bool
	IsPublic          bool
	IsFamily          bool
	IsGenericInstance bool
	GenericOpen       *MethodRef
	GenericArgs       []TypeRef
}

// Op is one bytecode operation in a method body. Exactly the operand
// field(s) relevant to Code are populated; see opcode.go for which opcode
// uses which operand kind.
type Op struct {
	Code OpCode

	MethodOperand *MethodRef
	TypeOperand   *TypeRef
	FieldOperand  *FieldRef
	TokenKind     TokenKind // meaningful only when Code == OpLdToken

	IntOperand    int64
	FloatOperand  float64
	StringOperand string

	LocalIndex int
	ArgIndex   int

	// Branch targets are instruction indices within the same Body.
	BranchTarget      int
	BranchTargetFalse int
}

// Body is one method's lifted-from-metadata instruction stream, exactly as
// the loader produced it (§6 "method bodies as ordered opcode lists").
type Body struct {
	Instructions []Op
	LocalTypes   []TypeRef
}

// Source is the translator's only input boundary: a set of assemblies
// already parsed by an external metadata reader. Every lookup may fail —
// §4.C treats an unresolvable reference (a type/method/field in an
// assembly outside the loaded set, or an ill-formed token) as the one
// tolerated failure mode, silently skipping it rather than erroring.
type Source interface {
	Assemblies() []string
	RootAssembly() string
	EntryPoint() (MethodRef, bool)

	Types(assembly string) []TypeRef
	TypeInfo(ref TypeRef) (TypeInfo, bool)
	FieldsOf(ref TypeRef) []FieldInfo
	MethodsOf(ref TypeRef) []MethodInfo
	MethodBody(ref MethodRef) (Body, bool)

	ResolveType(ilName string) (TypeRef, bool)
	ResolveMethod(owner TypeRef, name, signature string) (MethodRef, bool)
	ResolveField(owner TypeRef, name string) (FieldRef, bool)

	TypeAttributes(ref TypeRef) []AttributeInfo
	FieldAttributes(ref FieldRef) []AttributeInfo
	MethodAttributes(ref MethodRef) []AttributeInfo
}

// AttributeInfo is one custom attribute instance as reported by the loader,
// before the Attribute Collector's compiler-internal filter runs (§4.F).
type AttributeInfo struct {
	ILTypeName TypeRef
	Args       []AttributeArgInfo
}

// AttributeArgInfo is one constructor argument of an attribute. Kind
// mirrors ir.AttrKind's closed set; Value is stored pre-converted so the
// loader package never has to import ir (which would invert the intended
// dependency direction — ir is downstream of loader, not the reverse).
type AttributeArgInfo struct {
	ILTypeName string
	Kind       string // "bool","int8",...,"string" — see ir.AttrKind.String()
	IntValue   int64
	UintValue  uint64
	F32Value   float32
	F64Value   float64
	BoolValue  bool
	StrValue   string
}
