package ir

// Kind classifies a Type per §3: user class, user value type, synthetic
// built-in, generic open definition, closed generic instantiation, or
// interface.
type Kind uint8

const (
	KindClass Kind = iota
	KindValueType
	KindSyntheticBuiltin
	KindGenericOpen
	KindGenericInstance
	KindInterface
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindValueType:
		return "value_type"
	case KindSyntheticBuiltin:
		return "synthetic_builtin"
	case KindGenericOpen:
		return "generic_open"
	case KindGenericInstance:
		return "generic_instance"
	case KindInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// MetadataToken is an optional back-reference to the loader's own handle for
// a type, kept only so diagnostics can point the host back at the original
// assembly; the core never dereferences it.
type MetadataToken struct {
	Assembly string
	Token    uint32
}

// Type is one record in the Module's type list. Essential attributes follow
// §3 exactly: IL full name, projected native name, namespace, the four
// flags, fields, static fields, methods, attributes, and an optional
// metadata back-reference.
type Type struct {
	ILName     string
	NativeName string
	Namespace  string
	Kind       Kind

	IsValueType          bool
	IsSealed             bool
	IsRuntimeProvided    bool
	HasGenericParameters bool

	// BaseType and Interfaces are symbolic (IL full names) rather than
	// pointers, per the Ownership note in §3 — they may refer to types not
	// yet (or never) added to the Module.
	BaseType   string
	Interfaces []string

	Fields       []*Field
	StaticFields []*Field
	Methods      []*Method
	Attributes   []*CustomAttribute

	Metadata *MetadataToken

	// GenericOpen/GenericArgs are populated for KindGenericInstance types;
	// GenericOpen is the IL name of the open definition, GenericArgs the IL
	// names of the bound type arguments, in declaration order.
	GenericOpen string
	GenericArgs []string
}

// AddField appends an instance field, setting its owner back-reference.
func (t *Type) AddField(f *Field) {
	f.Owner = t
	t.Fields = append(t.Fields, f)
}

// AddStaticField appends a static field, setting its owner back-reference.
func (t *Type) AddStaticField(f *Field) {
	f.Owner = t
	t.StaticFields = append(t.StaticFields, f)
}

// AddMethod appends a method, setting its owner back-reference.
func (t *Type) AddMethod(m *Method) {
	m.Owner = t
	t.Methods = append(t.Methods, m)
}

// Field is one instance or static field of a Type, per §3. Attributes is
// populated by the Attribute Collector (§4.F step 2 names fields as one of
// its three copy sources alongside the owning type and its methods).
type Field struct {
	Name       string
	NativeName string
	ILTypeName string
	IsStatic   bool
	IsPublic   bool
	Owner      *Type
	Attributes []*CustomAttribute
}

// Parameter is one formal parameter of a Method.
type Parameter struct {
	Name       string
	ILTypeName string
}

// Method is one instance or static method of a Type, per §3.
type Method struct {
	Name       string
	NativeName string
	Owner      *Type

	Params       []Parameter
	ReturnILType string

	HasThis       bool
	IsConstructor bool
	IsStatic      bool
	IsVirtual     bool

	Blocks     []*BasicBlock
	Attributes []*CustomAttribute

	// GenericOpen/GenericArgs mirror Type's fields for generic instance
	// methods (§4.C generic handling).
	GenericOpen string
	GenericArgs []string
}

// Signature is a stable key disambiguating overloaded methods: name plus the
// IL type names of its parameters. The text and JSON dumps print it, and
// the lifter uses it to name the method in error messages; reachability keys
// methods by loader.MethodRef instead.
func (m *Method) Signature() string {
	sig := m.Name + "("
	for i, p := range m.Params {
		if i > 0 {
			sig += ","
		}
		sig += p.ILTypeName
	}
	sig += ")"
	return sig
}

// NewBlock appends and returns a fresh basic block.
func (m *Method) NewBlock(label string) *BasicBlock {
	b := &BasicBlock{Label: label}
	m.Blocks = append(m.Blocks, b)
	return b
}
