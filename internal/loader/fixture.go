package loader

// Memory is an in-memory Source, built up with the Add* methods below. It
// exists to stand in for the real metadata reader during tests and for the
// CLI demo commands — the real loader is, per §1, an external collaborator
// this repository never implements.
type Memory struct {
	assemblies   []string
	root         string
	entryPoint   *MethodRef
	types        map[TypeRef]*TypeInfo
	typesByAsm   map[string][]TypeRef
	fields       map[TypeRef][]FieldInfo
	methods      map[TypeRef][]MethodInfo
	bodies       map[MethodRef]Body
	typeAttrs    map[TypeRef][]AttributeInfo
	fieldAttrs   map[FieldRef][]AttributeInfo
	methodAttrs  map[MethodRef][]AttributeInfo
}

// NewMemory returns an empty Memory source rooted at rootAssembly.
func NewMemory(rootAssembly string) *Memory {
	return &Memory{
		root:        rootAssembly,
		assemblies:  []string{rootAssembly},
		types:       make(map[TypeRef]*TypeInfo),
		typesByAsm:  make(map[string][]TypeRef),
		fields:      make(map[TypeRef][]FieldInfo),
		methods:     make(map[TypeRef][]MethodInfo),
		bodies:      make(map[MethodRef]Body),
		typeAttrs:   make(map[TypeRef][]AttributeInfo),
		fieldAttrs:  make(map[FieldRef][]AttributeInfo),
		methodAttrs: make(map[MethodRef][]AttributeInfo),
	}
}

func (m *Memory) AddAssembly(name string) {
	for _, a := range m.assemblies {
		if a == name {
			return
		}
	}
	m.assemblies = append(m.assemblies, name)
}

func (m *Memory) AddType(assembly string, info TypeInfo) {
	info.Assembly = assembly
	t := info
	m.types[info.ILName] = &t
	m.typesByAsm[assembly] = append(m.typesByAsm[assembly], info.ILName)
}

func (m *Memory) AddField(owner TypeRef, f FieldInfo) {
	m.fields[owner] = append(m.fields[owner], f)
}

func (m *Memory) AddMethod(owner TypeRef, info MethodInfo) {
	m.methods[owner] = append(m.methods[owner], info)
}

func (m *Memory) SetBody(ref MethodRef, body Body) {
	m.bodies[ref] = body
}

func (m *Memory) SetEntryPoint(ref MethodRef) {
	m.entryPoint = &ref
}

func (m *Memory) AddTypeAttribute(ref TypeRef, attr AttributeInfo) {
	m.typeAttrs[ref] = append(m.typeAttrs[ref], attr)
}

func (m *Memory) AddFieldAttribute(ref FieldRef, attr AttributeInfo) {
	m.fieldAttrs[ref] = append(m.fieldAttrs[ref], attr)
}

func (m *Memory) AddMethodAttribute(ref MethodRef, attr AttributeInfo) {
	m.methodAttrs[ref] = append(m.methodAttrs[ref], attr)
}

// --- Source implementation ---

func (m *Memory) Assemblies() []string { return m.assemblies }
func (m *Memory) RootAssembly() string { return m.root }

func (m *Memory) EntryPoint() (MethodRef, bool) {
	if m.entryPoint == nil {
		return MethodRef{}, false
	}
	return *m.entryPoint, true
}

func (m *Memory) Types(assembly string) []TypeRef {
	return m.typesByAsm[assembly]
}

func (m *Memory) TypeInfo(ref TypeRef) (TypeInfo, bool) {
	t, ok := m.types[ref]
	if !ok {
		return TypeInfo{}, false
	}
	return *t, true
}

func (m *Memory) FieldsOf(ref TypeRef) []FieldInfo  { return m.fields[ref] }
func (m *Memory) MethodsOf(ref TypeRef) []MethodInfo { return m.methods[ref] }

func (m *Memory) MethodBody(ref MethodRef) (Body, bool) {
	b, ok := m.bodies[ref]
	return b, ok
}

func (m *Memory) ResolveType(ilName string) (TypeRef, bool) {
	ref := TypeRef(ilName)
	_, ok := m.types[ref]
	return ref, ok
}

func (m *Memory) ResolveMethod(owner TypeRef, name, signature string) (MethodRef, bool) {
	for _, mi := range m.methods[owner] {
		if mi.Name == name && mi.Signature == signature {
			return MethodRef{Owner: owner, Name: name, Signature: signature}, true
		}
	}
	return MethodRef{}, false
}

func (m *Memory) ResolveField(owner TypeRef, name string) (FieldRef, bool) {
	for _, fi := range m.fields[owner] {
		if fi.Name == name {
			return FieldRef{Owner: owner, Name: name}, true
		}
	}
	return FieldRef{}, false
}

func (m *Memory) TypeAttributes(ref TypeRef) []AttributeInfo     { return m.typeAttrs[ref] }
func (m *Memory) FieldAttributes(ref FieldRef) []AttributeInfo   { return m.fieldAttrs[ref] }
func (m *Memory) MethodAttributes(ref MethodRef) []AttributeInfo { return m.methodAttrs[ref] }
