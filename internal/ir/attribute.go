package ir

// AttrKind tags the boxed primitive or string payload carried by a
// CustomAttribute constructor argument (§3, §9 "Dynamic boxed attribute
// values"). The set is closed and intentionally avoids interface{} so that
// downstream consumers (the emitter, go-snaps dumps) get a type-safe
// exhaustive switch instead of a type assertion.
type AttrKind uint8

const (
	AttrBool AttrKind = iota
	AttrInt8
	AttrInt16
	AttrInt32
	AttrInt64
	AttrUint8
	AttrUint16
	AttrUint32
	AttrUint64
	AttrFloat32
	AttrFloat64
	AttrChar16
	AttrString
)

func (k AttrKind) String() string {
	switch k {
	case AttrBool:
		return "bool"
	case AttrInt8:
		return "int8"
	case AttrInt16:
		return "int16"
	case AttrInt32:
		return "int32"
	case AttrInt64:
		return "int64"
	case AttrUint8:
		return "uint8"
	case AttrUint16:
		return "uint16"
	case AttrUint32:
		return "uint32"
	case AttrUint64:
		return "uint64"
	case AttrFloat32:
		return "float32"
	case AttrFloat64:
		return "float64"
	case AttrChar16:
		return "char16"
	case AttrString:
		return "string"
	default:
		return "unknown"
	}
}

// AttrValue is a boxed primitive-or-string value. Exactly one payload field
// is meaningful, selected by Kind; the getters below return the zero value
// for any other kind rather than panicking, matching the defensive-getter
// style of a tagged value type.
type AttrValue struct {
	kind AttrKind

	b   bool
	i   int64
	u   uint64
	f32 float32
	f64 float64
	c16 rune
	s   string
}

func (v AttrValue) Kind() AttrKind { return v.kind }

func NewAttrBool(b bool) AttrValue      { return AttrValue{kind: AttrBool, b: b} }
func NewAttrInt8(n int8) AttrValue      { return AttrValue{kind: AttrInt8, i: int64(n)} }
func NewAttrInt16(n int16) AttrValue    { return AttrValue{kind: AttrInt16, i: int64(n)} }
func NewAttrInt32(n int32) AttrValue    { return AttrValue{kind: AttrInt32, i: int64(n)} }
func NewAttrInt64(n int64) AttrValue    { return AttrValue{kind: AttrInt64, i: n} }
func NewAttrUint8(n uint8) AttrValue    { return AttrValue{kind: AttrUint8, u: uint64(n)} }
func NewAttrUint16(n uint16) AttrValue  { return AttrValue{kind: AttrUint16, u: uint64(n)} }
func NewAttrUint32(n uint32) AttrValue  { return AttrValue{kind: AttrUint32, u: uint64(n)} }
func NewAttrUint64(n uint64) AttrValue  { return AttrValue{kind: AttrUint64, u: n} }
func NewAttrFloat32(f float32) AttrValue { return AttrValue{kind: AttrFloat32, f32: f} }
func NewAttrFloat64(f float64) AttrValue { return AttrValue{kind: AttrFloat64, f64: f} }
func NewAttrChar16(c rune) AttrValue    { return AttrValue{kind: AttrChar16, c16: c} }
func NewAttrString(s string) AttrValue  { return AttrValue{kind: AttrString, s: s} }

func (v AttrValue) BoolValue() bool {
	if v.kind != AttrBool {
		return false
	}
	return v.b
}

func (v AttrValue) IntValue() int64 {
	switch v.kind {
	case AttrInt8, AttrInt16, AttrInt32, AttrInt64:
		return v.i
	default:
		return 0
	}
}

func (v AttrValue) UintValue() uint64 {
	switch v.kind {
	case AttrUint8, AttrUint16, AttrUint32, AttrUint64:
		return v.u
	default:
		return 0
	}
}

func (v AttrValue) Float32Value() float32 {
	if v.kind != AttrFloat32 {
		return 0
	}
	return v.f32
}

func (v AttrValue) Float64Value() float64 {
	if v.kind != AttrFloat64 {
		return 0
	}
	return v.f64
}

func (v AttrValue) Char16Value() rune {
	if v.kind != AttrChar16 {
		return 0
	}
	return v.c16
}

func (v AttrValue) StringValue() string {
	if v.kind != AttrString {
		return ""
	}
	return v.s
}

// AttributeArg is one constructor argument of a CustomAttribute.
type AttributeArg struct {
	ILTypeName string
	Value      AttrValue
}

// CustomAttribute is one attribute instance attached to a Type, Field or
// Method by the Attribute Collector (§4.F). Only constructor arguments whose
// type is a primitive or string survive collection (§4.F step 3).
type CustomAttribute struct {
	ILTypeName string
	NativeName string
	Args       []AttributeArg
}
