package ilname

// primitiveNative maps every IL primitive name (§4.A is_primitive) to its
// native spelling. string and object are reference types and gain a
// trailing pointer marker in ProjectType (rule 6) unless suppressed.
var primitiveNative = map[string]string{
	"System.Void":    "void",
	"System.Boolean": "bool",
	"System.SByte":   "int8_t",
	"System.Byte":    "uint8_t",
	"System.Int16":   "int16_t",
	"System.UInt16":  "uint16_t",
	"System.Int32":   "int32_t",
	"System.UInt32":  "uint32_t",
	"System.Int64":   "int64_t",
	"System.UInt64":  "uint64_t",
	"System.Single":  "float",
	"System.Double":  "double",
	"System.Char":    "char16_t",
	"System.String":  "cil2cpp::String",
	"System.Object":  "cil2cpp::Object",
	"System.IntPtr":  "intptr_t",
	"System.UIntPtr": "uintptr_t",
}

// referencePrimitives are the primitives that are themselves reference types
// (they need the pointer marker the value-type primitives don't).
var referencePrimitives = map[string]bool{
	"System.String": true,
	"System.Object": true,
}

// IsPrimitive reports whether il is one of the fixed primitive IL names
// (§4.A is_primitive).
func IsPrimitive(il string) bool {
	_, ok := primitiveNative[il]
	return ok
}

// defaultLiteralForPrimitive returns the typed-zero literal for a primitive
// IL name. Reference primitives default to the null literal.
func defaultLiteralForPrimitive(il string) (string, bool) {
	if referencePrimitives[il] {
		return "nullptr", true
	}
	switch il {
	case "System.Void":
		return "", true
	case "System.Boolean":
		return "false", true
	case "System.Single":
		return "0.0f", true
	case "System.Double":
		return "0.0", true
	case "System.Char":
		return "u'\\0'", true
	case "System.IntPtr", "System.UIntPtr":
		return "0", true
	default:
		if _, ok := primitiveNative[il]; ok {
			return "0", true
		}
		return "", false
	}
}

// runtimeExceptionTable is the bit-exact table from §6, closed and given
// verbatim for compatibility with the runtime header.
var runtimeExceptionTable = map[string]string{
	"System.Exception":               "cil2cpp::Exception",
	"System.NullReferenceException":  "cil2cpp::NullReferenceException",
	"System.IndexOutOfRangeException": "cil2cpp::IndexOutOfRangeException",
	"System.InvalidCastException":    "cil2cpp::InvalidCastException",
	"System.InvalidOperationException": "cil2cpp::InvalidOperationException",
	"System.ArgumentException":       "cil2cpp::ArgumentException",
	"System.ArgumentNullException":   "cil2cpp::ArgumentNullException",
	"System.OverflowException":       "cil2cpp::OverflowException",
	"System.ArithmeticException":     "cil2cpp::OverflowException",
	"System.NotSupportedException":   "cil2cpp::InvalidOperationException",
	"System.NotImplementedException": "cil2cpp::InvalidOperationException",
}

// SingleDimArrayPointerType and MultiDimArrayPointerType are the runtime's
// generic array pointer projections used by rules 3 and 4 of §4.A.
const (
	SingleDimArrayPointerType = "cil2cpp::Array*"
	MultiDimArrayPointerType  = "cil2cpp::MdArray*"
)
