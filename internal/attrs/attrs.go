// Package attrs implements the translator's Attribute Collector (§4.F):
// copies custom attributes from a resolvable type onto its IR shell, minus a
// closed list of compiler-internal attribute types.
package attrs

import (
	"github.com/axiomates/cil2cpp/internal/ir"
	"github.com/axiomates/cil2cpp/internal/loader"
)

// compilerInternal is the closed list from §4.F: source-language synthesized
// attributes that carry no meaning for a native translation.
var compilerInternal = map[string]bool{
	"System.Runtime.CompilerServices.CompilerGeneratedAttribute":       true,
	"System.Runtime.CompilerServices.NullableContextAttribute":         true,
	"System.Runtime.CompilerServices.NullableAttribute":                true,
	"System.Runtime.CompilerServices.IsReadOnlyAttribute":              true,
	"System.Runtime.CompilerServices.IsByRefLikeAttribute":             true,
	"System.Runtime.CompilerServices.AsyncStateMachineAttribute":       true,
	"System.Runtime.CompilerServices.IteratorStateMachineAttribute":    true,
	"System.Runtime.CompilerServices.ScopedRefAttribute":               true,
	"System.ParamArrayAttribute":                                      true,
	"Microsoft.CodeAnalysis.EmbeddedAttribute":                        true,
}

// primitiveOrString reports whether kind (ir.AttrKind.String() spelling, as
// carried on loader.AttributeArgInfo.Kind) is one this collector retains.
func primitiveOrString(kind string) bool {
	switch kind {
	case "bool", "int8", "int16", "int32", "int64",
		"uint8", "uint16", "uint32", "uint64",
		"float32", "float64", "char16", "string":
		return true
	}
	return false
}

// Collect implements §4.F steps 1-3 for one type. It does nothing for an
// open generic definition, which has no instantiable attribute values to
// copy. Method attributes are looked up by matching each IR method to the
// loader's method of the same name and parameter count.
func Collect(src loader.Source, info loader.TypeInfo, t *ir.Type) {
	if info.HasGenericParameters {
		return
	}

	t.Attributes = append(t.Attributes, convertAll(src.TypeAttributes(info.ILName))...)

	for _, f := range append(append([]*ir.Field{}, t.Fields...), t.StaticFields...) {
		fieldAttrs := convertAll(src.FieldAttributes(loader.FieldRef{Owner: info.ILName, Name: f.Name}))
		f.Attributes = fieldAttrs
	}
	for _, m := range t.Methods {
		for _, mi := range src.MethodsOf(info.ILName) {
			if mi.Name != m.Name || len(mi.Params) != len(m.Params) {
				continue
			}
			m.Attributes = convertAll(src.MethodAttributes(loader.MethodRef{
				Owner: info.ILName, Name: mi.Name, Signature: mi.Signature,
			}))
			break
		}
	}
}

func convertAll(in []loader.AttributeInfo) []*ir.CustomAttribute {
	var out []*ir.CustomAttribute
	for _, a := range in {
		if compilerInternal[string(a.ILTypeName)] {
			continue
		}
		out = append(out, convertOne(a))
	}
	return out
}

func convertOne(a loader.AttributeInfo) *ir.CustomAttribute {
	ca := &ir.CustomAttribute{ILTypeName: string(a.ILTypeName)}
	for _, arg := range a.Args {
		if !primitiveOrString(arg.Kind) {
			continue
		}
		ca.Args = append(ca.Args, ir.AttributeArg{ILTypeName: arg.ILTypeName, Value: toAttrValue(arg)})
	}
	return ca
}

func toAttrValue(arg loader.AttributeArgInfo) ir.AttrValue {
	switch arg.Kind {
	case "bool":
		return ir.NewAttrBool(arg.BoolValue)
	case "int8":
		return ir.NewAttrInt8(int8(arg.IntValue))
	case "int16":
		return ir.NewAttrInt16(int16(arg.IntValue))
	case "int32":
		return ir.NewAttrInt32(int32(arg.IntValue))
	case "int64":
		return ir.NewAttrInt64(arg.IntValue)
	case "uint8":
		return ir.NewAttrUint8(uint8(arg.UintValue))
	case "uint16":
		return ir.NewAttrUint16(uint16(arg.UintValue))
	case "uint32":
		return ir.NewAttrUint32(uint32(arg.UintValue))
	case "uint64":
		return ir.NewAttrUint64(arg.UintValue)
	case "float32":
		return ir.NewAttrFloat32(arg.F32Value)
	case "float64":
		return ir.NewAttrFloat64(arg.F64Value)
	case "char16":
		return ir.NewAttrChar16(rune(arg.IntValue))
	default:
		return ir.NewAttrString(arg.StrValue)
	}
}
