package ilfmt

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/axiomates/cil2cpp/internal/ir"
)

// builder accumulates a JSON document with sjson, short-circuiting on the
// first error rather than threading one through every call site.
type builder struct {
	doc string
	err error
}

func (b *builder) set(path string, value any) {
	if b.err != nil {
		return
	}
	b.doc, b.err = sjson.Set(b.doc, path, value)
}

// ModuleJSON renders m as a JSON document via tidwall/sjson, for `dump-ir
// --json` and any other tooling that wants the IR tree without a Go
// dependency on the ir package's types.
func ModuleJSON(m *ir.Module) (string, error) {
	b := &builder{doc: "{}"}
	for ti, t := range m.Types {
		prefix := fmt.Sprintf("types.%d.", ti)
		writeType(b, prefix, t)
	}
	for pi, p := range m.Primitives {
		prefix := fmt.Sprintf("primitives.%d.", pi)
		b.set(prefix+"il_name", p.ILName)
		b.set(prefix+"native_name", p.NativeName)
		b.set(prefix+"size_bytes", p.SizeBytes)
	}
	if b.err != nil {
		return "", b.err
	}
	return b.doc, nil
}

func writeType(b *builder, prefix string, t *ir.Type) {
	b.set(prefix+"il_name", t.ILName)
	b.set(prefix+"native_name", t.NativeName)
	b.set(prefix+"kind", t.Kind.String())
	b.set(prefix+"is_value_type", t.IsValueType)
	b.set(prefix+"is_runtime_provided", t.IsRuntimeProvided)
	if t.BaseType != "" {
		b.set(prefix+"base_type", t.BaseType)
	}
	for i, iface := range t.Interfaces {
		b.set(fmt.Sprintf("%sinterfaces.%d", prefix, i), iface)
	}
	for i, f := range t.Fields {
		writeField(b, fmt.Sprintf("%sfields.%d.", prefix, i), f)
	}
	for i, f := range t.StaticFields {
		writeField(b, fmt.Sprintf("%sstatic_fields.%d.", prefix, i), f)
	}
	for i, m := range t.Methods {
		writeMethod(b, fmt.Sprintf("%smethods.%d.", prefix, i), m)
	}
}

func writeField(b *builder, prefix string, f *ir.Field) {
	b.set(prefix+"name", f.Name)
	b.set(prefix+"native_name", f.NativeName)
	b.set(prefix+"il_type", f.ILTypeName)
	b.set(prefix+"is_static", f.IsStatic)
}

func writeMethod(b *builder, prefix string, m *ir.Method) {
	b.set(prefix+"name", m.Name)
	b.set(prefix+"native_name", m.NativeName)
	b.set(prefix+"signature", m.Signature())
	b.set(prefix+"has_this", m.HasThis)
	b.set(prefix+"is_static", m.IsStatic)
	for bi, blk := range m.Blocks {
		bp := fmt.Sprintf("%sblocks.%d.", prefix, bi)
		b.set(bp+"label", blk.Label)
		for ii, inst := range blk.Instructions {
			b.set(fmt.Sprintf("%sinstructions.%d", bp, ii), inst.String())
		}
	}
}
