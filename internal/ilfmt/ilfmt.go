// Package ilfmt renders a *ir.Module as human-readable text, mirroring the
// teacher's bytecode disassembler: a header per type, one line per field,
// and an offset-prefixed instruction listing per method body. It also
// offers a JSON rendering of the same tree for tooling that wants to
// consume it programmatically.
package ilfmt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/axiomates/cil2cpp/internal/ir"
)

// Dumper writes a Module's disassembly to an io.Writer, the way the
// teacher's bytecode.Disassembler writes a Chunk's.
type Dumper struct {
	writer io.Writer
}

// NewDumper creates a Dumper writing to w.
func NewDumper(w io.Writer) *Dumper {
	return &Dumper{writer: w}
}

// DumpModule writes every type in the module, in first-reachable
// (insertion) order — the order §3 requires the Module to preserve.
func (d *Dumper) DumpModule(m *ir.Module) {
	fmt.Fprintf(d.writer, "== module: %d types, %d primitives ==\n\n", len(m.Types), len(m.Primitives))
	for _, t := range m.Types {
		d.DumpType(t)
	}
}

// DumpType writes one type's header, fields and method disassembly.
func (d *Dumper) DumpType(t *ir.Type) {
	fmt.Fprintf(d.writer, "type %s (%s) -> %s\n", t.ILName, t.Kind, t.NativeName)
	if t.BaseType != "" {
		fmt.Fprintf(d.writer, "  base: %s\n", t.BaseType)
	}
	for _, iface := range t.Interfaces {
		fmt.Fprintf(d.writer, "  implements: %s\n", iface)
	}
	for _, f := range t.StaticFields {
		fmt.Fprintf(d.writer, "  static field %-20s %s -> %s\n", f.Name, f.ILTypeName, f.NativeName)
	}
	for _, f := range t.Fields {
		fmt.Fprintf(d.writer, "  field        %-20s %s -> %s\n", f.Name, f.ILTypeName, f.NativeName)
	}
	for _, a := range t.Attributes {
		fmt.Fprintf(d.writer, "  [%s]\n", attrString(a))
	}
	for _, m := range t.Methods {
		d.DumpMethod(m)
	}
	fmt.Fprintln(d.writer)
}

// DumpMethod writes a method's signature followed by its basic blocks, one
// instruction per line with a 4-digit offset, the way DisassembleInstruction
// prefixes every bytecode line with its offset.
func (d *Dumper) DumpMethod(m *ir.Method) {
	fmt.Fprintf(d.writer, "  method %s -> %s\n", m.Signature(), m.NativeName)
	offset := 0
	for _, b := range m.Blocks {
		fmt.Fprintf(d.writer, "  %s:\n", b.Label)
		for _, inst := range b.Instructions {
			fmt.Fprintf(d.writer, "    %04d  %s\n", offset, inst.String())
			offset++
		}
	}
}

func attrString(a *ir.CustomAttribute) string {
	var sb strings.Builder
	sb.WriteString(a.ILTypeName)
	sb.WriteString("(")
	for i, arg := range a.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(attrValueString(arg))
	}
	sb.WriteString(")")
	return sb.String()
}

func attrValueString(arg ir.AttributeArg) string {
	switch arg.Value.Kind() {
	case ir.AttrString:
		return fmt.Sprintf("%q", arg.Value.StringValue())
	case ir.AttrBool:
		return fmt.Sprintf("%v", arg.Value.BoolValue())
	case ir.AttrFloat32, ir.AttrFloat64:
		return fmt.Sprintf("%v", arg.Value.Float64Value())
	case ir.AttrUint8, ir.AttrUint16, ir.AttrUint32, ir.AttrUint64:
		return fmt.Sprintf("%d", arg.Value.UintValue())
	default:
		return fmt.Sprintf("%d", arg.Value.IntValue())
	}
}

// DumpModuleToString renders m the way DumpModule would, returning the
// result as a string, mirroring the teacher's DisassembleToString.
func DumpModuleToString(m *ir.Module) string {
	var sb strings.Builder
	NewDumper(&sb).DumpModule(m)
	return sb.String()
}

// DumpTypeToString renders a single type as DumpType would.
func DumpTypeToString(t *ir.Type) string {
	var sb strings.Builder
	NewDumper(&sb).DumpType(t)
	return sb.String()
}

// SortedTypeNames returns the module's type IL names in natural order
// (`Foo2` before `Foo10`), for listings meant to be read by a human rather
// than relied on for first-reachable ordering.
func SortedTypeNames(m *ir.Module) []string {
	names := make([]string, len(m.Types))
	for i, t := range m.Types {
		names[i] = t.ILName
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })
	return names
}
