// Package ilname implements the translator's Name Mapper (§4.A): a pure,
// deterministic projection from IL type and member names onto a flat
// namespace of valid native identifiers.
package ilname

import "strings"

// Mapper holds the one piece of process-wide state the translator has: the
// set of IL names registered as value types beyond the fixed primitives
// (§5). It is a field on a value passed by reference, not a package-level
// global, precisely so that two concurrent translations never interfere —
// the re-architecture §9 calls for.
type Mapper struct {
	valueTypes map[string]bool
}

// NewMapper returns an empty Mapper. Its registered-value-types set starts
// empty, as §5 requires for the start of every translation invocation.
func NewMapper() *Mapper {
	return &Mapper{valueTypes: make(map[string]bool)}
}

// RegisterValueType records il as a user or synthetic value type so that
// IsValueType and DefaultLiteral treat it accordingly. Safe to call more
// than once for the same name.
func (m *Mapper) RegisterValueType(il string) {
	m.valueTypes[il] = true
}

// IsPrimitive reports whether il is one of the fixed primitive IL names.
func (m *Mapper) IsPrimitive(il string) bool {
	return IsPrimitive(il)
}

// IsValueType reports whether il is a value type: a primitive other than
// string/object/void, or a name previously passed to RegisterValueType.
func (m *Mapper) IsValueType(il string) bool {
	if IsPrimitive(il) {
		return !referencePrimitives[il] && il != "System.Void"
	}
	return m.valueTypes[il]
}

// stripModifiers removes any trailing " modreq(...)"/" modopt(...)" custom
// modifier annotation (§4.A rule 1). Modifiers may repeat; each is stripped
// in turn from the end of the string.
func stripModifiers(s string) string {
	for {
		trimmed := strings.TrimRight(s, " ")
		if !strings.HasSuffix(trimmed, ")") {
			return s
		}
		reqIdx := strings.LastIndex(trimmed, " modreq(")
		optIdx := strings.LastIndex(trimmed, " modopt(")
		idx := reqIdx
		if optIdx > idx {
			idx = optIdx
		}
		if idx < 0 {
			return s
		}
		s = trimmed[:idx]
	}
}

// splitByRefOrPointer recognizes a trailing by-ref ("&") or unmanaged
// pointer ("*") marker (§4.A rule 2) and returns the remainder and whether a
// marker was found.
func splitByRefOrPointer(s string) (remainder string, found bool) {
	if strings.HasSuffix(s, "&") || strings.HasSuffix(s, "*") {
		return s[:len(s)-1], true
	}
	return s, false
}

// isMultiDimRank reports whether the bracket content of an array type name
// denotes rank >= 2: commas (",", ",,") or CLR range syntax ("0:", "0:,0:")
// inside the brackets. An empty bracket (single dim, "[]") is handled by the
// caller before this is reached.
func isMultiDimRank(bracketContent string) bool {
	return strings.ContainsRune(bracketContent, ',') || strings.Contains(bracketContent, ":")
}

// ProjectType implements §4.A project_type: the IL name, projected onto a
// native identifier. asPointer suppresses the automatic trailing pointer
// marker that reference primitives would otherwise receive (used when the
// caller is already wrapping the result in its own pointer decoration).
func (m *Mapper) ProjectType(il string, asPointer bool) string {
	// Rule 1: strip modreq/modopt.
	il = stripModifiers(il)

	// Rule 2: by-ref / pointer marker.
	if rest, found := splitByRefOrPointer(il); found {
		return m.ProjectType(rest, asPointer) + "*"
	}

	// Rule 3: single-dimension array.
	if strings.HasSuffix(il, "[]") {
		return SingleDimArrayPointerType
	}

	// Rule 4: rank decoration (multi-dimensional array).
	if strings.HasSuffix(il, "]") {
		open := strings.LastIndex(il, "[")
		if open >= 0 {
			content := il[open+1 : len(il)-1]
			if isMultiDimRank(content) {
				return MultiDimArrayPointerType
			}
		}
	}

	// Rule 5: runtime-provided exception table.
	if native, ok := runtimeExceptionTable[il]; ok {
		return native
	}

	// Rule 6: primitives.
	if native, ok := primitiveNative[il]; ok {
		if referencePrimitives[il] && !asPointer {
			return native + "*"
		}
		return native
	}

	// Rule 7: closed generic instantiation.
	if open, args, ok := splitGenericInstance(il); ok {
		return mangleInstance(open, args)
	}

	// Rule 8: sanitizer.
	return sanitize(il)
}

// ProjectForDeclaration implements §4.A project_for_declaration: like
// ProjectType, but reference types gain a single trailing pointer marker.
// Void stays bare.
func (m *Mapper) ProjectForDeclaration(il string) string {
	stripped := stripModifiers(il)
	if stripped == "System.Void" {
		return "void"
	}

	native := m.ProjectType(il, true)
	if strings.HasSuffix(native, "*") {
		return native // rules 2/3/4 already produced a pointer type
	}
	if m.IsValueType(stripped) {
		return native
	}
	return native + "*" // reference type: class, interface, or exception-table hit
}

// ProjectMethod implements §4.A project_method: concatenate the owner's
// already-projected native name and the method name with an underscore,
// after sanitizing the method name.
func (m *Mapper) ProjectMethod(ownerNativeName, methodName string) string {
	return ownerNativeName + "_" + sanitize(methodName)
}

// ProjectField implements §4.A project_field: strip one leading underscore
// if present, sanitize angle brackets (and the rest of the sanitize set),
// then prefix "f_" to avoid collisions with C/C++ keywords.
func (m *Mapper) ProjectField(fieldName string) string {
	name := strings.TrimPrefix(fieldName, "_")
	return "f_" + sanitize(name)
}

// ProjectIdentifier implements §4.A project_identifier: sanitize only, no
// further projection rules.
func (m *Mapper) ProjectIdentifier(arbitrary string) string {
	return sanitize(arbitrary)
}

// DefaultLiteral implements §4.A default_literal: the target-language
// literal that zero-initializes a value of the given type, accepting either
// an IL type name or an already-projected native name for a registered
// value type.
func (m *Mapper) DefaultLiteral(ilOrNativeType string) string {
	if lit, ok := defaultLiteralForPrimitive(ilOrNativeType); ok {
		return lit
	}
	if m.valueTypes[ilOrNativeType] {
		return "{}"
	}
	// Not a known value type: treat as a reference type default.
	return "nullptr"
}
