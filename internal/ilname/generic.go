package ilname

import "strings"

// SplitGenericInstance is the exported form of splitGenericInstance, used by
// the interception tables (§4.E) to recognize a closed generic's open name
// and type arguments without duplicating this parse.
func SplitGenericInstance(il string) (open string, args []string, ok bool) {
	return splitGenericInstance(il)
}

// splitGenericInstance recognizes the "open name, then backtick, arity,
// <args>" shape of a closed generic instantiation (§4.A rule 7) and, if
// found, returns the open name and the comma-separated argument list split
// at top level (a nested generic argument's own commas are not split,
// since its angle brackets are tracked by depth).
func splitGenericInstance(il string) (open string, args []string, ok bool) {
	tick := strings.IndexByte(il, '`')
	if tick < 0 {
		return "", nil, false
	}

	i := tick + 1
	arityStart := i
	for i < len(il) && il[i] >= '0' && il[i] <= '9' {
		i++
	}
	if i == arityStart {
		return "", nil, false // no digits after the backtick
	}
	if i >= len(il) || il[i] != '<' {
		return "", nil, false
	}

	// il[i] == '<' opening the argument list; find its matching '>' by depth.
	depth := 0
	argsStart := i
	end := -1
	for j := i; j < len(il); j++ {
		switch il[j] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				end = j
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return "", nil, false
	}

	open = il[:i] // includes the backtick+arity
	argList := il[argsStart+1 : end]
	args = splitTopLevel(argList)
	return open, args, true
}

// splitTopLevel splits s on commas that are not nested inside angle
// brackets, so a type argument that is itself a closed generic
// instantiation is kept whole.
func splitTopLevel(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// mangleInstance implements the generic-instance mangler exactly as given in
// §4.A: sanitize(open_name) + "_" + join("_", map(sanitize, args)). Each
// argument is sanitized directly — not separately projected — so a primitive
// argument like System.Int32 contributes "System_Int32", not "int32_t" (§8
// scenario 3).
func mangleInstance(open string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, sanitize(open))
	for _, a := range args {
		parts = append(parts, sanitize(a))
	}
	return strings.Join(parts, "_")
}
