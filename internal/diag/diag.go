// Package diag adapts the teacher's source-position error formatting to the
// translator's own coordinate space: a method body has no line/column, only
// an owning method and an instruction offset within it.
package diag

import (
	"fmt"
	"strings"
)

// Location pinpoints one instruction inside a method body.
type Location struct {
	MethodOwnerIL string
	MethodName    string
	Offset        int
	Opcode        string
}

func (l Location) String() string {
	if l.Opcode == "" {
		return fmt.Sprintf("%s.%s[%d]", l.MethodOwnerIL, l.MethodName, l.Offset)
	}
	return fmt.Sprintf("%s.%s[%d] (%s)", l.MethodOwnerIL, l.MethodName, l.Offset, l.Opcode)
}

// TranslationError describes a single failure located at one instruction.
// The translator's own packages do not construct it: the lifter reports an
// unknown opcode as a wrapped fmt error, and a name collision surfaces as
// ir.NameCollisionError.
type TranslationError struct {
	Location Location
	Message string
}

// NewTranslationError constructs a TranslationError at loc.
func NewTranslationError(loc Location, format string, args ...any) *TranslationError {
	return &TranslationError{Location: loc, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	return e.Format()
}

// Format mirrors the teacher's CompilerError.Format: a header line naming
// where the failure occurred, followed by the message.
func (e *TranslationError) Format() string {
	var sb strings.Builder
	sb.WriteString("translation error at ")
	sb.WriteString(e.Location.String())
	sb.WriteString("\n")
	sb.WriteString(e.Message)
	return sb.String()
}

// Frame is one entry in a Trace: which method pulled in which reference, and
// why (mirrors the teacher's StackFrame, but walks the reachability
// worklist's seed chain instead of a runtime call stack).
type Frame struct {
	MethodOwnerIL string
	MethodName    string
	Reason        string
}

func (f Frame) String() string {
	return fmt.Sprintf("%s.%s (%s)", f.MethodOwnerIL, f.MethodName, f.Reason)
}

// Trace is an ordered sequence of Frames from the entry point (or public
// surface seed) down to the method under discussion. It is purely
// observational bookkeeping for CLI/debug output (§SUPPLEMENT of
// SPEC_FULL.md) — it never feeds back into reachability marking decisions.
type Trace []Frame

// String mirrors the teacher's StackTrace.String: one frame per line, oldest
// (the seed) first.
func (t Trace) String() string {
	if len(t) == 0 {
		return ""
	}
	parts := make([]string, len(t))
	for i, f := range t {
		parts[i] = f.String()
	}
	return strings.Join(parts, "\n")
}

// Top returns the most recently appended frame, or nil if t is empty.
func (t Trace) Top() *Frame {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}
