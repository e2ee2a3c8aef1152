// Package intercept implements the translator's Interception Tables (§4.E):
// a fixed catalogue of seven built-in runtime types whose method bodies are
// never lifted from metadata (because they live below the source surface)
// and are instead replaced with inline native-language fragments.
package intercept

import (
	"strings"

	"github.com/axiomates/cil2cpp/internal/ilname"
	"github.com/axiomates/cil2cpp/internal/ir"
)

// SyntheticField describes an IR field the generic-specialization builder
// must install on an intercepted built-in's Type shell at IR build time,
// because the real field list is unavailable (the type's body lives in the
// runtime, not the loaded assembly set).
type SyntheticField struct {
	Name     string
	ILType   string
	IsStatic bool
}

// Table is the closed catalogue, consulted in the fixed order 1..7 by both
// call/callvirt and newobj (§4.E "order of dispatch").
type Table struct {
	mapper *ilname.Mapper
}

// New returns a Table that projects native names through mapper.
func New(mapper *ilname.Mapper) *Table {
	return &Table{mapper: mapper}
}

// MatchCall implements lift.Interceptor. It tries handlers 1 through 7 in
// order and returns the first match.
func (t *Table) MatchCall(ownerIL, methodName, signature string) (arity int, hasThis bool, returnIL string, ok bool) {
	if h, kind, elem := classify(ownerIL); h != 0 {
		return dispatchCall(h, kind, elem, methodName, signature)
	}
	return 0, false, "", false
}

// EmitCall implements lift.Interceptor.
func (t *Table) EmitCall(ownerIL, methodName string, args []ir.Operand, dest string) ir.Instruction {
	h, kind, elem := classify(ownerIL)
	return emitCall(t.mapper, h, kind, elem, ownerIL, methodName, args, dest)
}

// MatchNewObject implements lift.Interceptor.
func (t *Table) MatchNewObject(ownerIL, signature string) (arity int, ok bool) {
	h, _, _ := classify(ownerIL)
	if h == 0 {
		return 0, false
	}
	n := countParams(signature)
	switch h {
	case handlerMDArray, handlerSpan, handlerCancellationTokenSource, handlerTaskCompletionSource:
		return n, true
	case handlerThread:
		return n, true // delegate argument(s)
	default:
		return 0, false // CancellationToken and EqualityComparer expose no interceptable constructor
	}
}

// EmitNewObject implements lift.Interceptor.
func (t *Table) EmitNewObject(ownerIL string, args []ir.Operand, dest string) ir.Instruction {
	h, kind, elem := classify(ownerIL)
	return emitNewObject(t.mapper, h, kind, elem, ownerIL, args, dest)
}

// SyntheticFields reports the fields the generic-specialization builder
// should install on ownerIL's synthesized Type shell, if any.
func SyntheticFields(ownerIL string) ([]SyntheticField, bool) {
	h, _, _ := classify(ownerIL)
	switch h {
	case handlerSpan:
		return []SyntheticField{{Name: "_reference", ILType: "System.IntPtr"}, {Name: "_length", ILType: "System.Int32"}}, true
	case handlerCancellationTokenSource:
		return []SyntheticField{{Name: "_state", ILType: "System.Int32"}}, true
	case handlerCancellationToken:
		return []SyntheticField{{Name: "_source", ILType: "System.Threading.CancellationTokenSource"}}, true
	case handlerTaskCompletionSource:
		return []SyntheticField{{Name: "f_task", ILType: ownerIL}}, true
	default:
		return nil, false
	}
}

type handlerID int

const (
	handlerNone handlerID = iota
	handlerMDArray
	handlerSpan
	handlerThread
	handlerCancellationTokenSource
	handlerCancellationToken
	handlerTaskCompletionSource
	handlerEqualityComparer
)

const (
	spanOpen         = "System.Span`1"
	readOnlySpanOpen = "System.ReadOnlySpan`1"
	threadIL         = "System.Threading.Thread"
	ctsIL            = "System.Threading.CancellationTokenSource"
	ctIL             = "System.Threading.CancellationToken"
	tcsOpen          = "System.Threading.Tasks.TaskCompletionSource`1"
	eqComparerOpen   = "System.Collections.Generic.EqualityComparer`1"
)

// classify implements the dispatch-order predicate of §4.E: it returns
// which of the seven handlers recognizes ownerIL and, for the generic ones,
// the bound element type. kind is "span" or "readonly-span" for the two span
// instantiations and "" for every other handler.
func classify(ownerIL string) (h handlerID, kind string, elemIL string) {
	if rank, ok := mdArrayRank(ownerIL); ok && rank >= 2 {
		return handlerMDArray, "", ""
	}
	if open, args, ok := ilname.SplitGenericInstance(ownerIL); ok {
		switch open {
		case spanOpen:
			return handlerSpan, "span", firstOrEmpty(args)
		case readOnlySpanOpen:
			return handlerSpan, "readonly-span", firstOrEmpty(args)
		case tcsOpen:
			return handlerTaskCompletionSource, "", firstOrEmpty(args)
		case eqComparerOpen:
			return handlerEqualityComparer, "", firstOrEmpty(args)
		}
	}
	switch ownerIL {
	case threadIL:
		return handlerThread, "", ""
	case ctsIL:
		return handlerCancellationTokenSource, "", ""
	case ctIL:
		return handlerCancellationToken, "", ""
	}
	return handlerNone, "", ""
}

func firstOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// mdArrayRank reports the rank of an array IL type name (§4.A rule 4's
// bracket-content inspection, reused here to recognize rank >= 2).
func mdArrayRank(il string) (rank int, ok bool) {
	if !strings.HasSuffix(il, "]") {
		return 0, false
	}
	open := strings.LastIndex(il, "[")
	if open < 0 {
		return 0, false
	}
	content := il[open+1 : len(il)-1]
	if content == "" {
		return 1, true
	}
	if !strings.ContainsAny(content, ",:") {
		return 0, false
	}
	return strings.Count(content, ",") + 1, true
}

// countParams splits an IL method signature "(T1,T2,...)" on top-level
// commas, depth-tracked against the generic/array brackets a parameter type
// may itself contain.
func countParams(signature string) int {
	inner := strings.TrimSuffix(strings.TrimPrefix(signature, "("), ")")
	if inner == "" {
		return 0
	}
	depth, count := 0, 1
	for _, r := range inner {
		switch r {
		case '<', '[':
			depth++
		case '>', ']':
			depth--
		case ',':
			if depth == 0 {
				count++
			}
		}
	}
	return count
}

func dispatchCall(h handlerID, kind, elemIL, method, signature string) (arity int, hasThis bool, returnIL string, ok bool) {
	n := countParams(signature)
	switch h {
	case handlerMDArray:
		return mdArrayCallShape(method, n)
	case handlerSpan:
		return spanCallShape(kind, elemIL, method, n)
	case handlerThread:
		return threadCallShape(method, n)
	case handlerCancellationTokenSource:
		return ctsCallShape(method, n)
	case handlerCancellationToken:
		return ctCallShape(method, n)
	case handlerTaskCompletionSource:
		return tcsCallShape(elemIL, method, n)
	case handlerEqualityComparer:
		return eqComparerCallShape(elemIL, method, n)
	}
	return 0, false, "", false
}

func emitCall(mapper *ilname.Mapper, h handlerID, kind, elemIL string, ownerIL, method string, args []ir.Operand, dest string) ir.Instruction {
	switch h {
	case handlerMDArray:
		return emitMDArrayCall(mapper, method, args, dest)
	case handlerSpan:
		return emitSpanCall(mapper, kind, elemIL, method, args, dest)
	case handlerThread:
		return emitThreadCall(method, args, dest)
	case handlerCancellationTokenSource:
		return emitCTSCall(method, args, dest)
	case handlerCancellationToken:
		return emitCTCall(method, args, dest)
	case handlerTaskCompletionSource:
		return emitTCSCall(method, args, dest)
	case handlerEqualityComparer:
		return emitEqComparerCall(mapper, elemIL, method, args, dest)
	default:
		return &ir.RawTargetText{Dest: dest, Text: "nullptr"}
	}
}

func emitNewObject(mapper *ilname.Mapper, h handlerID, kind, elemIL string, ownerIL string, args []ir.Operand, dest string) ir.Instruction {
	switch h {
	case handlerMDArray:
		return &ir.RawTargetText{Dest: dest, Text: "mdarray_create(" + dimsLiteral(args) + ")"}
	case handlerSpan:
		return emitSpanCtor(mapper, kind, elemIL, args, dest)
	case handlerThread:
		return &ir.RawTargetText{Dest: dest, Text: "thread::create(" + joinArgs(args) + ")"}
	case handlerCancellationTokenSource:
		return &ir.RawTargetText{Dest: dest, Text: "cts_create(" + joinArgs(args) + ")"}
	case handlerTaskCompletionSource:
		return &ir.RawTargetText{Dest: dest, Text: "task_init_pending()"}
	default:
		return &ir.RawTargetText{Dest: dest, Text: "nullptr"}
	}
}

func joinArgs(args []ir.Operand) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Text
	}
	return strings.Join(parts, ", ")
}

// dimsLiteral renders a constructor/indexer's index or dimension operands as
// a local native array literal, per §4.E entry 1 ("a local
// dimension-or-index array literal").
func dimsLiteral(args []ir.Operand) string {
	return "{" + joinArgs(args) + "}"
}

// ---- 1. Multi-dimensional arrays ----

func mdArrayCallShape(method string, n int) (int, bool, string, bool) {
	switch method {
	case "Get":
		return n, true, "", true // element IL type unknown to the table; lifter leaves it untyped
	case "Set":
		return n, true, "System.Void", true
	case "Address":
		return n, true, "", true
	}
	return 0, false, "", false
}

func emitMDArrayCall(mapper *ilname.Mapper, method string, args []ir.Operand, dest string) ir.Instruction {
	self := args[0]
	rest := args[1:]
	switch method {
	case "Get":
		return &ir.RawTargetText{Dest: dest, Text: "*mdarray_get_element_ptr(" + self.Text + ", " + dimsLiteral(rest) + ")"}
	case "Set":
		value := rest[len(rest)-1]
		indices := rest[:len(rest)-1]
		return &ir.RawTargetText{Text: "*mdarray_get_element_ptr(" + self.Text + ", " + dimsLiteral(indices) + ") = " + value.Text}
	case "Address":
		return &ir.RawTargetText{Dest: dest, Text: "mdarray_get_element_ptr(" + self.Text + ", " + dimsLiteral(rest) + ")"}
	}
	return &ir.RawTargetText{Dest: dest, Text: "nullptr"}
}

// ---- 2. Span / ReadOnlySpan ----

func spanCallShape(kind, elemIL, method string, n int) (int, bool, string, bool) {
	switch method {
	case "get_Length", "get_ManagedThreadId":
		return 0, true, "System.Int32", true
	case "get_IsEmpty":
		return 0, true, "System.Boolean", true
	case "get_Item":
		return 1, true, elemIL, true
	case "Slice":
		return n, true, kindOpenName(kind) + "<" + elemIL + ">", true
	case "ToArray":
		return 0, true, elemIL + "[]", true
	case "GetPinnableReference":
		return 0, true, elemIL + "&", true
	case "CopyTo":
		return 1, true, "System.Void", true
	case "Clear":
		return 0, true, "System.Void", true
	case "Fill":
		return 1, true, "System.Void", true
	}
	return 0, false, "", false
}

func kindOpenName(kind string) string {
	if kind == "readonly-span" {
		return readOnlySpanOpen
	}
	return spanOpen
}

func emitSpanCall(mapper *ilname.Mapper, kind, elemIL, method string, args []ir.Operand, dest string) ir.Instruction {
	self := args[0]
	elemNative := mapper.ProjectForDeclaration(elemIL)
	ref := self.Text + "->" + mapper.ProjectField("_reference")
	length := self.Text + "->" + mapper.ProjectField("_length")
	switch method {
	case "get_Length":
		return &ir.RawTargetText{Dest: dest, Text: length}
	case "get_IsEmpty":
		return &ir.RawTargetText{Dest: dest, Text: "(" + length + " == 0)"}
	case "get_Item":
		idx := args[1]
		return &ir.RawTargetText{Dest: dest, Text: "(((unsigned)" + idx.Text + " < (unsigned)" + length +
			") ? *(" + elemNative + "*)(" + ref + " + " + idx.Text + " * sizeof(" + elemNative + ")) : *(" + elemNative + "*)(throw_index_out_of_range(), (void*)0))"}
	case "Slice":
		start := args[1].Text
		newLen := length + " - " + start
		if len(args) > 2 {
			newLen = args[2].Text
		}
		return &ir.RawTargetText{Dest: dest, Text: "{ " + ref + " + " + start + " * sizeof(" + elemNative + "), " + newLen + " }"}
	case "ToArray":
		return &ir.RawTargetText{Dest: dest, Text: "array_create_from(" + ref + ", " + length + ")"}
	case "GetPinnableReference":
		return &ir.RawTargetText{Dest: dest, Text: "*(" + elemNative + "*)" + ref}
	case "CopyTo":
		dst := args[1]
		dstLen := dst.Text + "->" + mapper.ProjectField("_length")
		dstRef := dst.Text + "->" + mapper.ProjectField("_reference")
		return &ir.RawTargetText{Text: "((" + length + " <= " + dstLen + ") ? memcpy(" + dstRef +
			", " + ref + ", " + length + " * sizeof(" + elemNative + ")) : throw_argument())"}
	case "Clear":
		return &ir.RawTargetText{Text: "memset((void*)" + ref + ", 0, " + length + " * sizeof(" + elemNative + "))"}
	case "Fill":
		return &ir.RawTargetText{Text: "span_fill(" + ref + ", " + length + ", " + args[1].Text + ")"}
	}
	return &ir.RawTargetText{Dest: dest, Text: "nullptr"}
}

func emitSpanCtor(mapper *ilname.Mapper, kind, elemIL string, args []ir.Operand, dest string) ir.Instruction {
	switch len(args) {
	case 0:
		return &ir.RawTargetText{Dest: dest, Text: "{ nullptr, 0 }"}
	case 1:
		return &ir.RawTargetText{Dest: dest, Text: "{ array_data(" + args[0].Text + "), array_length(" + args[0].Text + ") }"}
	case 2:
		return &ir.RawTargetText{Dest: dest, Text: "{ " + args[0].Text + ", " + args[1].Text + " }"}
	default:
		elemNative := mapper.ProjectForDeclaration(elemIL)
		return &ir.RawTargetText{Dest: dest, Text: "{ (intptr_t)(" + elemNative + "*)" + args[0].Text + " + " + args[1].Text + " * sizeof(" + elemNative + "), " + args[2].Text + " }"}
	}
}

// ---- 3. Thread ----

func threadCallShape(method string, n int) (int, bool, string, bool) {
	switch method {
	case "Start":
		return 0, true, "System.Void", true
	case "Join":
		if n == 0 {
			return 0, true, "System.Void", true
		}
		return 1, true, "System.Boolean", true
	case "get_IsAlive":
		return 0, true, "System.Boolean", true
	case "get_ManagedThreadId":
		return 0, true, "System.Int32", true
	case "Sleep":
		return 1, false, "System.Void", true
	case "MemoryBarrier":
		return 0, false, "System.Void", true
	}
	return 0, false, "", false
}

func emitThreadCall(method string, args []ir.Operand, dest string) ir.Instruction {
	switch method {
	case "Start":
		return &ir.RawTargetText{Text: "thread::start(" + args[0].Text + ")"}
	case "Join":
		if len(args) == 1 {
			return &ir.RawTargetText{Text: "thread::join(" + args[0].Text + ")"}
		}
		return &ir.RawTargetText{Dest: dest, Text: "thread::join_timeout(" + args[0].Text + ", " + args[1].Text + ")"}
	case "get_IsAlive":
		return &ir.RawTargetText{Dest: dest, Text: "thread::is_alive(" + args[0].Text + ")"}
	case "get_ManagedThreadId":
		return &ir.RawTargetText{Dest: dest, Text: "thread::get_managed_id(" + args[0].Text + ")"}
	case "Sleep":
		return &ir.RawTargetText{Text: "thread::sleep(" + args[0].Text + ")"}
	case "MemoryBarrier":
		return &ir.RawTargetText{Text: "std::atomic_thread_fence(std::memory_order_seq_cst)"}
	}
	return &ir.RawTargetText{Dest: dest, Text: "nullptr"}
}

// ---- 4. CancellationTokenSource ----

func ctsCallShape(method string, n int) (int, bool, string, bool) {
	switch method {
	case "get_Token":
		return 0, true, ctIL, true
	case "get_IsCancellationRequested":
		return 0, true, "System.Boolean", true
	case "Cancel":
		return 0, true, "System.Void", true
	case "CancelAfter":
		return 1, true, "System.Void", true
	case "Dispose":
		return 0, true, "System.Void", true
	}
	return 0, false, "", false
}

func emitCTSCall(method string, args []ir.Operand, dest string) ir.Instruction {
	self := args[0]
	switch method {
	case "get_Token":
		return &ir.RawTargetText{Dest: dest, Text: "{ " + self.Text + " }"}
	case "get_IsCancellationRequested":
		return &ir.RawTargetText{Dest: dest, Text: "cts_is_cancellation_requested(" + self.Text + ")"}
	case "Cancel":
		return &ir.RawTargetText{Text: "cts_cancel(" + self.Text + ")"}
	case "CancelAfter":
		return &ir.RawTargetText{Text: "cts_cancel_after(" + self.Text + ", " + args[1].Text + ")"}
	case "Dispose":
		return &ir.RawTargetText{Text: "cts_dispose(" + self.Text + ")"}
	}
	return &ir.RawTargetText{Dest: dest, Text: "nullptr"}
}

// ---- 5. CancellationToken ----

func ctCallShape(method string, n int) (int, bool, string, bool) {
	switch method {
	case "get_IsCancellationRequested":
		return 0, true, "System.Boolean", true
	case "get_CanBeCanceled":
		return 0, true, "System.Boolean", true
	case "ThrowIfCancellationRequested":
		return 0, true, "System.Void", true
	case "get_None":
		return 0, false, ctIL, true
	}
	return 0, false, "", false
}

func emitCTCall(method string, args []ir.Operand, dest string) ir.Instruction {
	switch method {
	case "get_IsCancellationRequested":
		return &ir.RawTargetText{Dest: dest, Text: "ct_is_cancellation_requested(" + args[0].Text + ")"}
	case "get_CanBeCanceled":
		return &ir.RawTargetText{Dest: dest, Text: "ct_can_be_canceled(" + args[0].Text + ")"}
	case "ThrowIfCancellationRequested":
		return &ir.RawTargetText{Text: "ct_throw_if_cancellation_requested(" + args[0].Text + ")"}
	case "get_None":
		return &ir.RawTargetText{Dest: dest, Text: "ct_get_none()"}
	}
	return &ir.RawTargetText{Dest: dest, Text: "nullptr"}
}

// ---- 6. TaskCompletionSource<T> ----

func tcsCallShape(elemIL, method string, n int) (int, bool, string, bool) {
	switch method {
	case "get_Task":
		return 0, true, "System.Threading.Tasks.Task`1<" + elemIL + ">", true
	case "SetResult":
		return 1, true, "System.Void", true
	case "SetException":
		return 1, true, "System.Void", true
	case "TrySetResult":
		return 1, true, "System.Boolean", true
	case "TrySetException":
		return 1, true, "System.Boolean", true
	case "TrySetCanceled":
		return n, true, "System.Boolean", true
	case "SetCanceled":
		return 0, true, "System.Void", true
	}
	return 0, false, "", false
}

func emitTCSCall(method string, args []ir.Operand, dest string) ir.Instruction {
	self := args[0]
	switch method {
	case "get_Task":
		return &ir.RawTargetText{Dest: dest, Text: self.Text + "->f_task"}
	case "SetResult":
		return &ir.RawTargetText{Text: "tcs_set_result(" + self.Text + ", " + args[1].Text + ")"}
	case "SetException":
		return &ir.RawTargetText{Text: "tcs_set_exception(" + self.Text + ", " + args[1].Text + ")"}
	case "TrySetResult":
		return &ir.RawTargetText{Dest: dest, Text: "tcs_try_set_result(" + self.Text + ", " + args[1].Text + ")"}
	case "TrySetException":
		return &ir.RawTargetText{Dest: dest, Text: "tcs_try_set_exception(" + self.Text + ", " + args[1].Text + ")"}
	case "TrySetCanceled":
		return &ir.RawTargetText{Dest: dest, Text: "tcs_try_set_canceled(" + joinArgs(args) + ")"}
	case "SetCanceled":
		return &ir.RawTargetText{Text: "tcs_set_canceled(" + self.Text + ")"}
	}
	return &ir.RawTargetText{Dest: dest, Text: "nullptr"}
}

// ---- 7. EqualityComparer<T> ----

func eqComparerCallShape(elemIL, method string, n int) (int, bool, string, bool) {
	switch method {
	case "get_Default":
		return 0, false, eqComparerOpen + "<" + elemIL + ">", true
	case "Equals":
		return 2, true, "System.Boolean", true
	case "GetHashCode":
		return 1, true, "System.Int32", true
	case "IndexOf", "LastIndexOf":
		return n, true, "System.Int32", true
	}
	// Unrecognized methods on this type still pop their arguments and push
	// null so lifting can continue (§4.E entry 7, last sentence).
	return n, true, "System.Object", true
}

func emitEqComparerCall(mapper *ilname.Mapper, elemIL, method string, args []ir.Operand, dest string) ir.Instruction {
	isValueType := mapper.IsValueType(elemIL)
	switch method {
	case "get_Default":
		return &ir.RawTargetText{Dest: dest, Text: "eq_comparer_default<" + mapper.ProjectForDeclaration(elemIL) + ">()"}
	case "Equals":
		x, y := args[1], args[2]
		if isValueType {
			return &ir.RawTargetText{Dest: dest, Text: "(" + x.Text + " == " + y.Text + ")"}
		}
		return &ir.RawTargetText{Dest: dest, Text: "object_equals(" + x.Text + ", " + y.Text + ")"}
	case "GetHashCode":
		x := args[1]
		if isValueType {
			return &ir.RawTargetText{Dest: dest, Text: "(int32_t)(" + x.Text + ")"}
		}
		return &ir.RawTargetText{Dest: dest, Text: "object_get_hash_code(" + x.Text + ")"}
	case "IndexOf", "LastIndexOf":
		return &ir.RawTargetText{Dest: dest, Text: "eq_comparer_" + strings.ToLower(method) + "(" + joinArgs(args) + ")"}
	default:
		return &ir.RawTargetText{Dest: dest, Text: "nullptr"}
	}
}
