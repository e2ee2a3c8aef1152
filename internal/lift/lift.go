// Package lift implements the translator's Method Body Lifter (§4.D): a
// stack-machine simulator that walks a loader.Body's opcode stream and
// produces the ir package's basic-block instruction lists.
package lift

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/axiomates/cil2cpp/internal/ilname"
	"github.com/axiomates/cil2cpp/internal/ir"
	"github.com/axiomates/cil2cpp/internal/loader"
)

// Interceptor is consulted before every call and object-construction
// instruction (§4.E dispatch order 1..7 happens inside the concrete
// implementation; the lifter itself is interception-agnostic). Match reports
// whether owner.method is one of the seven built-in handlers and, if so, how
// many stack operands it consumes; Emit then produces the instruction the
// lifter appends — always a RawTargetText per §3's "intercepted calls are
// leaf" property.
type Interceptor interface {
	MatchCall(ownerIL, methodName, signature string) (arity int, hasThis bool, returnIL string, ok bool)
	EmitCall(ownerIL, methodName string, args []ir.Operand, dest string) ir.Instruction

	MatchNewObject(ownerIL, signature string) (arity int, ok bool)
	EmitNewObject(ownerIL string, args []ir.Operand, dest string) ir.Instruction
}

// Lifter holds the components shared across every method body lifted during
// one translation run.
type Lifter struct {
	Source    loader.Source
	Mapper    *ilname.Mapper
	Intercept Interceptor

	interceptedOwners []string
	seenOwners        map[string]bool
}

// New returns a Lifter wired to the given collaborators.
func New(src loader.Source, mapper *ilname.Mapper, intercept Interceptor) *Lifter {
	return &Lifter{Source: src, Mapper: mapper, Intercept: intercept, seenOwners: make(map[string]bool)}
}

// InterceptedOwners returns, in first-seen order, the IL names of every
// type a call or newobj was routed against interception for while lifting
// method bodies. A reachable closed generic instantiation of one of the
// built-ins intercept.Table recognizes (Span<T>, EqualityComparer<T>, ...)
// that is used only through such calls never reaches the reachability
// analyzer's own type order — reach adds a call's owner or a type operand
// only once the loader resolves it, and these built-ins are exactly the
// types the loader does not resolve — so this is the only place that
// observes them.
// The translator folds this list into generics.EnsureAll's input so §4.G's
// synthetic shells actually reach the emitted Module.
func (l *Lifter) InterceptedOwners() []string {
	return l.interceptedOwners
}

func (l *Lifter) recordIntercepted(owner string) {
	if l.seenOwners[owner] {
		return
	}
	l.seenOwners[owner] = true
	l.interceptedOwners = append(l.interceptedOwners, owner)
}

// frame is the per-method lifting state: the simulated evaluation stack, the
// basic blocks under construction, and the temp-name counter (§4.D state).
type frame struct {
	stack   []ir.Operand
	temps   int
	owner   *ir.Type
	method  *ir.Method
	mi      loader.MethodInfo
	body    loader.Body
	blocks  map[string]*ir.BasicBlock
	order   []string
	current *ir.BasicBlock
}

func (f *frame) newTemp() string {
	f.temps++
	return "t" + strconv.Itoa(f.temps)
}

// push/pop simulate the CIL evaluation stack. pop tolerates underflow (§7):
// a malformed or partially-understood body must degrade to a best-effort
// substitution rather than panic, so an empty stack yields a zero operand.
func (f *frame) push(o ir.Operand) { f.stack = append(f.stack, o) }

func (f *frame) pop() ir.Operand {
	if len(f.stack) == 0 {
		return ir.Operand{Text: "0"}
	}
	top := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return top
}

func (f *frame) popN(n int) []ir.Operand {
	args := make([]ir.Operand, n)
	for i := n - 1; i >= 0; i-- {
		args[i] = f.pop()
	}
	return args
}

func blockLabel(idx int) string { return fmt.Sprintf("IL_%04d", idx) }

// LiftMethod implements §4.D: it simulates body's opcode stream against a
// stack of ir.Operand and appends the resulting BasicBlocks to method.
func (l *Lifter) LiftMethod(owner *ir.Type, method *ir.Method, mi loader.MethodInfo, body loader.Body) error {
	f := &frame{owner: owner, method: method, mi: mi, body: body, blocks: make(map[string]*ir.BasicBlock)}

	leaders := map[int]bool{0: true}
	for idx, op := range body.Instructions {
		switch op.Code {
		case loader.OpBr, loader.OpLeave:
			leaders[op.BranchTarget] = true
		case loader.OpBrTrue, loader.OpBrFalse,
			loader.OpBeq, loader.OpBne, loader.OpBlt, loader.OpBgt, loader.OpBle, loader.OpBge:
			leaders[op.BranchTarget] = true
			leaders[op.BranchTargetFalse] = true
			if idx+1 < len(body.Instructions) {
				leaders[idx+1] = true
			}
		}
	}

	f.current = method.NewBlock(blockLabel(0))
	f.blocks[blockLabel(0)] = f.current
	f.order = append(f.order, blockLabel(0))

	for idx, op := range body.Instructions {
		if idx > 0 && leaders[idx] {
			label := blockLabel(idx)
			if b, ok := f.blocks[label]; ok {
				f.current = b
			} else {
				f.current = method.NewBlock(label)
				f.blocks[label] = f.current
				f.order = append(f.order, label)
			}
		}
		if err := l.step(f, idx, op); err != nil {
			return fmt.Errorf("lift: %s: instruction %d: %w", method.Signature(), idx, err)
		}
	}
	return nil
}

func (l *Lifter) step(f *frame, idx int, op loader.Op) error {
	switch op.Code {
	case loader.OpNop:
		// no-op

	case loader.OpLdcI4:
		f.push(ir.Operand{Text: strconv.FormatInt(op.IntOperand, 10), ILType: "System.Int32"})
	case loader.OpLdcI8:
		f.push(ir.Operand{Text: strconv.FormatInt(op.IntOperand, 10) + "LL", ILType: "System.Int64"})
	case loader.OpLdcR4:
		f.push(ir.Operand{Text: strconv.FormatFloat(op.FloatOperand, 'g', -1, 32) + "f", ILType: "System.Single"})
	case loader.OpLdcR8:
		f.push(ir.Operand{Text: strconv.FormatFloat(op.FloatOperand, 'g', -1, 64), ILType: "System.Double"})
	case loader.OpLdStr:
		f.push(ir.Operand{Text: strconv.Quote(op.StringOperand), ILType: "System.String"})
	case loader.OpLdNull:
		f.push(ir.Operand{Text: "nullptr"})

	case loader.OpLdLoc:
		dest := f.newTemp()
		name := localName(op.LocalIndex)
		f.current.Append(&ir.LocalLoad{Dest: dest, Local: name})
		f.push(ir.Operand{Text: dest, ILType: localType(f.body, op.LocalIndex)})
	case loader.OpStLoc:
		val := f.pop()
		f.current.Append(&ir.LocalStore{Local: localName(op.LocalIndex), Value: val})
	case loader.OpLdLoca:
		dest := f.newTemp()
		f.current.Append(&ir.LocalAddr{Dest: dest, Local: localName(op.LocalIndex)})
		f.push(ir.Operand{Text: dest, ILType: localType(f.body, op.LocalIndex) + "&"})

	case loader.OpLdArg:
		dest := f.newTemp()
		name := f.argName(op.ArgIndex)
		f.current.Append(&ir.ArgLoad{Dest: dest, Arg: name})
		f.push(ir.Operand{Text: dest, ILType: f.argType(op.ArgIndex)})
	case loader.OpStArg:
		val := f.pop()
		f.current.Append(&ir.ArgStore{Arg: f.argName(op.ArgIndex), Value: val})
	case loader.OpLdArga:
		dest := f.newTemp()
		f.current.Append(&ir.ArgLoad{Dest: dest, Arg: "&" + f.argName(op.ArgIndex)})
		f.push(ir.Operand{Text: dest, ILType: f.argType(op.ArgIndex) + "&"})

	case loader.OpDup:
		if len(f.stack) > 0 {
			f.push(f.stack[len(f.stack)-1])
		} else {
			f.push(ir.Operand{Text: "0"})
		}
	case loader.OpPop:
		f.pop()

	case loader.OpAdd, loader.OpSub, loader.OpMul, loader.OpDiv, loader.OpRem,
		loader.OpAnd, loader.OpOr, loader.OpXor, loader.OpShl, loader.OpShr,
		loader.OpCeq, loader.OpCgt, loader.OpClt:
		rhs, lhs := f.pop(), f.pop()
		dest := f.newTemp()
		native := binaryOperator(op.Code)
		resultType := lhs.ILType
		if isComparison(op.Code) {
			resultType = "System.Int32"
		}
		f.current.Append(&ir.Arithmetic{Dest: dest, Op: native, LHS: lhs, RHS: rhs})
		f.push(ir.Operand{Text: dest, ILType: resultType})
	case loader.OpNeg, loader.OpNot:
		val := f.pop()
		dest := f.newTemp()
		native := "-"
		if op.Code == loader.OpNot {
			native = "~"
		}
		f.current.Append(&ir.Arithmetic{Dest: dest, Op: native, LHS: val})
		f.push(ir.Operand{Text: dest, ILType: val.ILType})

	case loader.OpLdFld:
		instance := f.pop()
		fieldIL := l.fieldType(op.FieldOperand)
		dest := f.newTemp()
		f.current.Append(&ir.FieldLoad{
			Dest: dest, Instance: instance, OwnerIL: string(op.FieldOperand.Owner),
			FieldName: op.FieldOperand.Name, Native: l.Mapper.ProjectField(op.FieldOperand.Name),
		})
		f.push(ir.Operand{Text: dest, ILType: fieldIL})
	case loader.OpStFld:
		val := f.pop()
		instance := f.pop()
		f.current.Append(&ir.FieldStore{
			Instance: instance, OwnerIL: string(op.FieldOperand.Owner), FieldName: op.FieldOperand.Name,
			Native: l.Mapper.ProjectField(op.FieldOperand.Name), Value: val,
		})
	case loader.OpLdSFld:
		fieldIL := l.fieldType(op.FieldOperand)
		dest := f.newTemp()
		f.current.Append(&ir.StaticFieldLoad{
			Dest: dest, OwnerIL: string(op.FieldOperand.Owner), FieldName: op.FieldOperand.Name,
			Native: staticFieldNative(l.Mapper, *op.FieldOperand),
		})
		f.push(ir.Operand{Text: dest, ILType: fieldIL})
	case loader.OpStSFld:
		val := f.pop()
		f.current.Append(&ir.StaticFieldStore{
			OwnerIL: string(op.FieldOperand.Owner), FieldName: op.FieldOperand.Name,
			Native: staticFieldNative(l.Mapper, *op.FieldOperand), Value: val,
		})
	case loader.OpLdFlda:
		instance := f.pop()
		dest := f.newTemp()
		f.current.Append(&ir.FieldAddr{
			Dest: dest, Instance: instance, OwnerIL: string(op.FieldOperand.Owner),
			FieldName: op.FieldOperand.Name, Native: l.Mapper.ProjectField(op.FieldOperand.Name),
		})
		f.push(ir.Operand{Text: dest, ILType: l.fieldType(op.FieldOperand) + "&"})
	case loader.OpLdSFlda:
		dest := f.newTemp()
		f.current.Append(&ir.FieldAddr{
			Dest: dest, OwnerIL: string(op.FieldOperand.Owner), FieldName: op.FieldOperand.Name,
			Native: staticFieldNative(l.Mapper, *op.FieldOperand),
		})
		f.push(ir.Operand{Text: dest, ILType: l.fieldType(op.FieldOperand) + "&"})

	case loader.OpCall, loader.OpCallVirt:
		return l.liftCall(f, op)
	case loader.OpNewObj:
		return l.liftNewObject(f, op)
	case loader.OpLdFtn, loader.OpLdVirtFtn:
		if op.Code == loader.OpLdVirtFtn {
			f.pop() // the object whose virtual method is looked up
		}
		ref := op.MethodOperand
		if ref == nil {
			return fmt.Errorf("%s without a method operand", op.Code)
		}
		dest := f.newTemp()
		native := l.Mapper.ProjectMethod(l.Mapper.ProjectType(string(ref.Owner), true), ref.Name)
		f.current.Append(&ir.RawTargetText{Dest: dest, Text: "(intptr_t)&" + native})
		f.push(ir.Operand{Text: dest, ILType: "System.IntPtr"})

	case loader.OpNewArr:
		length := f.pop()
		elemIL := string(*op.TypeOperand)
		dest := f.newTemp()
		f.current.Append(&ir.NewArray{Dest: dest, ElemIL: elemIL, Native: l.Mapper.ProjectForDeclaration(elemIL), Length: length})
		f.push(ir.Operand{Text: dest, ILType: elemIL + "[]"})
	case loader.OpLdElemAny:
		index, array := f.pop(), f.pop()
		elemIL := strings.TrimSuffix(array.ILType, "[]")
		dest := f.newTemp()
		f.current.Append(&ir.ArrayElemLoad{Dest: dest, Array: array, Index: index, ElemIL: elemIL})
		f.push(ir.Operand{Text: dest, ILType: elemIL})
	case loader.OpStElemAny:
		value, index, array := f.pop(), f.pop(), f.pop()
		elemIL := strings.TrimSuffix(array.ILType, "[]")
		f.current.Append(&ir.ArrayElemStore{Array: array, Index: index, Value: value, ElemIL: elemIL})
	case loader.OpLdElema:
		index, array := f.pop(), f.pop()
		elemIL := strings.TrimSuffix(array.ILType, "[]")
		dest := f.newTemp()
		f.current.Append(&ir.ArrayElemAddr{Dest: dest, Array: array, Index: index, ElemIL: elemIL})
		f.push(ir.Operand{Text: dest, ILType: elemIL + "&"})

	case loader.OpCastClass, loader.OpIsInst, loader.OpBox, loader.OpUnbox, loader.OpUnboxAny:
		value := f.pop()
		toIL := string(*op.TypeOperand)
		dest := f.newTemp()
		f.current.Append(&ir.Cast{Dest: dest, Kind: castKind(op.Code), Value: value, ToIL: toIL, Native: l.Mapper.ProjectForDeclaration(toIL)})
		f.push(ir.Operand{Text: dest, ILType: toIL})

	case loader.OpInitObj:
		addr := f.pop()
		toIL := string(*op.TypeOperand)
		f.current.Append(&ir.RawTargetText{Text: "*" + addr.Text + " = " + l.Mapper.DefaultLiteral(toIL)})
	case loader.OpLdObj:
		addr := f.pop()
		toIL := string(*op.TypeOperand)
		dest := f.newTemp()
		f.current.Append(&ir.RawTargetText{Dest: dest, Text: "*" + addr.Text})
		f.push(ir.Operand{Text: dest, ILType: toIL})
	case loader.OpStObj:
		value := f.pop()
		addr := f.pop()
		f.current.Append(&ir.RawTargetText{Text: "*" + addr.Text + " = " + value.Text})
	case loader.OpSizeOf:
		toIL := string(*op.TypeOperand)
		dest := f.newTemp()
		f.current.Append(&ir.RawTargetText{Dest: dest, Text: "sizeof(" + l.Mapper.ProjectForDeclaration(toIL) + ")"})
		f.push(ir.Operand{Text: dest, ILType: "System.Int32"})
	case loader.OpConstrained:
		// Prefix instruction: the following call/callvirt is lifted as an
		// ordinary call against the constrained type's own method. Boxing
		// the receiver when the constrained type turns out to be a value
		// type implementing the interface is left to the interception
		// tables, which already special-case the generic-constraint
		// built-ins (EqualityComparer<T>).

	case loader.OpLdToken:
		dest := f.newTemp()
		var text string
		switch op.TokenKind {
		case loader.TokenMethod:
			text = "/* methodof */ nullptr"
		case loader.TokenField:
			text = "/* fieldof */ nullptr"
		default:
			text = "/* typeof */ nullptr"
		}
		f.current.Append(&ir.RawTargetText{Dest: dest, Text: text})
		f.push(ir.Operand{Text: dest, ILType: "System.RuntimeTypeHandle"})

	case loader.OpBr:
		f.current.Append(&ir.Branch{TargetTrue: blockLabel(op.BranchTarget)})
	case loader.OpLeave:
		f.current.Append(&ir.Leave{Target: blockLabel(op.BranchTarget)})
	case loader.OpBrTrue:
		cond := f.pop()
		f.current.Append(&ir.Branch{Cond: cond, TargetTrue: blockLabel(op.BranchTarget), TargetFalse: blockLabel(idx + 1)})
	case loader.OpBrFalse:
		cond := f.pop()
		f.current.Append(&ir.Branch{Cond: cond, Negate: true, TargetTrue: blockLabel(op.BranchTarget), TargetFalse: blockLabel(idx + 1)})
	case loader.OpBeq, loader.OpBne, loader.OpBlt, loader.OpBgt, loader.OpBle, loader.OpBge:
		rhs, lhs := f.pop(), f.pop()
		cond := ir.Operand{Text: "(" + lhs.Text + " " + compareOperator(op.Code) + " " + rhs.Text + ")"}
		f.current.Append(&ir.Branch{Cond: cond, TargetTrue: blockLabel(op.BranchTarget), TargetFalse: blockLabel(idx + 1)})

	case loader.OpRet:
		if f.mi.ReturnType != "" && f.mi.ReturnType != "System.Void" {
			f.current.Append(&ir.Return{Value: f.pop()})
		} else {
			f.current.Append(&ir.Return{})
		}
	case loader.OpThrow:
		f.current.Append(&ir.Throw{Value: f.pop()})
	case loader.OpRethrow:
		f.current.Append(&ir.Throw{})
	case loader.OpEndFinally:
		f.current.Append(&ir.EndFinally{})

	default:
		return fmt.Errorf("unknown opcode %s", op.Code)
	}
	return nil
}

func (l *Lifter) liftCall(f *frame, op loader.Op) error {
	ref := op.MethodOperand
	if ref == nil {
		return fmt.Errorf("call without a method operand")
	}
	owner, name, sig := string(ref.Owner), ref.Name, ref.Signature

	if arity, hasThis, returnIL, ok := l.Intercept.MatchCall(owner, name, sig); ok {
		l.recordIntercepted(owner)
		n := arity
		if hasThis {
			n++
		}
		args := f.popN(n)
		dest := ""
		if returnIL != "" && returnIL != "System.Void" {
			dest = f.newTemp()
		}
		f.current.Append(l.Intercept.EmitCall(owner, name, args, dest))
		if dest != "" {
			f.push(ir.Operand{Text: dest, ILType: returnIL})
		}
		return nil
	}

	mi, hasInfo := l.lookupMethod(ref.Owner, name, sig)
	paramCount := len(mi.Params)
	hasThis := mi.HasThis
	returnIL := string(mi.ReturnType)
	if !hasInfo {
		paramCount = countSignatureParams(sig)
		hasThis = !mi.IsStatic
	}

	args := f.popN(paramCount)
	if hasThis {
		args = append([]ir.Operand{f.pop()}, args...)
	}

	ownerNative := l.Mapper.ProjectType(owner, true)
	dest := ""
	if returnIL != "" && returnIL != "System.Void" {
		dest = f.newTemp()
	}
	f.current.Append(&ir.Call{
		Dest: dest, OwnerIL: owner, MethodName: name, HasThis: hasThis,
		Native: l.Mapper.ProjectMethod(ownerNative, name), Args: args,
	})
	if dest != "" {
		f.push(ir.Operand{Text: dest, ILType: returnIL})
	}
	return nil
}

func (l *Lifter) liftNewObject(f *frame, op loader.Op) error {
	ref := op.MethodOperand
	if ref == nil {
		return fmt.Errorf("newobj without a method operand")
	}
	owner := string(ref.Owner)

	if arity, ok := l.Intercept.MatchNewObject(owner, ref.Signature); ok {
		l.recordIntercepted(owner)
		args := f.popN(arity)
		dest := f.newTemp()
		f.current.Append(l.Intercept.EmitNewObject(owner, args, dest))
		f.push(ir.Operand{Text: dest, ILType: owner})
		return nil
	}

	mi, hasInfo := l.lookupMethod(ref.Owner, ref.Name, ref.Signature)
	paramCount := len(mi.Params)
	if !hasInfo {
		paramCount = countSignatureParams(ref.Signature)
	}
	args := f.popN(paramCount)

	native := l.Mapper.ProjectType(owner, true)
	dest := f.newTemp()
	f.current.Append(&ir.NewObject{
		Dest: dest, OwnerIL: owner, Native: native,
		Ctor: l.Mapper.ProjectMethod(native, ref.Name), Args: args,
	})
	f.push(ir.Operand{Text: dest, ILType: owner})
	return nil
}

func (l *Lifter) lookupMethod(owner loader.TypeRef, name, signature string) (loader.MethodInfo, bool) {
	for _, mi := range l.Source.MethodsOf(owner) {
		if mi.Name == name && mi.Signature == signature {
			return mi, true
		}
	}
	return loader.MethodInfo{}, false
}

func (l *Lifter) fieldType(ref *loader.FieldRef) string {
	for _, fi := range l.Source.FieldsOf(ref.Owner) {
		if fi.Name == ref.Name {
			return string(fi.ILTypeName)
		}
	}
	return ""
}

func staticFieldNative(mapper *ilname.Mapper, ref loader.FieldRef) string {
	owner := mapper.ProjectType(string(ref.Owner), true)
	return owner + "::" + mapper.ProjectField(ref.Name)
}

func (f *frame) argName(idx int) string {
	if f.mi.HasThis && idx == 0 {
		return "this"
	}
	return "arg_" + strconv.Itoa(idx)
}

func (f *frame) argType(idx int) string {
	offset := 0
	if f.mi.HasThis {
		if idx == 0 {
			return string(f.owner.ILName)
		}
		offset = 1
	}
	paramIdx := idx - offset
	if paramIdx >= 0 && paramIdx < len(f.mi.Params) {
		return string(f.mi.Params[paramIdx].ILTypeName)
	}
	return ""
}

func localName(idx int) string { return "loc_" + strconv.Itoa(idx) }

func localType(body loader.Body, idx int) string {
	if idx >= 0 && idx < len(body.LocalTypes) {
		return string(body.LocalTypes[idx])
	}
	return ""
}

func isComparison(code loader.OpCode) bool {
	return code == loader.OpCeq || code == loader.OpCgt || code == loader.OpClt
}

func binaryOperator(code loader.OpCode) string {
	switch code {
	case loader.OpAdd:
		return "+"
	case loader.OpSub:
		return "-"
	case loader.OpMul:
		return "*"
	case loader.OpDiv:
		return "/"
	case loader.OpRem:
		return "%"
	case loader.OpAnd:
		return "&"
	case loader.OpOr:
		return "|"
	case loader.OpXor:
		return "^"
	case loader.OpShl:
		return "<<"
	case loader.OpShr:
		return ">>"
	case loader.OpCeq:
		return "=="
	case loader.OpCgt:
		return ">"
	case loader.OpClt:
		return "<"
	}
	return "?"
}

func compareOperator(code loader.OpCode) string {
	switch code {
	case loader.OpBeq:
		return "=="
	case loader.OpBne:
		return "!="
	case loader.OpBlt:
		return "<"
	case loader.OpBgt:
		return ">"
	case loader.OpBle:
		return "<="
	case loader.OpBge:
		return ">="
	}
	return "?"
}

func castKind(code loader.OpCode) ir.CastKind {
	switch code {
	case loader.OpCastClass:
		return ir.CastClass
	case loader.OpIsInst:
		return ir.CastIsInst
	case loader.OpBox:
		return ir.CastBox
	case loader.OpUnbox:
		return ir.CastUnbox
	default:
		return ir.CastUnboxAny
	}
}

// countSignatureParams is the fallback used when a call or newobj targets a
// method the loader cannot enumerate (an external type outside the loaded
// assembly set) and no interception handler claims it either: the IL
// signature text itself — "(T1,T2,...)" — is the only remaining source of
// arity, so it is split on top-level commas (bracket-depth aware, since a
// parameter type may itself be a generic instantiation containing commas).
func countSignatureParams(signature string) int {
	inner := strings.TrimSuffix(strings.TrimPrefix(signature, "("), ")")
	if inner == "" {
		return 0
	}
	depth := 0
	count := 1
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
