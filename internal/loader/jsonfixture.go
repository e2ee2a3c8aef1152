package loader

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// opcodeByName is the reverse of opcodeNames, built once, used by ParseJSON
// to turn the wire format's opcode mnemonics back into OpCode values.
var opcodeByName = func() map[string]OpCode {
	m := make(map[string]OpCode, len(opcodeNames))
	for code, name := range opcodeNames {
		m[name] = code
	}
	return m
}()

// ParseJSON builds a Memory Source from the translator's JSON IL fixture
// format — a compact, human-writable stand-in for a real assembly-set dump,
// used by the CLI's demo/test commands and by this package's own tests.
// Parsing is done with gjson rather than encoding/json+structs because the
// format's instruction operand shape varies by opcode (a tagged union that
// encoding/json would otherwise need a second pass to unmarshal).
func ParseJSON(data []byte) (*Memory, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("loader: invalid JSON fixture")
	}
	root := gjson.ParseBytes(data)

	rootAssembly := root.Get("root").String()
	if rootAssembly == "" {
		return nil, fmt.Errorf("loader: fixture is missing required \"root\" assembly name")
	}
	mem := NewMemory(rootAssembly)

	for _, a := range root.Get("assemblies").Array() {
		mem.AddAssembly(a.String())
	}

	var parseErr error
	root.Get("types").ForEach(func(_, t gjson.Result) bool {
		info := TypeInfo{
			ILName:               TypeRef(t.Get("il").String()),
			Namespace:            t.Get("namespace").String(),
			IsValueType:          t.Get("isValueType").Bool(),
			IsSealed:             t.Get("isSealed").Bool(),
			IsInterface:          t.Get("isInterface").Bool(),
			IsPublic:             t.Get("isPublic").Bool(),
			HasGenericParameters: t.Get("hasGenericParameters").Bool(),
			BaseType:             TypeRef(t.Get("baseType").String()),
		}
		for _, i := range t.Get("interfaces").Array() {
			info.Interfaces = append(info.Interfaces, TypeRef(i.String()))
		}
		for _, n := range t.Get("nestedTypes").Array() {
			info.NestedTypes = append(info.NestedTypes, TypeRef(n.String()))
		}
		assembly := t.Get("assembly").String()
		if assembly == "" {
			assembly = rootAssembly
		}
		mem.AddType(assembly, info)

		for _, f := range t.Get("fields").Array() {
			mem.AddField(info.ILName, FieldInfo{
				Name:       f.Get("name").String(),
				ILTypeName: TypeRef(f.Get("type").String()),
				IsStatic:   f.Get("isStatic").Bool(),
				IsPublic:   f.Get("isPublic").Bool(),
			})
		}

		for _, meth := range t.Get("methods").Array() {
			mi := MethodInfo{
				Name:          meth.Get("name").String(),
				Signature:     meth.Get("signature").String(),
				ReturnType:    TypeRef(meth.Get("returnType").String()),
				HasThis:       meth.Get("hasThis").Bool(),
				IsConstructor: meth.Get("isConstructor").Bool(),
				IsStatic:      meth.Get("isStatic").Bool(),
				IsVirtual:     meth.Get("isVirtual").Bool(),
				IsPublic:      meth.Get("isPublic").Bool(),
				IsFamily:      meth.Get("isFamily").Bool(),
			}
			for _, p := range meth.Get("params").Array() {
				mi.Params = append(mi.Params, ParamInfo{
					Name:       p.Get("name").String(),
					ILTypeName: TypeRef(p.Get("type").String()),
				})
			}
			mem.AddMethod(info.ILName, mi)

			ref := MethodRef{Owner: info.ILName, Name: mi.Name, Signature: mi.Signature}
			body := Body{}
			meth.Get("body").ForEach(func(_, op gjson.Result) bool {
				parsedOp, err := parseOp(op)
				if err != nil {
					parseErr = err
					return false
				}
				body.Instructions = append(body.Instructions, parsedOp)
				return true
			})
			if parseErr != nil {
				return false
			}
			mem.SetBody(ref, body)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if ep := root.Get("entryPoint"); ep.Exists() {
		mem.SetEntryPoint(MethodRef{
			Owner:     TypeRef(ep.Get("owner").String()),
			Name:      ep.Get("name").String(),
			Signature: ep.Get("signature").String(),
		})
	}

	return mem, nil
}

func parseOp(j gjson.Result) (Op, error) {
	name := j.Get("op").String()
	code, ok := opcodeByName[name]
	if !ok {
		return Op{}, fmt.Errorf("loader: unknown opcode %q in fixture", name)
	}
	op := Op{Code: code}

	if MethodOperandOps[code] {
		op.MethodOperand = &MethodRef{
			Owner:     TypeRef(j.Get("owner").String()),
			Name:      j.Get("method").String(),
			Signature: j.Get("signature").String(),
		}
	}
	if TypeOperandOps[code] {
		tr := TypeRef(j.Get("type").String())
		op.TypeOperand = &tr
	}
	if FieldOperandOps[code] {
		op.FieldOperand = &FieldRef{
			Owner: TypeRef(j.Get("owner").String()),
			Name:  j.Get("field").String(),
		}
	}
	if code == OpLdToken {
		switch j.Get("kind").String() {
		case "method":
			op.TokenKind = TokenMethod
			op.MethodOperand = &MethodRef{
				Owner:     TypeRef(j.Get("owner").String()),
				Name:      j.Get("method").String(),
				Signature: j.Get("signature").String(),
			}
		case "field":
			op.TokenKind = TokenField
			op.FieldOperand = &FieldRef{
				Owner: TypeRef(j.Get("owner").String()),
				Name:  j.Get("field").String(),
			}
		default:
			op.TokenKind = TokenType
			tr := TypeRef(j.Get("type").String())
			op.TypeOperand = &tr
		}
	}

	op.IntOperand = j.Get("int").Int()
	op.FloatOperand = j.Get("float").Float()
	op.StringOperand = j.Get("str").String()
	op.LocalIndex = int(j.Get("local").Int())
	op.ArgIndex = int(j.Get("arg").Int())
	op.BranchTarget = int(j.Get("target").Int())
	op.BranchTargetFalse = int(j.Get("targetFalse").Int())

	return op, nil
}
