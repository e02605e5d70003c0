// Package checker implements the stack-effect type checker of §4.4: for
// every function it replays the body against a synthetic stack of type
// names, starting empty, and requires the result to match the declared
// return types exactly. Arguments are bound names rather than pre-pushed
// stack slots: each reference to one pushes its type afresh, so a body may
// use an argument any number of times.
package checker

import (
	"strings"

	"github.com/aaa-lang/aaa/lang/ast"
	"github.com/aaa-lang/aaa/lang/diag"
	"github.com/aaa-lang/aaa/lang/loader"
	"github.com/aaa-lang/aaa/lang/token"
)

// typeStack is the synthetic stack of type names the checker pushes and pops
// while replaying a function body. A name is "int", "bool", "str", a struct
// name, a generic instantiation such as "vec[int]", or (only while checking
// the body of a generic function itself) one of that function's own
// type-parameter names.
type typeStack []string

func (s *typeStack) push(name string) { *s = append(*s, name) }

func (s *typeStack) pop() (string, bool) {
	n := len(*s)
	if n == 0 {
		return "", false
	}
	v := (*s)[n-1]
	*s = (*s)[:n-1]
	return v, true
}

func cloneStack(s typeStack) typeStack {
	c := make(typeStack, len(s))
	copy(c, s)
	return c
}

func equalStacks(a, b typeStack) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Check type-checks every function body reachable from prog, accumulating
// every diagnostic across every file before returning, per §7's propagation
// policy.
func Check(prog *loader.Program) error {
	c := &checker{prog: prog}
	for filename, f := range prog.Files {
		c.structsByFile(f) // populate c.structs for this file's lookups below
		for _, fn := range f.Functions {
			if fn.Body == nil {
				continue
			}
			c.checkFunction(filename, f, fn)
		}
	}
	return c.errs.Err()
}

type checker struct {
	prog    *loader.Program
	errs    diag.List
	structs map[string]*ast.Struct // current file's structs, by name
}

func (c *checker) structsByFile(f *ast.File) {
	c.structs = make(map[string]*ast.Struct, len(f.Structs))
	for _, s := range f.Structs {
		c.structs[s.Name] = s
	}
}

func (c *checker) checkFunction(filename string, f *ast.File, fn *ast.Function) {
	c.structsByFile(f)

	// Arguments are bound names, not pre-pushed stack slots: the checked
	// stack starts empty and each Identifier reference to an argument
	// pushes that argument's type (see checkIdentifier), so a function can
	// reference the same argument any number of times.
	var st typeStack

	c.checkBody(filename, fn, &st, fn.Body)

	want := make(typeStack, len(fn.ReturnTypes))
	for i, rt := range fn.ReturnTypes {
		want[i] = typeName(rt)
	}
	if !equalStacks(st, want) {
		c.errs.Add(c.prog.Pos(filename, fn.Pos), diag.StackTypesError,
			"%s: expected final stack %v, got %v", fn.NameKey(), []string(want), []string(st))
	}
}

func (c *checker) checkBody(filename string, fn *ast.Function, st *typeStack, body *ast.Body) {
	for _, item := range body.Items {
		c.checkItem(filename, fn, st, item)
	}
}

func (c *checker) checkItem(filename string, fn *ast.Function, st *typeStack, item ast.BodyItem) {
	switch it := item.(type) {
	case *ast.IntegerLiteral:
		st.push("int")
	case *ast.StringLiteral:
		st.push("str")
	case *ast.BooleanLiteral:
		st.push("bool")
	case *ast.TypeLiteral:
		st.push(typeName(it.Type))
	case *ast.Operator:
		c.checkOperator(filename, it, st)
	case *ast.Identifier:
		c.checkIdentifier(filename, it, st)
	case *ast.MemberFunction:
		c.checkMemberFunction(filename, it, st)
	case *ast.Branch:
		c.checkBranch(filename, fn, it, st)
	case *ast.Loop:
		c.checkLoop(filename, fn, it, st)
	case *ast.StructFieldQuery:
		c.checkFieldQuery(filename, it, st)
	case *ast.StructFieldUpdate:
		c.checkFieldUpdate(filename, it, st)
	}
}

func (c *checker) checkOperator(filename string, op *ast.Operator, st *typeStack) {
	if polymorphicOperators[op.Name] {
		c.checkPolymorphicOperator(filename, op, st)
		return
	}

	sigs, ok := operatorSigs[op.Name]
	if !ok {
		c.errs.Add(c.prog.Pos(filename, op.Pos), diag.StackTypesError, "unknown operator %q", op.Name)
		return
	}

	depth := len(sigs[0].Args)
	if len(*st) < depth {
		c.errs.Add(c.prog.Pos(filename, op.Pos), diag.StackTypesError,
			"%q: not enough values on the stack", op.Name)
		return
	}
	got := append([]string{}, (*st)[len(*st)-depth:]...)

	for _, s := range sigs {
		if equalArgs(s.Args, got) {
			if op.Name == "+" {
				op.ResolvedOperandType = s.Args[0]
			}
			*st = (*st)[:len(*st)-depth]
			for _, r := range s.Returns {
				st.push(r)
			}
			return
		}
	}
	c.errs.Add(c.prog.Pos(filename, op.Pos), diag.StackTypesError,
		"%q: no overload matches operand types %v", op.Name, got)
}

func equalArgs(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

// checkPolymorphicOperator handles dup/drop/swap/over/rot/"." — effects that
// apply to any type(s) already on the stack.
func (c *checker) checkPolymorphicOperator(filename string, op *ast.Operator, st *typeStack) {
	pop := func() string {
		v, ok := st.pop()
		if !ok {
			c.errs.Add(c.prog.Pos(filename, op.Pos), diag.StackTypesError,
				"%q: not enough values on the stack", op.Name)
		}
		return v
	}

	switch op.Name {
	case ".", "drop":
		pop()
	case "dup":
		a := pop()
		st.push(a)
		st.push(a)
	case "swap":
		b, a := pop(), pop()
		st.push(b)
		st.push(a)
	case "over":
		b, a := pop(), pop()
		st.push(a)
		st.push(b)
		st.push(a)
	case "rot":
		c3, b, a := pop(), pop(), pop()
		st.push(b)
		st.push(c3)
		st.push(a)
	}
}

func (c *checker) checkIdentifier(filename string, id *ast.Identifier, st *typeStack) {
	b, ok := id.Binding.(*loader.Binding)
	if !ok || b == nil {
		return // unbound identifier already reported by lang/loader
	}

	switch b.Kind {
	case loader.BindArgument:
		st.push(typeName(b.Arg.Type))
	case loader.BindLocalStruct:
		st.push(b.Struct.Name)
	default: // function call: BindLocalFunction, BindImportedFunction, BindBuiltin
		c.checkCall(filename, id.Pos, b.Function, st)
	}
}

func (c *checker) checkMemberFunction(filename string, mf *ast.MemberFunction, st *typeStack) {
	// Member functions are looked up by receiver type and name across every
	// loaded file; the parser only records the type/method names, so
	// lang/checker does the lookup the loader does for plain identifiers.
	var callee *ast.Function
	for _, f := range c.prog.Files {
		for _, fn := range f.Functions {
			if fn.MemberOfType == mf.Type && fn.Name == mf.Func {
				callee = fn
				break
			}
		}
		if callee != nil {
			break
		}
	}
	// Member functions with no body, such as vec:push or map:get, are
	// declared in the builtins file rather than any regular File.
	if callee == nil && c.prog.Builtins != nil {
		for _, fn := range c.prog.Builtins.Functions {
			if fn.MemberOfType == mf.Type && fn.Name == mf.Func {
				callee = fn
				break
			}
		}
	}
	if callee == nil {
		if c.structs[mf.Type] == nil {
			c.errs.Add(c.prog.Pos(filename, mf.Pos), diag.UnknownStruct, "unknown struct %q", mf.Type)
			return
		}
		c.errs.Add(c.prog.Pos(filename, mf.Pos), diag.InvalidMemberFunction,
			"%s:%s is not a declared member function", mf.Type, mf.Func)
		return
	}
	c.checkCall(filename, mf.Pos, callee, st)
}

// checkCall applies callee's signature: pops its argument types off st (last
// argument first, since it is pushed last and sits on top), binding any of
// callee's own type-parameter names to the concrete types found, then pushes
// callee's return types with those bindings substituted in.
func (c *checker) checkCall(filename string, at token.Pos, callee *ast.Function, st *typeStack) {
	placeholders := make(map[string]bool, len(callee.TypeParams))
	for _, p := range callee.TypeParams {
		placeholders[p] = true
	}
	bound := make(map[string]string, len(callee.TypeParams))

	for i := len(callee.Args) - 1; i >= 0; i-- {
		want := typeName(callee.Args[i].Type)
		got, ok := st.pop()
		if !ok {
			c.errs.Add(c.prog.Pos(filename, at), diag.StackTypesError,
				"%s: not enough values on the stack", callee.NameKey())
			return
		}
		if placeholders[want] {
			if prev, ok := bound[want]; ok && prev != got {
				c.errs.Add(c.prog.Pos(filename, at), diag.StackTypesError,
					"%s: type parameter %q bound to both %q and %q", callee.NameKey(), want, prev, got)
			}
			bound[want] = got
			continue
		}
		if want != got {
			c.errs.Add(c.prog.Pos(filename, at), diag.StackTypesError,
				"%s: argument %d expected %q, got %q", callee.NameKey(), i+1, want, got)
		}
	}

	for _, rt := range callee.ReturnTypes {
		name := typeName(rt)
		if v, ok := bound[name]; ok {
			name = v
		}
		st.push(name)
	}
}

func (c *checker) checkBranch(filename string, fn *ast.Function, br *ast.Branch, st *typeStack) {
	cond, ok := st.pop()
	if !ok || cond != "bool" {
		c.errs.Add(c.prog.Pos(filename, br.Pos), diag.BranchTypeError,
			"if: condition must leave a single bool on top of the stack, got %q", cond)
	}

	ifSt := cloneStack(*st)
	c.checkBody(filename, fn, &ifSt, br.IfBody)

	elseSt := cloneStack(*st)
	if br.ElseBody != nil {
		c.checkBody(filename, fn, &elseSt, br.ElseBody)
	}

	if !equalStacks(ifSt, elseSt) {
		c.errs.Add(c.prog.Pos(filename, br.Pos), diag.BranchTypeError,
			"if/else arms leave different stacks: %v vs %v", []string(ifSt), []string(elseSt))
	}
	*st = ifSt
}

func (c *checker) checkLoop(filename string, fn *ast.Function, lp *ast.Loop, st *typeStack) {
	cond, ok := st.pop()
	if !ok || cond != "bool" {
		c.errs.Add(c.prog.Pos(filename, lp.Pos), diag.LoopTypeError,
			"while: condition must leave a single bool on top of the stack, got %q", cond)
		return
	}

	before := cloneStack(*st)
	after := cloneStack(before)
	c.checkBody(filename, fn, &after, lp.Body)

	top, ok := after.pop()
	if !ok || top != "bool" {
		c.errs.Add(c.prog.Pos(filename, lp.Pos), diag.LoopTypeError,
			"while: body must leave a single bool on top of the stack for the next iteration check, got %q", top)
		*st = before
		return
	}
	if !equalStacks(after, before) {
		c.errs.Add(c.prog.Pos(filename, lp.Pos), diag.LoopTypeError,
			"while: body is not stack-neutral: started at %v, ended at %v", []string(before), []string(after))
	}
	*st = before
}

// structNameParts splits a (possibly generic) struct type name such as
// "vec[int]" into its base name and instantiated parameter names.
func structNameParts(name string) (base string, params []string) {
	i := strings.IndexByte(name, '[')
	if i < 0 {
		return name, nil
	}
	base = name[:i]
	inner := strings.TrimSuffix(name[i+1:], "]")
	if inner == "" {
		return base, nil
	}
	return base, strings.Split(inner, ",")
}

func (c *checker) checkFieldQuery(filename string, q *ast.StructFieldQuery, st *typeStack) {
	structType, ok := st.pop()
	if !ok {
		c.errs.Add(c.prog.Pos(filename, q.Pos), diag.StackTypesError,
			"%q?: not enough values on the stack", q.Field)
		return
	}
	base, params := structNameParts(structType)
	s := c.structs[base]
	if s == nil {
		c.errs.Add(c.prog.Pos(filename, q.Pos), diag.UnknownStruct, "unknown struct %q", base)
		return
	}
	field := fieldByName(s, q.Field)
	if field == nil {
		c.errs.Add(c.prog.Pos(filename, q.Pos), diag.UnknownField, "%s has no field %q", base, q.Field)
		return
	}
	st.push(substituteStructParam(s, params, typeName(field.Type)))
}

func (c *checker) checkFieldUpdate(filename string, u *ast.StructFieldUpdate, st *typeStack) {
	newVal, ok := st.pop()
	if !ok {
		c.errs.Add(c.prog.Pos(filename, u.Pos), diag.StackTypesError,
			"%q!: not enough values on the stack", u.Field)
		return
	}
	structType, ok := st.pop()
	if !ok {
		c.errs.Add(c.prog.Pos(filename, u.Pos), diag.StackTypesError,
			"%q!: not enough values on the stack", u.Field)
		return
	}
	base, params := structNameParts(structType)
	s := c.structs[base]
	if s == nil {
		c.errs.Add(c.prog.Pos(filename, u.Pos), diag.UnknownStruct, "unknown struct %q", base)
		return
	}
	field := fieldByName(s, u.Field)
	if field == nil {
		c.errs.Add(c.prog.Pos(filename, u.Pos), diag.UnknownField, "%s has no field %q", base, u.Field)
		return
	}
	want := substituteStructParam(s, params, typeName(field.Type))
	if want != newVal {
		c.errs.Add(c.prog.Pos(filename, u.Pos), diag.StackTypesError,
			"%s.%s expected %q, got %q", base, u.Field, want, newVal)
	}
	st.push(structType)
}

func fieldByName(s *ast.Struct, name string) *ast.Field {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// substituteStructParam replaces a field's declared type, when it names one
// of s's own type parameters, with the concrete name instantiated at params'
// matching position.
func substituteStructParam(s *ast.Struct, params []string, declared string) string {
	for i, p := range s.TypeParams {
		if p == declared && i < len(params) {
			return params[i]
		}
	}
	return declared
}

// typeName renders an *ast.Type as the flat string the checker compares
// stack entries by: "int"/"str"/"bool", a struct name, a generic
// instantiation like "vec[int]", or — only meaningful while replaying the
// body of the function or struct that declares it — a type-parameter name.
func typeName(t *ast.Type) string {
	if t == nil {
		return "void"
	}
	if t.Placeholder || len(t.Params) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = typeName(p)
	}
	return t.Name + "[" + strings.Join(parts, ",") + "]"
}
