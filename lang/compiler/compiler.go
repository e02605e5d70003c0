// Package compiler implements the instruction generator of §4.5: it lowers
// the typed, cross-referenced AST of every function into a flat
// Instruction list, patching branch and loop jump targets once both arms'
// instruction counts are known.
package compiler

import (
	"fmt"

	"github.com/aaa-lang/aaa/lang/ast"
	"github.com/aaa-lang/aaa/lang/loader"
)

// Compile lowers every function body in prog to a Funcode, keyed by the
// CallTarget the interpreter resolves CallFunction instructions against. An
// AST that came out of a successful lang/checker.Check should always yield a
// valid Program; Compile does not re-validate stack effects.
func Compile(prog *loader.Program) (*Program, error) {
	out := &Program{
		Entry:     CallTarget{File: prog.Entry, Name: "main"},
		Functions: make(map[CallTarget]*Funcode),
	}

	for filename, f := range prog.Files {
		for _, fn := range f.Functions {
			if fn.Body == nil {
				continue
			}
			target := CallTarget{File: filename, Name: fn.NameKey()}
			fc, err := compileFunction(prog, filename, fn)
			if err != nil {
				return nil, err
			}
			out.Functions[target] = fc
		}
	}
	return out, nil
}

func compileFunction(prog *loader.Program, filename string, fn *ast.Function) (*Funcode, error) {
	argNames := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		argNames[i] = a.Name
	}

	fc := &gen{prog: prog, filename: filename, fn: fn}
	fc.body(fn.Body)

	return &Funcode{
		File:         filename,
		Name:         fn.NameKey(),
		ArgNames:     argNames,
		Instructions: fc.instructions,
	}, nil
}

// gen holds the in-progress instruction list for one function body.
type gen struct {
	prog         *loader.Program
	filename     string
	fn           *ast.Function
	instructions []Instruction
}

func (g *gen) emit(in Instruction) int {
	g.instructions = append(g.instructions, in)
	return len(g.instructions) - 1
}

func (g *gen) here() int { return len(g.instructions) }

// patch sets the Target of the jump instruction at idx to the generator's
// current position.
func (g *gen) patch(idx int) {
	g.instructions[idx].Target = g.here()
}

func (g *gen) body(b *ast.Body) {
	if b == nil {
		return
	}
	for _, item := range b.Items {
		g.item(item)
	}
}

func (g *gen) item(item ast.BodyItem) {
	switch it := item.(type) {
	case *ast.IntegerLiteral:
		g.emit(Instruction{Op: PushInt, IntArg: it.Value})
	case *ast.StringLiteral:
		g.emit(Instruction{Op: PushString, StrArg: it.Value})
	case *ast.BooleanLiteral:
		arg := int64(0)
		if it.Value {
			arg = 1
		}
		g.emit(Instruction{Op: PushBool, IntArg: arg})
	case *ast.Operator:
		g.operator(it)
	case *ast.Identifier:
		g.identifier(it)
	case *ast.TypeLiteral:
		g.emit(Instruction{Op: NewStruct, StrArg: it.Type.Name})
	case *ast.MemberFunction:
		g.emit(Instruction{Op: CallFunction, Call: g.memberFunctionTarget(it)})
	case *ast.Branch:
		g.branch(it)
	case *ast.Loop:
		g.loop(it)
	case *ast.StructFieldQuery:
		g.emit(Instruction{Op: FieldQuery, StrArg: it.Field})
	case *ast.StructFieldUpdate:
		g.body(it.NewValueExpr)
		g.emit(Instruction{Op: FieldUpdate, StrArg: it.Field})
	default:
		panic(fmt.Sprintf("compiler: unhandled body item %T", it))
	}
}

var operatorOpcodes = map[string]Opcode{
	"-":    Minus,
	"*":    Multiply,
	"/":    Divide,
	"%":    Modulo,
	"=":    Equals,
	"!=":   NotEqual,
	"<":    Less,
	"<=":   LessEq,
	">":    Greater,
	">=":   GreaterEq,
	"and":  And,
	"or":   Or,
	"not":  Not,
	".":    Print,
	"drop": Drop,
	"dup":  Dup,
	"swap": Swap,
	"over": Over,
	"rot":  Rot,
}

func (g *gen) operator(op *ast.Operator) {
	if op.Name == "+" {
		if op.ResolvedOperandType == "str" {
			g.emit(Instruction{Op: Concat})
		} else {
			g.emit(Instruction{Op: Plus})
		}
		return
	}
	opcode, ok := operatorOpcodes[op.Name]
	if !ok {
		panic(fmt.Sprintf("compiler: unknown operator %q", op.Name))
	}
	g.emit(Instruction{Op: opcode})
}

func (g *gen) identifier(id *ast.Identifier) {
	b, ok := id.Binding.(*loader.Binding)
	if !ok || b == nil {
		panic(fmt.Sprintf("compiler: %q has no binding; lang/loader must run first", id.Name))
	}

	switch b.Kind {
	case loader.BindArgument:
		g.emit(Instruction{Op: PushArg, IntArg: g.argIndex(b.Arg)})
	case loader.BindLocalStruct:
		// A bare struct name in a body constructs a fresh, field-empty
		// instance of that struct, to be filled in by FieldUpdate.
		g.emit(Instruction{Op: NewStruct, StrArg: b.Struct.Name})
	case loader.BindBuiltin:
		if op, ok := builtinOpcodes[b.Function.NameKey()]; ok {
			// substr/strlen are declared in builtins.aaa like ordinary
			// functions (so lang/checker validates their call sites the same
			// way it validates any other call), but the machine executes
			// them as direct opcodes rather than pushing a frame for them
			// (§4.6: "if the target is a builtin, the builtin handler runs
			// synchronously ... no frame is pushed").
			g.emit(Instruction{Op: op})
			return
		}
		g.emit(Instruction{Op: CallFunction, Call: CallTarget{File: b.File, Name: b.Function.NameKey()}})
	default: // BindLocalFunction, BindImportedFunction
		g.emit(Instruction{Op: CallFunction, Call: CallTarget{File: b.File, Name: b.Function.NameKey()}})
	}
}

// builtinOpcodes are the builtins.aaa signatures that compile straight to a
// dedicated opcode instead of a CallFunction: the ones spec.md's Instruction
// enum itself names (Substr, StrLen). Any other declared builtin compiles to
// an ordinary CallFunction targeting the builtins file, dispatched by
// lang/machine's builtin table at run time.
var builtinOpcodes = map[string]Opcode{
	"substr": Substr,
	"strlen": StrLen,
}

// memberFunctionTarget resolves mf.Type:mf.Func to its declaring file, the
// same lookup lang/checker.checkMemberFunction performs: ast.MemberFunction
// carries no Binding, so resolution happens here, independently, against
// every loaded file, falling back to the builtins file for bodyless member
// functions such as vec:push or map:get.
func (g *gen) memberFunctionTarget(mf *ast.MemberFunction) CallTarget {
	key := mf.Type + ":" + mf.Func
	for filename, f := range g.prog.Files {
		for _, fn := range f.Functions {
			if fn.NameKey() == key {
				return CallTarget{File: filename, Name: key}
			}
		}
	}
	if g.prog.Builtins != nil {
		for _, fn := range g.prog.Builtins.Functions {
			if fn.NameKey() == key {
				return CallTarget{File: g.prog.BuiltinFile(), Name: key}
			}
		}
	}
	panic(fmt.Sprintf("compiler: %s has no declaring file; lang/checker must run first", key))
}

// argIndex finds arg's position among the current function's arguments.
// loader.Binding carries the *ast.Arg itself, not its index, so this walks
// the (short) declared argument list by identity.
func (g *gen) argIndex(arg *ast.Arg) int64 {
	for i, a := range g.fn.Args {
		if a == arg {
			return int64(i)
		}
	}
	panic("compiler: argument binding not found among its own function's args")
}

func (g *gen) branch(br *ast.Branch) {
	g.body(br.Condition)
	jumpToElse := g.emit(Instruction{Op: JumpIfFalse})
	g.body(br.IfBody)
	jumpToEnd := g.emit(Instruction{Op: Jump})
	g.patch(jumpToElse)
	g.body(br.ElseBody)
	g.patch(jumpToEnd)
}

func (g *gen) loop(lp *ast.Loop) {
	start := g.here()
	g.body(lp.Condition)
	jumpToEnd := g.emit(Instruction{Op: JumpIfFalse})
	g.body(lp.Body)
	g.emit(Instruction{Op: Jump, Target: start})
	g.patch(jumpToEnd)
}
