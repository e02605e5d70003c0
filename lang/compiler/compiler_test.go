package compiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aaa-lang/aaa/lang/checker"
	"github.com/aaa-lang/aaa/lang/compiler"
	"github.com/aaa-lang/aaa/lang/loader"
)

const builtinsSrc = `fn substr args s str start int stop int return str
fn strlen args s str return int
`

func load(t *testing.T, src string) *loader.Program {
	t.Helper()
	dir := t.TempDir()

	stdlib := filepath.Join(dir, "stdlib")
	require.NoError(t, os.MkdirAll(stdlib, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stdlib, "builtins.aaa"), []byte(builtinsSrc), 0o644))

	main := filepath.Join(dir, "main.aaa")
	require.NoError(t, os.WriteFile(main, []byte(src), 0o644))

	prog, err := loader.Load(main, loader.Config{StdlibPath: stdlib})
	require.NoError(t, err)
	require.NoError(t, checker.Check(prog))
	return prog
}

func entryFunc(t *testing.T, prog *compiler.Program) *compiler.Funcode {
	t.Helper()
	fc, ok := prog.Functions[prog.Entry]
	require.True(t, ok)
	return fc
}

func TestCompileArithmetic(t *testing.T) {
	prog := load(t, `fn main begin 1 2 + . end`)
	cp, err := compiler.Compile(prog)
	require.NoError(t, err)

	main := entryFunc(t, cp)
	var ops []compiler.Opcode
	for _, in := range main.Instructions {
		ops = append(ops, in.Op)
	}
	require.Equal(t, []compiler.Opcode{
		compiler.PushInt, compiler.PushInt, compiler.Plus, compiler.Print,
	}, ops)
}

func TestCompileStringConcatUsesConcatNotPlus(t *testing.T) {
	prog := load(t, `fn main begin "a" "b" + . end`)
	cp, err := compiler.Compile(prog)
	require.NoError(t, err)

	main := entryFunc(t, cp)
	require.Equal(t, compiler.Concat, main.Instructions[2].Op)
}

func TestCompileArgumentReferencePushesArg(t *testing.T) {
	prog := load(t, `
fn double args n int return int begin n n + end

fn main begin 21 double . end`)
	cp, err := compiler.Compile(prog)
	require.NoError(t, err)

	var double *compiler.Funcode
	for target, fc := range cp.Functions {
		if target.Name == "double" {
			double = fc
		}
	}
	require.NotNil(t, double)
	require.Equal(t, []compiler.Instruction{
		{Op: compiler.PushArg, IntArg: 0},
		{Op: compiler.PushArg, IntArg: 0},
		{Op: compiler.Plus},
	}, double.Instructions)
}

func TestCompileBranchJumpsPatched(t *testing.T) {
	prog := load(t, `fn main begin true if 1 . else 2 . end end`)
	cp, err := compiler.Compile(prog)
	require.NoError(t, err)

	main := entryFunc(t, cp)
	// PushBool, JumpIfFalse(->else), PushInt, Print, Jump(->end), PushInt, Print
	require.Equal(t, compiler.JumpIfFalse, main.Instructions[1].Op)
	require.Equal(t, 5, main.Instructions[1].Target)
	require.Equal(t, compiler.Jump, main.Instructions[4].Op)
	require.Equal(t, 7, main.Instructions[4].Target)
	require.Len(t, main.Instructions, 7)
}

func TestCompileLoopJumpsBackward(t *testing.T) {
	prog := load(t, `fn main begin true while false end end`)
	cp, err := compiler.Compile(prog)
	require.NoError(t, err)

	main := entryFunc(t, cp)
	// PushBool(true)[0], JumpIfFalse->end[1], PushBool(false)[2] (body),
	// Jump->1[3] (back to the loop's own condition, which here is empty, so
	// back to just after the initial PushBool).
	require.Equal(t, compiler.JumpIfFalse, main.Instructions[1].Op)
	last := main.Instructions[len(main.Instructions)-1]
	require.Equal(t, compiler.Jump, last.Op)
	require.Equal(t, 1, last.Target)
	require.Equal(t, 4, main.Instructions[1].Target)
}

func TestCompileStructFieldQueryAndUpdate(t *testing.T) {
	prog := load(t, `
struct point {
	x: int,
	y: int,
}

fn main begin point 1 "x"! 2 "y"! "x"? . end`)
	cp, err := compiler.Compile(prog)
	require.NoError(t, err)

	main := entryFunc(t, cp)
	var ops []compiler.Opcode
	for _, in := range main.Instructions {
		ops = append(ops, in.Op)
	}
	require.Contains(t, ops, compiler.NewStruct)
	require.Contains(t, ops, compiler.FieldQuery)
	require.Contains(t, ops, compiler.FieldUpdate)
}

func TestCompileKnownBuiltinCompilesToDedicatedOpcode(t *testing.T) {
	prog := load(t, `fn main begin "hello" 0 3 substr . end`)
	cp, err := compiler.Compile(prog)
	require.NoError(t, err)

	main := entryFunc(t, cp)
	var ops []compiler.Opcode
	for _, in := range main.Instructions {
		ops = append(ops, in.Op)
	}
	require.Contains(t, ops, compiler.Substr)
	require.NotContains(t, ops, compiler.CallFunction)
}

func TestDisassembleIncludesFunctionHeaderAndOps(t *testing.T) {
	prog := load(t, `fn main begin 1 . end`)
	cp, err := compiler.Compile(prog)
	require.NoError(t, err)

	text := entryFunc(t, cp).Disassemble()
	require.Contains(t, text, "function:")
	require.Contains(t, text, "push_int")
	require.Contains(t, text, "print")
}
