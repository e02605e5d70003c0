package machine_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aaa-lang/aaa/lang/checker"
	"github.com/aaa-lang/aaa/lang/compiler"
	"github.com/aaa-lang/aaa/lang/diag"
	"github.com/aaa-lang/aaa/lang/loader"
	"github.com/aaa-lang/aaa/lang/machine"
)

func run(t *testing.T, src string) (stdout string, err error) {
	t.Helper()
	dir := t.TempDir()

	stdlibSrc, rerr := os.ReadFile(filepath.Join("..", "..", "stdlib", "builtins.aaa"))
	require.NoError(t, rerr)

	stdlib := filepath.Join(dir, "stdlib")
	require.NoError(t, os.MkdirAll(stdlib, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stdlib, "builtins.aaa"), stdlibSrc, 0o644))

	main := filepath.Join(dir, "main.aaa")
	require.NoError(t, os.WriteFile(main, []byte(src), 0o644))

	prog, lerr := loader.Load(main, loader.Config{StdlibPath: stdlib})
	require.NoError(t, lerr)
	require.NoError(t, checker.Check(prog))

	cp, cerr := compiler.Compile(prog)
	require.NoError(t, cerr)

	var out strings.Builder
	th := &machine.Thread{Stdout: &out}
	err = machine.Run(cp, th)
	return out.String(), err
}

func TestRunArithmeticAndPrint(t *testing.T) {
	out, err := run(t, `fn main begin 1 2 + . end`)
	require.NoError(t, err)
	require.Equal(t, "3", out)
}

func TestRunStringConcatAndPrint(t *testing.T) {
	out, err := run(t, `fn main begin "foo" "bar" + . end`)
	require.NoError(t, err)
	require.Equal(t, "foobar", out)
}

func TestRunStackManipulationOperators(t *testing.T) {
	out, err := run(t, `fn main begin 1 2 dup dup . . swap . . end`)
	require.NoError(t, err)
	require.Equal(t, "2212", out)
}

func TestRunBranchTakesTrueArm(t *testing.T) {
	out, err := run(t, `fn main begin true if 1 . else 2 . end end`)
	require.NoError(t, err)
	require.Equal(t, "1", out)
}

func TestRunBranchTakesFalseArm(t *testing.T) {
	out, err := run(t, `fn main begin false if 1 . else 2 . end end`)
	require.NoError(t, err)
	require.Equal(t, "2", out)
}

func TestRunLoopCountsToNine(t *testing.T) {
	out, err := run(t, `
fn main begin
	0 true while
		dup . "\n" .
		1 +
		dup 9 <=
	end
	drop
end`)
	require.NoError(t, err)
	require.Equal(t, "0\n1\n2\n3\n4\n5\n6\n7\n8\n9\n", out)
}

func TestRunFunctionCallPassesArgumentsByFrame(t *testing.T) {
	out, err := run(t, `
fn double args n int return int begin n n + end

fn main begin 21 double . end`)
	require.NoError(t, err)
	require.Equal(t, "42", out)
}

func TestRunStructFieldQueryAndUpdate(t *testing.T) {
	out, err := run(t, `
struct point {
	x: int,
	y: int,
}

fn main begin
	point 3 "x"! 4 "y"!
	dup "x"? . "\n" .
	"y"? .
end`)
	require.NoError(t, err)
	require.Equal(t, "3\n4", out)
}

func TestRunBuiltinSubstrAndStrlen(t *testing.T) {
	out, err := run(t, `fn main begin "hello world" 0 5 substr . "\n" . "hello world" strlen . end`)
	require.NoError(t, err)
	require.Equal(t, "hello\n11", out)
}

func TestRunBuiltinVecPushGetLen(t *testing.T) {
	out, err := run(t, `
fn main begin
	vec 1 vec:push 2 vec:push 3 vec:push
	dup vec:len . "\n" .
	dup 0 vec:get . "\n" .
	2 vec:get .
end`)
	require.NoError(t, err)
	require.Equal(t, "3\n1\n3", out)
}

func TestRunBuiltinMapSetGetLen(t *testing.T) {
	out, err := run(t, `
fn main begin
	map "a" 1 map:set "b" 2 map:set
	dup map:len . "\n" .
	"a" map:get .
end`)
	require.NoError(t, err)
	require.Equal(t, "2\n1", out)
}

func TestRunDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `fn main begin 1 0 / . end`)
	require.Error(t, err)
	var d *diag.Diagnostic
	require.True(t, errors.As(err, &d))
	require.Equal(t, diag.DivisionByZero, d.Kind)
}

func TestRunModuloByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `fn main begin 1 0 % . end`)
	require.Error(t, err)
	var d *diag.Diagnostic
	require.True(t, errors.As(err, &d))
	require.Equal(t, diag.ModuloByZero, d.Kind)
}

// The remaining runtime error kinds guard invariants the stack-effect
// checker already enforces on any program that reaches the machine through
// the normal pipeline (balanced exit stack, well-typed operands, in-range
// jump targets), so exercising them means building a Program by hand rather
// than compiling aaa source.

func runProgram(t *testing.T, fc *compiler.Funcode) error {
	t.Helper()
	target := compiler.CallTarget{File: "main.aaa", Name: "main"}
	fc.File, fc.Name = target.File, target.Name
	prog := &compiler.Program{
		Entry:     target,
		Functions: map[compiler.CallTarget]*compiler.Funcode{target: fc},
	}
	var out strings.Builder
	th := &machine.Thread{Stdout: &out}
	return machine.Run(prog, th)
}

func requireDiagKind(t *testing.T, err error, kind diag.Kind) {
	t.Helper()
	require.Error(t, err)
	var d *diag.Diagnostic
	require.True(t, errors.As(err, &d))
	require.Equal(t, kind, d.Kind)
}

func TestRunStackNotEmptyAtExitIsRuntimeError(t *testing.T) {
	err := runProgram(t, &compiler.Funcode{
		Instructions: []compiler.Instruction{{Op: compiler.PushInt, IntArg: 1}},
	})
	requireDiagKind(t, err, diag.StackNotEmptyAtExit)
}

func TestRunStackUnderflowIsRuntimeError(t *testing.T) {
	err := runProgram(t, &compiler.Funcode{
		Instructions: []compiler.Instruction{{Op: compiler.Drop}},
	})
	requireDiagKind(t, err, diag.StackUnderflow)
}

func TestRunUnexpectedTypeIsRuntimeError(t *testing.T) {
	err := runProgram(t, &compiler.Funcode{
		Instructions: []compiler.Instruction{
			{Op: compiler.PushString, StrArg: "x"},
			{Op: compiler.PushInt, IntArg: 1},
			{Op: compiler.Plus},
		},
	})
	requireDiagKind(t, err, diag.UnexpectedType)
}

func TestRunInvalidJumpIsRuntimeError(t *testing.T) {
	err := runProgram(t, &compiler.Funcode{
		Instructions: []compiler.Instruction{{Op: compiler.Jump, Target: 99}},
	})
	requireDiagKind(t, err, diag.InvalidJump)
}

func TestRunVerboseModeTracesToStderr(t *testing.T) {
	dir := t.TempDir()
	stdlibSrc, rerr := os.ReadFile(filepath.Join("..", "..", "stdlib", "builtins.aaa"))
	require.NoError(t, rerr)
	stdlib := filepath.Join(dir, "stdlib")
	require.NoError(t, os.MkdirAll(stdlib, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stdlib, "builtins.aaa"), stdlibSrc, 0o644))
	main := filepath.Join(dir, "main.aaa")
	require.NoError(t, os.WriteFile(main, []byte(`fn main begin 1 . end`), 0o644))

	prog, lerr := loader.Load(main, loader.Config{StdlibPath: stdlib})
	require.NoError(t, lerr)
	require.NoError(t, checker.Check(prog))
	cp, cerr := compiler.Compile(prog)
	require.NoError(t, cerr)

	var out, errOut strings.Builder
	th := &machine.Thread{Stdout: &out, Stderr: &errOut, Verbose: true}
	require.NoError(t, machine.Run(cp, th))
	require.Contains(t, errOut.String(), "push_int")
}
