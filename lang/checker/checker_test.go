package checker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aaa-lang/aaa/lang/checker"
	"github.com/aaa-lang/aaa/lang/loader"
)

const builtinsSrc = `fn substr args s str start int stop int return str
fn strlen args s str return int
`

func load(t *testing.T, src string) (*loader.Program, error) {
	t.Helper()
	dir := t.TempDir()

	stdlib := filepath.Join(dir, "stdlib")
	require.NoError(t, os.MkdirAll(stdlib, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stdlib, "builtins.aaa"), []byte(builtinsSrc), 0o644))

	main := filepath.Join(dir, "main.aaa")
	require.NoError(t, os.WriteFile(main, []byte(src), 0o644))

	return loader.Load(main, loader.Config{StdlibPath: stdlib})
}

func TestCheckArithmeticProgram(t *testing.T) {
	prog, err := load(t, `fn main begin 1 2 + . end`)
	require.NoError(t, err)
	require.NoError(t, checker.Check(prog))
}

func TestCheckStringConcat(t *testing.T) {
	prog, err := load(t, `fn main begin "a" "b" + . end`)
	require.NoError(t, err)
	require.NoError(t, checker.Check(prog))
}

func TestCheckArithmeticTypeMismatch(t *testing.T) {
	prog, err := load(t, `fn main begin 1 "a" + . end`)
	require.NoError(t, err)
	require.Error(t, checker.Check(prog))
}

func TestCheckFunctionCallSignature(t *testing.T) {
	prog, err := load(t, `
fn double args n int return int begin n n + end

fn main begin 21 double . end`)
	require.NoError(t, err)
	require.NoError(t, checker.Check(prog))
}

func TestCheckFunctionCallArgumentMismatch(t *testing.T) {
	prog, err := load(t, `
fn double args n int return int begin n n + end

fn main begin "x" double . end`)
	require.NoError(t, err)
	require.Error(t, checker.Check(prog))
}

func TestCheckBranchBothArmsAgree(t *testing.T) {
	prog, err := load(t, `fn main begin true if 1 . else 2 . end end`)
	require.NoError(t, err)
	require.NoError(t, checker.Check(prog))
}

func TestCheckBranchArmsDisagree(t *testing.T) {
	prog, err := load(t, `fn main begin true if 1 . else "x" end end`)
	require.NoError(t, err)
	require.Error(t, checker.Check(prog))
}

func TestCheckLoopStackNeutral(t *testing.T) {
	prog, err := load(t, `fn main begin true while false end end`)
	require.NoError(t, err)
	require.NoError(t, checker.Check(prog))
}

func TestCheckStackShufflers(t *testing.T) {
	prog, err := load(t, `fn main begin 1 2 swap drop . end`)
	require.NoError(t, err)
	require.NoError(t, checker.Check(prog))
}

func TestCheckStructFieldQueryAndUpdate(t *testing.T) {
	prog, err := load(t, `
struct point {
	x: int,
	y: int,
}

fn use args p point return point begin p "x"? . p 9 "y"! end

fn main begin end`)
	require.NoError(t, err)
	require.NoError(t, checker.Check(prog))
}

func TestCheckStructFieldTypeMismatch(t *testing.T) {
	prog, err := load(t, `
struct point {
	x: int,
	y: int,
}

fn use args p point return point begin p "a string" "x"! end

fn main begin end`)
	require.NoError(t, err)
	require.Error(t, checker.Check(prog))
}

func TestCheckBuiltinCall(t *testing.T) {
	prog, err := load(t, `fn main begin "hello" 0 3 substr . end`)
	require.NoError(t, err)
	require.NoError(t, checker.Check(prog))
}

func TestCheckFinalStackMismatch(t *testing.T) {
	prog, err := load(t, `fn main begin 1 end`)
	require.NoError(t, err)
	require.Error(t, checker.Check(prog))
}
