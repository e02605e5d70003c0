package maincmd_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"

	"github.com/aaa-lang/aaa/internal/maincmd"
)

func stdlibPath(t *testing.T) string {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("..", "..", "stdlib"))
	require.NoError(t, err)
	return abs
}

func TestMainRunExecutesFileAndPrintsOutput(t *testing.T) {
	t.Setenv("AAA_STDLIB_PATH", stdlibPath(t))

	dir := t.TempDir()
	file := filepath.Join(dir, "main.aaa")
	require.NoError(t, os.WriteFile(file, []byte(`fn main begin 1 2 + . end`), 0o644))

	var out, errOut strings.Builder
	c := &maincmd.Cmd{}
	code := c.Main([]string{"run", file}, mainer.Stdio{Stdout: &out, Stderr: &errOut})

	require.Equal(t, mainer.Success, code)
	require.Equal(t, "3", out.String())
	require.Empty(t, errOut.String())
}

func TestMainRunReportsLoadErrorsAndExitsNonZero(t *testing.T) {
	t.Setenv("AAA_STDLIB_PATH", stdlibPath(t))

	dir := t.TempDir()
	file := filepath.Join(dir, "main.aaa")
	require.NoError(t, os.WriteFile(file, []byte(`fn main begin undefined_name end`), 0o644))

	var out, errOut strings.Builder
	c := &maincmd.Cmd{}
	code := c.Main([]string{"run", file}, mainer.Stdio{Stdout: &out, Stderr: &errOut})

	require.NotEqual(t, mainer.Success, code)
	require.NotEmpty(t, errOut.String())
}

func TestMainCmdWrapsCodeAsMainBody(t *testing.T) {
	t.Setenv("AAA_STDLIB_PATH", stdlibPath(t))

	var out, errOut strings.Builder
	c := &maincmd.Cmd{}
	code := c.Main([]string{"cmd", `"hi" .`}, mainer.Stdio{Stdout: &out, Stderr: &errOut})

	require.Equal(t, mainer.Success, code)
	require.Equal(t, "hi", out.String())
}

func TestMainUnknownCommandIsInvalidArgs(t *testing.T) {
	var out, errOut strings.Builder
	c := &maincmd.Cmd{}
	code := c.Main([]string{"bogus"}, mainer.Stdio{Stdout: &out, Stderr: &errOut})
	require.Equal(t, mainer.InvalidArgs, code)
}

func TestMainHelpPrintsUsage(t *testing.T) {
	var out, errOut strings.Builder
	c := &maincmd.Cmd{}
	code := c.Main([]string{"-h"}, mainer.Stdio{Stdout: &out, Stderr: &errOut})
	require.Equal(t, mainer.Success, code)
	require.Contains(t, out.String(), "generate-grammar-file")
}

func TestMainGenerateGrammarFileWritesThenReportsUpToDate(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(cwd)) }()

	var out1, errOut1 strings.Builder
	c := &maincmd.Cmd{}
	code := c.Main([]string{"generate-grammar-file"}, mainer.Stdio{Stdout: &out1, Stderr: &errOut1})
	require.Equal(t, mainer.Success, code)
	require.Equal(t, "updated\n", out1.String())
	require.FileExists(t, filepath.Join(dir, "grammar.txt"))

	var out2, errOut2 strings.Builder
	code = c.Main([]string{"generate-grammar-file"}, mainer.Stdio{Stdout: &out2, Stderr: &errOut2})
	require.Equal(t, mainer.Success, code)
	require.Equal(t, "up-to-date\n", out2.String())
}
