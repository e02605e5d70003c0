package parser_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aaa-lang/aaa/lang/ast"
	"github.com/aaa-lang/aaa/lang/parser"
)

func writeTemp(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.aaa")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestParseSimpleArithmeticBody(t *testing.T) {
	path := writeTemp(t, `fn main begin 1 2 + . end`)
	_, files, err := parser.ParseFiles(path)
	require.NoError(t, err)
	require.Len(t, files, 1)

	fn := files[0].Functions[0]
	require.Equal(t, "main", fn.NameKey())
	require.Len(t, fn.Body.Items, 4)
	require.IsType(t, &ast.IntegerLiteral{}, fn.Body.Items[0])
	require.IsType(t, &ast.IntegerLiteral{}, fn.Body.Items[1])
	require.IsType(t, &ast.Operator{}, fn.Body.Items[2])
	require.Equal(t, "+", fn.Body.Items[2].(*ast.Operator).Name)
	require.IsType(t, &ast.Operator{}, fn.Body.Items[3])
	require.Equal(t, ".", fn.Body.Items[3].(*ast.Operator).Name)
}

func TestParseLoopScenario(t *testing.T) {
	path := writeTemp(t, `fn main begin false true true true while 1 . end end`)
	_, files, err := parser.ParseFiles(path)
	require.NoError(t, err)

	fn := files[0].Functions[0]
	require.Len(t, fn.Body.Items, 5) // false true true true <loop>
	loop, ok := fn.Body.Items[4].(*ast.Loop)
	require.True(t, ok)
	require.Empty(t, loop.Condition.Items)
	require.Len(t, loop.Body.Items, 2)
}

func TestParseBranchWithElse(t *testing.T) {
	path := writeTemp(t, `fn main begin true if 1 . else 0 . end end`)
	_, files, err := parser.ParseFiles(path)
	require.NoError(t, err)

	fn := files[0].Functions[0]
	branch, ok := fn.Body.Items[1].(*ast.Branch)
	require.True(t, ok)
	require.Empty(t, branch.Condition.Items)
	require.Len(t, branch.IfBody.Items, 2)
	require.NotNil(t, branch.ElseBody)
	require.Len(t, branch.ElseBody.Items, 2)
}

func TestParseBranchWithoutElse(t *testing.T) {
	path := writeTemp(t, `fn main begin true if 1 . end end`)
	_, files, err := parser.ParseFiles(path)
	require.NoError(t, err)

	branch := files[0].Functions[0].Body.Items[1].(*ast.Branch)
	require.Nil(t, branch.ElseBody)
}

func TestParseStructAndFieldOps(t *testing.T) {
	path := writeTemp(t, `
struct point {
	x: int,
	y: int,
}

fn main args p point begin p "x"? . end
`)
	_, files, err := parser.ParseFiles(path)
	require.NoError(t, err)

	s := files[0].Structs[0]
	require.Equal(t, "point", s.Name)
	require.Len(t, s.Fields, 2)
	require.Equal(t, "x", s.Fields[0].Name)
	require.Equal(t, "int", s.Fields[0].Type.Name)

	fn := files[0].Functions[0]
	require.Len(t, fn.Args, 1)
	require.Equal(t, "p", fn.Args[0].Name)
	require.Equal(t, "point", fn.Args[0].Type.Name)

	query, ok := fn.Body.Items[1].(*ast.StructFieldQuery)
	require.True(t, ok)
	require.Equal(t, "x", query.Field)
}

func TestParseStructFieldUpdate(t *testing.T) {
	path := writeTemp(t, `fn main args p point return point begin p 5 "x"! end`)
	_, files, err := parser.ParseFiles(path)
	require.NoError(t, err)

	fn := files[0].Functions[0]
	require.Len(t, fn.ReturnTypes, 1)
	require.Equal(t, "point", fn.ReturnTypes[0].Name)

	update, ok := fn.Body.Items[2].(*ast.StructFieldUpdate)
	require.True(t, ok)
	require.Equal(t, "x", update.Field)
	require.Empty(t, update.NewValueExpr.Items)
}

func TestParseMemberFunctionCall(t *testing.T) {
	path := writeTemp(t, `fn main begin vec:new 1 vec:push end`)
	_, files, err := parser.ParseFiles(path)
	require.NoError(t, err)

	call, ok := files[0].Functions[0].Body.Items[0].(*ast.MemberFunction)
	require.True(t, ok)
	require.Equal(t, "vec", call.Type)
	require.Equal(t, "new", call.Func)
}

func TestParseImport(t *testing.T) {
	path := writeTemp(t, `from "stdlib/vec" import vec, push as vpush

fn main begin end`)
	_, files, err := parser.ParseFiles(path)
	require.NoError(t, err)

	imp := files[0].Imports[0]
	require.Equal(t, "stdlib/vec", imp.Source)
	require.Len(t, imp.Items, 2)
	require.Equal(t, "vec", imp.Items[0].OriginalName)
	require.Equal(t, "vec", imp.Items[0].ImportedName)
	require.Equal(t, "push", imp.Items[1].OriginalName)
	require.Equal(t, "vpush", imp.Items[1].ImportedName)
}

func TestParseGenericStruct(t *testing.T) {
	path := writeTemp(t, `struct box<t> {
	value: t,
}

fn main begin end`)
	_, files, err := parser.ParseFiles(path)
	require.NoError(t, err)

	s := files[0].Structs[0]
	require.Equal(t, []string{"t"}, s.TypeParams)
}

func TestParseBuiltinsFile(t *testing.T) {
	path := writeTemp(t, `fn substr args s str start int stop int return str
fn strlen args s str return int
`)
	_, files, err := parser.ParseBuiltinsFiles(path)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Len(t, files[0].Functions, 2)
	require.Nil(t, files[0].Functions[0].Body)
}

func TestParseUnexpectedTokenReportsDiagnostic(t *testing.T) {
	path := writeTemp(t, `fn main begin 1 2 + . end end`) // stray trailing "end"
	_, _, err := parser.ParseFiles(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected")
}

func TestParseEmptyFileReportsDiagnostic(t *testing.T) {
	path := writeTemp(t, ``)
	_, _, err := parser.ParseFiles(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty parse tree")
}

func TestParseAccumulatesErrorsAcrossFiles(t *testing.T) {
	bad1 := writeTemp(t, ``)
	bad2 := writeTemp(t, `fn main begin 1 end end`)
	_, _, err := parser.ParseFiles(bad1, bad2)
	require.Error(t, err)
}
