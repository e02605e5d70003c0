package diag

import (
	"testing"

	"github.com/aaa-lang/aaa/lang/token"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	for k := Kind(1); k < Kind(len(kindNames)); k++ {
		require.NotEmpty(t, k.String())
	}
	require.Equal(t, "unknown diagnostic kind", Kind(0).String())
}

func TestListSortAndErr(t *testing.T) {
	var l List
	require.Nil(t, l.Err())

	l.Add(token.Position{Filename: "b.aaa", Line: 2, Col: 1}, UnknownIdentifier, "x")
	l.Add(token.Position{Filename: "a.aaa", Line: 5, Col: 1}, UnknownIdentifier, "y")
	l.Add(token.Position{Filename: "a.aaa", Line: 1, Col: 3}, UnknownIdentifier, "z")

	require.Equal(t, 3, l.Len())
	all := l.All()
	require.Equal(t, "a.aaa", all[0].Pos.Filename)
	require.Equal(t, 1, all[0].Pos.Line)
	require.Equal(t, "a.aaa", all[1].Pos.Filename)
	require.Equal(t, 5, all[1].Pos.Line)
	require.Equal(t, "b.aaa", all[2].Pos.Filename)

	err := l.Err()
	require.Error(t, err)
	require.Contains(t, err.Error(), "a.aaa:1:3")

	joinable, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	require.Len(t, joinable.Unwrap(), 3)
}

func TestDiagnosticError(t *testing.T) {
	d := Diagnostic{Kind: StackUnderflow, Message: "pop on empty stack"}
	require.Equal(t, "stack underflow: pop on empty stack", d.Error())

	d.Pos = token.Position{Filename: "f.aaa", Line: 3, Col: 4}
	require.Equal(t, "f.aaa:3:4: stack underflow: pop on empty stack", d.Error())
}
