// Package ast defines the typed abstract syntax tree that lang/parser lowers
// a concrete parse tree into: files, imports, structs, functions, and the
// sum type of function-body items described by §3 of the language design.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aaa-lang/aaa/lang/token"
)

// Node is any node of the AST.
type Node interface {
	// Every Node implements fmt.Formatter so it can describe itself for
	// debugging and error messages; only the 'v' and 's' verbs are
	// supported.
	fmt.Formatter

	// Span reports the start and end position of the node in its source
	// file.
	Span() (start, end token.Pos)
}

// BodyItem is one element of a Body: the sum type of §3's FunctionBodyItem.
type BodyItem interface {
	Node
	bodyItem()
}

// File is the root of a regular source file: zero or more imports, structs
// and functions, in declaration order.
type File struct {
	Name      string
	Imports   []*Import
	Structs   []*Struct
	Functions []*Function
}

func (n *File) Format(f fmt.State, verb rune) { format(f, verb, n, "file "+n.Name, nil) }
func (n *File) Span() (start, end token.Pos) {
	return token.Pos(0), token.Pos(0)
}

// BuiltinsFile is the root of a builtins file: function signatures only, no
// bodies.
type BuiltinsFile struct {
	Name      string
	Functions []*Function
}

func (n *BuiltinsFile) Format(f fmt.State, verb rune) {
	format(f, verb, n, "builtins file "+n.Name, nil)
}
func (n *BuiltinsFile) Span() (start, end token.Pos) { return token.Pos(0), token.Pos(0) }

// ImportItem is one imported name, possibly aliased.
type ImportItem struct {
	OriginalName string
	ImportedName string // equal to OriginalName if no "as" clause
	Pos          token.Pos
}

func (n *ImportItem) Format(f fmt.State, verb rune) { format(f, verb, n, n.OriginalName, nil) }
func (n *ImportItem) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.OriginalName))
}

// Import is a single `from "source" import a, b as c` declaration.
type Import struct {
	Pos    token.Pos
	Source string // relative path, without extension
	Items  []*ImportItem
}

func (n *Import) Format(f fmt.State, verb rune) {
	format(f, verb, n, "import "+n.Source, map[string]int{"items": len(n.Items)})
}
func (n *Import) Span() (start, end token.Pos) { return n.Pos, n.Pos }

// Field is one field of a Struct.
type Field struct {
	Name string
	Type *Type
	Pos  token.Pos
}

func (n *Field) Format(f fmt.State, verb rune) { format(f, verb, n, n.Name, nil) }
func (n *Field) Span() (start, end token.Pos)  { return n.Pos, n.Pos + token.Pos(len(n.Name)) }

// Struct is a struct definition: a name, optional type parameters, and an
// ordered list of fields (names unique within the struct).
type Struct struct {
	Pos        token.Pos
	Name       string
	TypeParams []string
	Fields     []*Field
}

func (n *Struct) Format(f fmt.State, verb rune) {
	format(f, verb, n, "struct "+n.Name, map[string]int{"fields": len(n.Fields)})
}
func (n *Struct) Span() (start, end token.Pos) { return n.Pos, n.Pos }

// Arg is one argument of a Function.
type Arg struct {
	Name string
	Type *Type
	Pos  token.Pos
}

func (n *Arg) Format(f fmt.State, verb rune) { format(f, verb, n, n.Name, nil) }
func (n *Arg) Span() (start, end token.Pos)  { return n.Pos, n.Pos + token.Pos(len(n.Name)) }

// Function is a function (or member-function) definition. Name is the plain
// name for a regular function, or "Type:func" for a member function (see
// NameKey). Body is nil for a builtin function signature.
type Function struct {
	Pos          token.Pos
	Name         string
	MemberOfType string // non-empty for member functions ("T:m" syntax)
	TypeParams   []string
	Args         []*Arg
	ReturnTypes  []*Type
	Body         *Body // nil for builtin signatures
}

// NameKey returns the string this function is registered under: the plain
// name, or "Type:func" for a member function.
func (n *Function) NameKey() string {
	if n.MemberOfType != "" {
		return n.MemberOfType + ":" + n.Name
	}
	return n.Name
}

func (n *Function) Format(f fmt.State, verb rune) {
	format(f, verb, n, "fn "+n.NameKey(), map[string]int{"args": len(n.Args)})
}
func (n *Function) Span() (start, end token.Pos) { return n.Pos, n.Pos }

// Type is either a concrete named type (possibly generic, with
// instantiated Params) or a placeholder type variable bound to the scope of
// its declaring function or struct.
type Type struct {
	Pos         token.Pos
	Name        string
	Params      []*Type
	Placeholder bool
}

func (n *Type) Format(f fmt.State, verb rune) {
	label := n.Name
	if n.Placeholder {
		label = "placeholder " + label
	}
	format(f, verb, n, label, map[string]int{"params": len(n.Params)})
}
func (n *Type) Span() (start, end token.Pos) { return n.Pos, n.Pos + token.Pos(len(n.Name)) }

// Body is an ordered sequence of function-body items.
type Body struct {
	Items []BodyItem
}

func (n *Body) Format(f fmt.State, verb rune) {
	format(f, verb, n, "body", map[string]int{"items": len(n.Items)})
}
func (n *Body) Span() (start, end token.Pos) {
	if len(n.Items) == 0 {
		return token.Pos(0), token.Pos(0)
	}
	s, _ := n.Items[0].Span()
	_, e := n.Items[len(n.Items)-1].Span()
	return s, e
}

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		switch {
		case len(runes) >= w:
			runes = runes[:w]
		case minus:
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		case !plus:
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
