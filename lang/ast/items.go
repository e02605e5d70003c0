package ast

import (
	"fmt"

	"github.com/aaa-lang/aaa/lang/token"
)

// IntegerLiteral pushes a constant integer.
type IntegerLiteral struct {
	Pos   token.Pos
	Value int64
}

func (n *IntegerLiteral) bodyItem() {}
func (n *IntegerLiteral) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("int %d", n.Value), nil)
}
func (n *IntegerLiteral) Span() (start, end token.Pos) { return n.Pos, n.Pos }

// StringLiteral pushes a constant string. Value is the decoded contents
// (escapes already resolved by the scanner).
type StringLiteral struct {
	Pos   token.Pos
	Value string
}

func (n *StringLiteral) bodyItem() {}
func (n *StringLiteral) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("string %q", n.Value), nil)
}
func (n *StringLiteral) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Value))
}

// BooleanLiteral pushes a constant true or false.
type BooleanLiteral struct {
	Pos   token.Pos
	Value bool
}

func (n *BooleanLiteral) bodyItem() {}
func (n *BooleanLiteral) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("bool %t", n.Value), nil)
}
func (n *BooleanLiteral) Span() (start, end token.Pos) { return n.Pos, n.Pos }

// Identifier references a function, argument, or struct by bare name. Which one it resolves to is decided by lang/loader,
// not by the parser: see Binding.
type Identifier struct {
	Pos  token.Pos
	Name string

	// Binding is filled in by lang/loader once the identifier's referent is
	// known; it is nil on a freshly parsed tree.
	Binding any
}

func (n *Identifier) bodyItem() {}
func (n *Identifier) Format(f fmt.State, verb rune) {
	format(f, verb, n, "ident "+n.Name, nil)
}
func (n *Identifier) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Name))
}

// TypeLiteral pushes a first-class reference to a (possibly generic) type.
// lang/parser does not produce it: a bare struct name in a body lowers to an
// Identifier, which lang/loader binds as BindLocalStruct.
type TypeLiteral struct {
	Pos  token.Pos
	Type *Type
}

func (n *TypeLiteral) bodyItem() {}
func (n *TypeLiteral) Format(f fmt.State, verb rune) {
	format(f, verb, n, "type literal", nil)
}
func (n *TypeLiteral) Span() (start, end token.Pos) { return n.Pos, n.Pos }

// Operator is a built-in stack/arithmetic/comparison operator spelled as a
// single token (e.g. +, =, dup, drop, .).
type Operator struct {
	Pos  token.Pos
	Name string // token.Token.String() of the operator token

	// ResolvedOperandType is filled in by lang/checker for the one overloaded
	// operator, "+": "int" or "str", identifying which of Plus/Concat
	// lang/compiler must emit. Empty for every other operator.
	ResolvedOperandType string
}

func (n *Operator) bodyItem() {}
func (n *Operator) Format(f fmt.State, verb rune) {
	format(f, verb, n, "op "+n.Name, nil)
}
func (n *Operator) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Name))
}

// Branch is an if/[else]/end construct. Condition is always an empty Body:
// the language has no separate condition clause, the branch consumes
// whatever boolean is already on top of the stack (see §8 traces in
// DESIGN.md). The field is kept for symmetry with the abstract data model.
type Branch struct {
	Pos       token.Pos
	Condition *Body
	IfBody    *Body
	ElseBody  *Body // nil if there is no else clause
}

func (n *Branch) bodyItem() {}
func (n *Branch) Format(f fmt.State, verb rune) {
	counts := map[string]int{"if": len(n.IfBody.Items)}
	if n.ElseBody != nil {
		counts["else"] = len(n.ElseBody.Items)
	}
	format(f, verb, n, "if", counts)
}
func (n *Branch) Span() (start, end token.Pos) { return n.Pos, n.Pos }

// Loop is a while/end construct. Condition is always an empty Body, for the
// same reason as Branch.Condition: the loop test is whatever the previous
// iteration (or the code preceding the loop) left on top of the stack.
type Loop struct {
	Pos       token.Pos
	Condition *Body
	Body      *Body
}

func (n *Loop) bodyItem() {}
func (n *Loop) Format(f fmt.State, verb rune) {
	format(f, verb, n, "while", map[string]int{"items": len(n.Body.Items)})
}
func (n *Loop) Span() (start, end token.Pos) { return n.Pos, n.Pos }

// MemberFunction calls a member function of the form Type:func, e.g.
// vec:push.
type MemberFunction struct {
	Pos  token.Pos
	Type string
	Func string
}

func (n *MemberFunction) bodyItem() {}
func (n *MemberFunction) Format(f fmt.State, verb rune) {
	format(f, verb, n, n.Type+":"+n.Func, nil)
}
func (n *MemberFunction) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Type)+1+len(n.Func))
}

// StructFieldQuery reads a struct field by name: "field"? pops a struct and
// pushes the value of its field named "field".
type StructFieldQuery struct {
	Pos   token.Pos
	Field string
}

func (n *StructFieldQuery) bodyItem() {}
func (n *StructFieldQuery) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("%q?", n.Field), nil)
}
func (n *StructFieldQuery) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Field)+3)
}

// StructFieldUpdate writes a struct field by name: "field"! pops a value and
// a struct, and pushes the struct back with its field named "field" set to
// the value. NewValueExpr is kept for symmetry with the abstract data model
// (which models the pushed value as a separate sub-expression) but is always
// an empty Body: the surface syntax has no delimited sub-expression here
// either, the value is simply whatever the preceding words left on the
// stack.
type StructFieldUpdate struct {
	Pos          token.Pos
	Field        string
	NewValueExpr *Body
}

func (n *StructFieldUpdate) bodyItem() {}
func (n *StructFieldUpdate) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("%q!", n.Field), nil)
}
func (n *StructFieldUpdate) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Field)+3)
}
