// Package grammar declares the rewrite-rule table that defines the concrete
// syntax of aaa source files as data, rather than as a hand-written
// recursive-descent parser. lang/parser interprets this table directly; this
// package also knows how to render it as a deterministic, human-readable
// dump used by the `generate-grammar-file` command and its staleness check.
package grammar

import (
	"strconv"
	"strings"

	"github.com/aaa-lang/aaa/lang/token"
)

// Elem is one element of a rule alternative: a terminal, a reference to
// another rule, or one of the three repetition modifiers.
type Elem interface {
	render() string
}

// Term matches a single token of the given kind.
type Term struct{ Tok token.Token }

func (t Term) render() string { return strconv.Quote(t.Tok.String()) }

// Ref matches by recursively applying the named rule.
type Ref struct{ Name string }

func (r Ref) render() string { return r.Name }

// Opt matches Elem zero or one time.
type Opt struct{ Elem Elem }

func (o Opt) render() string { return "[ " + o.Elem.render() + " ]" }

// Star matches Elem zero or more times.
type Star struct{ Elem Elem }

func (s Star) render() string { return "{ " + s.Elem.render() + " }" }

// Plus matches Elem one or more times.
type Plus struct{ Elem Elem }

func (p Plus) render() string { return p.Elem.render() + " { " + p.Elem.render() + " }" }

// T is a convenience constructor for Term.
func T(tok token.Token) Elem { return Term{Tok: tok} }

// N is a convenience constructor for Ref.
func N(name string) Elem { return Ref{Name: name} }

// Optional wraps e so it may be skipped.
func Optional(e Elem) Elem { return Opt{Elem: e} }

// ZeroOrMore wraps e so it may repeat any number of times, including zero.
func ZeroOrMore(e Elem) Elem { return Star{Elem: e} }

// OneOrMore wraps e so it must match at least once.
func OneOrMore(e Elem) Elem { return Plus{Elem: e} }

// Group bundles a sequence of elements so it can be passed as a single Elem
// to Optional/ZeroOrMore/OneOrMore.
type Group struct{ Elems []Elem }

func (g Group) render() string {
	parts := make([]string, len(g.Elems))
	for i, e := range g.Elems {
		parts[i] = e.render()
	}
	return "( " + strings.Join(parts, " ") + " )"
}

// G is a convenience constructor for Group.
func G(elems ...Elem) Elem { return Group{Elems: elems} }

// Rule is a single non-terminal with its ordered list of alternatives; each
// alternative is itself an ordered sequence of Elem. Alternatives are tried
// in order and the parser commits to the first one whose longest successful
// prefix covers the input; see lang/parser for the matching algorithm.
type Rule struct {
	Name         string
	Alternatives [][]Elem
}

// Grammar is the full rewrite-rule table (§4.2). It does not record a start
// symbol: each parser entry point names its own root rule ("File" or
// "BuiltinsFile").
type Grammar struct {
	Rules []*Rule
}

// Rule returns the named rule, or nil if it does not exist.
func (g *Grammar) Rule(name string) *Rule {
	for _, r := range g.Rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Seq is a convenience constructor for an alternative (a sequence of Elem).
func Seq(elems ...Elem) []Elem { return elems }

// Aaa is the rewrite-rule table for aaa source files, grounded on the source
// file format of §6 and the end-to-end examples of §8.
var Aaa = &Grammar{Rules: []*Rule{
	{Name: "File", Alternatives: [][]Elem{
		Seq(ZeroOrMore(N("TopLevelItem"))),
	}},
	{Name: "BuiltinsFile", Alternatives: [][]Elem{
		Seq(ZeroOrMore(N("BuiltinFunctionSignature"))),
	}},
	{Name: "TopLevelItem", Alternatives: [][]Elem{
		Seq(N("Import")),
		Seq(N("Struct")),
		Seq(N("Function")),
	}},

	{Name: "Import", Alternatives: [][]Elem{
		Seq(T(token.FROM), T(token.STRING), T(token.IMPORT), N("ImportItem"),
			ZeroOrMore(G(T(token.COMMA), N("ImportItem")))),
	}},
	{Name: "ImportItem", Alternatives: [][]Elem{
		Seq(T(token.IDENT), Optional(G(T(token.AS), T(token.IDENT)))),
	}},

	{Name: "Struct", Alternatives: [][]Elem{
		Seq(T(token.STRUCT), T(token.IDENT), Optional(N("TypeParams")),
			T(token.LBRACE), ZeroOrMore(N("FieldDecl")), T(token.RBRACE)),
	}},
	{Name: "FieldDecl", Alternatives: [][]Elem{
		Seq(T(token.IDENT), T(token.COLON), N("Type"), Optional(T(token.COMMA))),
	}},

	{Name: "TypeParams", Alternatives: [][]Elem{
		Seq(T(token.LT), OneOrMore(T(token.IDENT)), T(token.GT)),
	}},
	{Name: "Type", Alternatives: [][]Elem{
		Seq(T(token.IDENT), Optional(N("TypeParams"))),
	}},

	{Name: "ArgDecl", Alternatives: [][]Elem{
		Seq(T(token.IDENT), N("Type")),
	}},

	{Name: "Function", Alternatives: [][]Elem{
		Seq(T(token.FN), N("FunctionName"), Optional(N("TypeParams")),
			Optional(G(T(token.ARGS), OneOrMore(N("ArgDecl")))),
			Optional(G(T(token.RETURN), OneOrMore(N("Type")))),
			T(token.BEGIN), N("Body"), T(token.END)),
	}},
	{Name: "BuiltinFunctionSignature", Alternatives: [][]Elem{
		Seq(T(token.FN), N("FunctionName"), Optional(N("TypeParams")),
			Optional(G(T(token.ARGS), OneOrMore(N("ArgDecl")))),
			Optional(G(T(token.RETURN), OneOrMore(N("Type"))))),
	}},
	{Name: "FunctionName", Alternatives: [][]Elem{
		Seq(N("MemberFunctionName")),
		Seq(T(token.IDENT)),
	}},
	{Name: "MemberFunctionName", Alternatives: [][]Elem{
		Seq(T(token.IDENT), T(token.COLON), T(token.IDENT)),
	}},

	{Name: "Body", Alternatives: [][]Elem{
		Seq(ZeroOrMore(N("BodyItem"))),
	}},
	{Name: "BodyItem", Alternatives: [][]Elem{
		Seq(N("Branch")),
		Seq(N("Loop")),
		Seq(N("StructFieldQuery")),
		Seq(N("StructFieldUpdate")),
		Seq(N("MemberFunctionName")),
		Seq(T(token.INT)),
		Seq(T(token.STRING)),
		Seq(T(token.TRUE)),
		Seq(T(token.FALSE)),
		Seq(N("Operator")),
		Seq(T(token.IDENT)),
	}},

	{Name: "Branch", Alternatives: [][]Elem{
		Seq(T(token.IF), N("Body"), Optional(G(T(token.ELSE), N("Body"))), T(token.END)),
	}},
	{Name: "Loop", Alternatives: [][]Elem{
		Seq(T(token.WHILE), N("Body"), T(token.END)),
	}},

	{Name: "StructFieldQuery", Alternatives: [][]Elem{
		Seq(T(token.STRING), T(token.QUESTION)),
	}},
	{Name: "StructFieldUpdate", Alternatives: [][]Elem{
		Seq(T(token.STRING), T(token.BANG)),
	}},

	{Name: "Operator", Alternatives: [][]Elem{
		Seq(T(token.PLUS)), Seq(T(token.MINUS)), Seq(T(token.STAR)), Seq(T(token.SLASH)),
		Seq(T(token.PERCENT)), Seq(T(token.EQ)), Seq(T(token.NEQ)), Seq(T(token.LT)),
		Seq(T(token.LE)), Seq(T(token.GT)), Seq(T(token.GE)), Seq(T(token.AND)),
		Seq(T(token.OR)), Seq(T(token.NOT)), Seq(T(token.DUP)), Seq(T(token.DROP)),
		Seq(T(token.SWAP)), Seq(T(token.OVER)), Seq(T(token.ROT)), Seq(T(token.DOT)),
	}},
}}

// Dump renders g as a deterministic, golang.org/x/exp/ebnf-parseable text,
// one production per rule in declaration order. The text generated here is
// the contents written by `generate-grammar-file` and compared against by
// CheckStaleness.
func (g *Grammar) Dump() string {
	var sb strings.Builder
	for _, r := range g.Rules {
		sb.WriteString(r.Name)
		sb.WriteString(" =")
		for i, alt := range r.Alternatives {
			if i > 0 {
				sb.WriteString(" |")
			}
			for _, e := range alt {
				sb.WriteString(" ")
				sb.WriteString(e.render())
			}
		}
		sb.WriteString(" .\n")
	}
	return sb.String()
}

// CheckStaleness reports whether existing, the contents of a grammar file,
// differs from the canonical dump of g. It returns false (not stale) iff the file's contents
// equal g.Dump() exactly, per §8's check_grammar_file_staleness property.
func CheckStaleness(existing string, g *Grammar) bool {
	return existing != g.Dump()
}
