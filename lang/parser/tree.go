package parser

import "github.com/aaa-lang/aaa/lang/token"

// Node is one node of the concrete parse tree produced by match(): either a
// terminal (Rule == "" and Tok set to the matched token kind) or the result
// of applying a named rule (Rule set, Children holding whatever its matched
// alternative produced).
type Node struct {
	Rule     string
	Tok      token.Token
	Value    token.Value
	Children []*Node
}

// rule returns the first child produced by applying the named rule, or nil.
func (n *Node) rule(name string) *Node {
	for _, c := range n.Children {
		if c.Rule == name {
			return c
		}
	}
	return nil
}

// rules returns every child produced by applying the named rule, in order.
func (n *Node) rules(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Rule == name {
			out = append(out, c)
		}
	}
	return out
}

// terms returns every terminal child matching tok, in order.
func (n *Node) terms(tok token.Token) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Rule == "" && c.Tok == tok {
			out = append(out, c)
		}
	}
	return out
}

// term returns the first terminal child matching tok, or nil.
func (n *Node) term(tok token.Token) *Node {
	for _, c := range n.Children {
		if c.Rule == "" && c.Tok == tok {
			return c
		}
	}
	return nil
}
