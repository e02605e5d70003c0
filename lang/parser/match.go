package parser

import (
	"github.com/aaa-lang/aaa/lang/grammar"
	"github.com/aaa-lang/aaa/lang/scanner"
	"github.com/aaa-lang/aaa/lang/token"
)

// matcher interprets a grammar.Grammar directly against a token stream,
// per §4.2: alternatives within a rule are tried in declaration order and
// the parser commits to the first one whose longest successful prefix
// covers the input, with no backtracking across rule boundaries once a
// rule has matched. This makes the grammar table in lang/grammar the single
// source of truth for the concrete syntax; there is no separate hand-written
// recursive-descent grammar to keep in sync with it.
type matcher struct {
	g        *grammar.Grammar
	toks     []scanner.TokenAndValue
	pos      int
	furthest int // position of the furthest failed match, for error reporting
}

func newMatcher(g *grammar.Grammar, toks []scanner.TokenAndValue) *matcher {
	return &matcher{g: g, toks: toks}
}

func (m *matcher) cur() scanner.TokenAndValue {
	if m.pos < len(m.toks) {
		return m.toks[m.pos]
	}
	return m.toks[len(m.toks)-1] // EOF sentinel
}

func (m *matcher) recordFail() {
	if m.pos > m.furthest {
		m.furthest = m.pos
	}
}

// matchRoot matches the named start rule against the entire token stream and
// requires it to consume every token up to EOF.
func (m *matcher) matchRoot(name string) (*Node, bool) {
	n, ok := m.matchRule(name)
	if !ok {
		return nil, false
	}
	if m.cur().Token != token.EOF {
		m.recordFail()
		return nil, false
	}
	return n, true
}

func (m *matcher) matchRule(name string) (*Node, bool) {
	rule := m.g.Rule(name)
	if rule == nil {
		return nil, false
	}
	save := m.pos
	for _, alt := range rule.Alternatives {
		m.pos = save
		children, ok := m.matchSeq(alt)
		if ok {
			return &Node{Rule: name, Children: children}, true
		}
	}
	m.pos = save
	m.recordFail()
	return nil, false
}

func (m *matcher) matchSeq(elems []grammar.Elem) ([]*Node, bool) {
	var out []*Node
	for _, e := range elems {
		ns, ok := m.matchElem(e)
		if !ok {
			return nil, false
		}
		out = append(out, ns...)
	}
	return out, true
}

func (m *matcher) matchElem(e grammar.Elem) ([]*Node, bool) {
	switch t := e.(type) {
	case grammar.Term:
		if m.cur().Token == t.Tok {
			n := &Node{Tok: t.Tok, Value: m.cur().Value}
			m.pos++
			return []*Node{n}, true
		}
		m.recordFail()
		return nil, false

	case grammar.Ref:
		n, ok := m.matchRule(t.Name)
		if !ok {
			return nil, false
		}
		return []*Node{n}, true

	case grammar.Opt:
		save := m.pos
		if ns, ok := m.matchElem(t.Elem); ok {
			return ns, true
		}
		m.pos = save
		return nil, true

	case grammar.Star:
		var out []*Node
		for {
			save := m.pos
			ns, ok := m.matchElem(t.Elem)
			if !ok {
				m.pos = save
				break
			}
			out = append(out, ns...)
		}
		return out, true

	case grammar.Plus:
		ns, ok := m.matchElem(t.Elem)
		if !ok {
			return nil, false
		}
		out := ns
		for {
			save := m.pos
			ns2, ok := m.matchElem(t.Elem)
			if !ok {
				m.pos = save
				break
			}
			out = append(out, ns2...)
		}
		return out, true

	case grammar.Group:
		return m.matchSeq(t.Elems)

	default:
		return nil, false
	}
}
