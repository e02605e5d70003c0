// Package parser interprets the lang/grammar rewrite-rule table against a
// scanned token stream to build a concrete parse tree, then lowers that tree
// into the typed lang/ast representation. There is no hand-written
// recursive-descent grammar here: lang/grammar.Aaa is the single source of
// truth for the concrete syntax, and this package is a generic interpreter
// for it (see match.go).
package parser

import (
	"github.com/aaa-lang/aaa/lang/ast"
	"github.com/aaa-lang/aaa/lang/diag"
	"github.com/aaa-lang/aaa/lang/grammar"
	"github.com/aaa-lang/aaa/lang/scanner"
	"github.com/aaa-lang/aaa/lang/token"
)

// significant filters out WHITESPACE and COMMENT tokens, which lang/grammar
// has no productions for: they exist only so lang/scanner can losslessly
// round-trip source text, not to be parsed.
func significant(toks []scanner.TokenAndValue) []scanner.TokenAndValue {
	out := make([]scanner.TokenAndValue, 0, len(toks))
	for _, t := range toks {
		if t.Token == token.WHITESPACE || t.Token == token.COMMENT {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ParseFiles tokenizes and parses each regular source file into an *ast.File.
// Diagnostics across every file are accumulated rather than stopping at the
// first error; the returned error, if non-nil, unwraps to one *diag.Diagnostic
// per failure.
func ParseFiles(files ...string) (*token.FileSet, []*ast.File, error) {
	fset, tokensByFile, scanErr := scanner.ScanFiles(files...)
	if fset == nil {
		return fset, nil, scanErr
	}

	var errs diag.List
	errs.Extend(scanErr)
	result := make([]*ast.File, 0, len(files))
	for i, name := range files {
		toks := significant(tokensByFile[i])
		f := fset.File(name)
		if f == nil {
			continue // unreadable, already recorded by ScanFiles
		}
		root, ok := parseRoot(&errs, f, name, toks, "File")
		if !ok {
			continue
		}
		result = append(result, lowerFile(name, root))
	}
	errs.Sort()
	if combined := errs.Err(); combined != nil {
		return fset, result, combined
	}
	return fset, result, nil
}

// ParseBuiltinsFiles tokenizes and parses each builtins file (function
// signatures only, no bodies) into an *ast.BuiltinsFile.
func ParseBuiltinsFiles(files ...string) (*token.FileSet, []*ast.BuiltinsFile, error) {
	fset, tokensByFile, scanErr := scanner.ScanFiles(files...)
	if fset == nil {
		return fset, nil, scanErr
	}

	var errs diag.List
	errs.Extend(scanErr)
	result := make([]*ast.BuiltinsFile, 0, len(files))
	for i, name := range files {
		toks := significant(tokensByFile[i])
		f := fset.File(name)
		if f == nil {
			continue
		}
		root, ok := parseRoot(&errs, f, name, toks, "BuiltinsFile")
		if !ok {
			continue
		}
		result = append(result, lowerBuiltinsFile(name, root))
	}
	errs.Sort()
	if combined := errs.Err(); combined != nil {
		return fset, result, combined
	}
	return fset, result, nil
}

// parseRoot runs the grammar-driven matcher for startRule over toks and
// reports a diagnostic through errs on failure.
func parseRoot(errs *diag.List, f *token.File, name string, toks []scanner.TokenAndValue, startRule string) (*Node, bool) {
	if len(toks) <= 1 { // just the EOF sentinel: an entirely empty file
		errs.Add(token.Position{Filename: name}, diag.EmptyParseTree, "file %q has no content", name)
		return nil, false
	}

	m := newMatcher(grammar.Aaa, toks)
	root, ok := m.matchRoot(startRule)
	if ok {
		return root, true
	}

	idx := m.furthest
	if idx >= len(toks) {
		idx = len(toks) - 1
	}
	at := toks[idx]
	pos := f.Position(at.Value.Pos)
	// A keyword is reported as used in place of an identifier only when an
	// identifier at the same position lets the match get further.
	identSlot := false
	if at.Token.IsKeyword() {
		alt := append([]scanner.TokenAndValue(nil), toks...)
		alt[idx].Token = token.IDENT
		m2 := newMatcher(grammar.Aaa, alt)
		_, ok2 := m2.matchRoot(startRule)
		identSlot = ok2 || m2.furthest > idx
	}
	if identSlot {
		errs.Add(pos, diag.KeywordUsedAsIdentifier, "keyword %q cannot be used here", at.Token)
	} else if lit := at.Token.Literal(at.Value); lit != "" {
		errs.Add(pos, diag.UnexpectedToken, "unexpected %s %q", at.Token, lit)
	} else {
		errs.Add(pos, diag.UnexpectedToken, "unexpected %s", at.Token)
	}
	return nil, false
}
