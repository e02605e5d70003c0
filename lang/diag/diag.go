// Package diag defines the diagnostic kinds and the accumulator used by
// every stage of the pipeline (tokenizer, parser, loader, checker, machine)
// to report errors back to the caller.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aaa-lang/aaa/lang/token"
)

// Kind identifies the category of a Diagnostic. The numeric grouping mirrors
// the stages of the pipeline: tokenizing, parsing, cross-referencing/loading,
// type checking and running.
type Kind int8

const (
	_ Kind = iota

	// Tokenizer errors.
	IllegalCharacter
	UnterminatedString
	InvalidEscapeSequence
	IntegerOutOfRange

	// Parser errors.
	UnexpectedToken
	EmptyParseTree
	KeywordUsedAsIdentifier

	// Loader / cross-referencer errors.
	FileNotFound
	CyclicImport
	IndirectImport
	AbsoluteImportPath
	ImportedItemNotFound
	CollidingIdentifier
	UnknownIdentifier
	MainFunctionNotFound

	// Type checker errors.
	StackTypesError
	BranchTypeError
	LoopTypeError
	UnknownFunction
	UnknownStruct
	UnknownField
	InvalidMemberFunction

	// Runtime (machine) errors.
	StackUnderflow
	UnexpectedType
	StackNotEmptyAtExit
	InvalidJump
	DivisionByZero
	ModuloByZero
)

var kindNames = [...]string{
	IllegalCharacter:        "illegal character",
	UnterminatedString:      "unterminated string literal",
	InvalidEscapeSequence:   "invalid escape sequence",
	IntegerOutOfRange:       "integer literal out of range",
	UnexpectedToken:         "unexpected token",
	EmptyParseTree:          "empty parse tree",
	KeywordUsedAsIdentifier: "keyword used as identifier",
	FileNotFound:            "file not found",
	CyclicImport:            "cyclic import",
	IndirectImport:          "indirect import",
	AbsoluteImportPath:      "absolute import path",
	ImportedItemNotFound:    "imported item not found",
	CollidingIdentifier:     "colliding identifier",
	UnknownIdentifier:       "unknown identifier",
	MainFunctionNotFound:    "main function not found",
	StackTypesError:         "stack types error",
	BranchTypeError:         "branch type error",
	LoopTypeError:           "loop type error",
	UnknownFunction:         "unknown function",
	UnknownStruct:           "unknown struct",
	UnknownField:            "unknown field",
	InvalidMemberFunction:   "invalid member function",
	StackUnderflow:          "stack underflow",
	UnexpectedType:          "unexpected type",
	StackNotEmptyAtExit:     "stack not empty at exit",
	InvalidJump:             "invalid jump",
	DivisionByZero:          "division by zero",
	ModuloByZero:            "modulo by zero",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown diagnostic kind"
}

// Diagnostic is a single error or warning attributed to a position in a
// source file.
type Diagnostic struct {
	Pos     token.Position
	Kind    Kind
	Message string
}

func (d Diagnostic) Error() string {
	if d.Pos.Filename == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Kind, d.Message)
}

// List is an accumulator of Diagnostics, following the same accumulate-then-
// report-all-errors discipline used by every stage of the pipeline: a single
// file load or type check run collects every diagnostic it finds rather than
// aborting on the first one.
type List struct {
	items []Diagnostic
}

// Add appends a new Diagnostic to the list.
func (l *List) Add(pos token.Position, kind Kind, format string, args ...any) {
	l.items = append(l.items, Diagnostic{
		Pos:     pos,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// Len reports the number of accumulated diagnostics.
func (l *List) Len() int { return len(l.items) }

// Extend appends every Diagnostic carried by err (as produced by another
// List's Err()) onto l. It is a no-op if err is nil or carries no
// Diagnostics.
func (l *List) Extend(err error) {
	u, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return
	}
	for _, e := range u.Unwrap() {
		if d, ok := e.(*Diagnostic); ok {
			l.items = append(l.items, *d)
		}
	}
}

// All returns the accumulated diagnostics in sorted order.
func (l *List) All() []Diagnostic {
	l.Sort()
	return l.items
}

// Sort orders the diagnostics by file, then line, then column.
func (l *List) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		a, b := l.items[i].Pos, l.items[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
}

// Err returns the list as an error (nil if the list is empty). The returned
// error's Error() method joins every diagnostic message on its own line, and
// its Unwrap() []error exposes each *Diagnostic to errors.As.
func (l *List) Err() error {
	if len(l.items) == 0 {
		return nil
	}
	l.Sort()
	return &multiError{items: l.items}
}

type multiError struct {
	items []Diagnostic
}

func (m *multiError) Error() string {
	var sb strings.Builder
	for i, d := range m.items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual diagnostics for errors.Is/As/Join-style
// inspection.
func (m *multiError) Unwrap() []error {
	errs := make([]error, len(m.items))
	for i, d := range m.items {
		d := d
		errs[i] = &d
	}
	return errs
}
