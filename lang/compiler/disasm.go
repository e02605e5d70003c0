package compiler

import (
	"fmt"
	"strings"
)

// Disassemble renders a Funcode's instructions as one line per instruction,
// in the same spirit as the teacher's assembler text format (asm.go in a
// prior revision of this package): enough to eyeball a compiled function
// during debugging and to drive golden-style tests without re-parsing
// source. Unlike the teacher's format this is output-only; the machine
// package never reads it back.
func (fc *Funcode) Disassemble() string {
	var b strings.Builder
	fmt.Fprintf(&b, "function: %s %s args=%v\n", fc.File, fc.Name, fc.ArgNames)
	for i, in := range fc.Instructions {
		fmt.Fprintf(&b, "\t%4d  %s", i, in.Op)
		switch {
		case in.Op == PushInt || in.Op == PushBool || in.Op == PushArg:
			fmt.Fprintf(&b, " %d", in.IntArg)
		case in.Op == PushString || in.Op == FieldQuery || in.Op == FieldUpdate || in.Op == NewStruct:
			fmt.Fprintf(&b, " %q", in.StrArg)
		case isJump(in.Op):
			fmt.Fprintf(&b, " -> %d", in.Target)
		case in.Op == CallFunction:
			fmt.Fprintf(&b, " %s:%s", in.Call.File, in.Call.Name)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Disassemble renders every function of a compiled Program, entry first.
func (p *Program) Disassemble() string {
	var b strings.Builder
	if fc := p.Functions[p.Entry]; fc != nil {
		b.WriteString(fc.Disassemble())
	}
	for target, fc := range p.Functions {
		if target == p.Entry {
			continue
		}
		b.WriteString(fc.Disassemble())
	}
	return b.String()
}
