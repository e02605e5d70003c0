// Package machine implements the interpreter of §4.6: a value stack, a call
// stack of Frames, and a dispatch loop that executes one compiler.Instruction
// at a time against a compiler.Program.
package machine

import (
	"fmt"

	"github.com/aaa-lang/aaa/lang/compiler"
	"github.com/aaa-lang/aaa/lang/diag"
	"github.com/aaa-lang/aaa/lang/token"
)

// Run executes prog to completion on th, starting a frame at prog.Entry's IP
// 0. It returns the single Diagnostic describing the first runtime error
// encountered (per §7, machine errors are not accumulated the way loader/
// checker errors are), or nil on a clean exit.
func Run(prog *compiler.Program, th *Thread) error {
	th.init()

	entry, ok := prog.Functions[prog.Entry]
	if !ok {
		return &diag.Diagnostic{Kind: diag.MainFunctionNotFound,
			Message: fmt.Sprintf("%s:%s has no compiled body", prog.Entry.File, prog.Entry.Name)}
	}
	th.pushFrame(prog.Entry, entry, nil)

	for len(th.frames) > 0 {
		fr := th.currentFrame()
		if fr.IP >= len(fr.Code.Instructions) {
			th.popFrame()
			continue
		}
		in := fr.Code.Instructions[fr.IP]

		if th.Verbose {
			fmt.Fprintf(th.Stderr, "%s:%s ip=%d %s stack=%v\n", fr.Target.File, fr.Target.Name, fr.IP, in.Op, th.stack)
		}

		fr.IP++
		if err := th.step(prog, fr, in); err != nil {
			return err
		}
	}

	if len(th.stack) != 0 {
		return th.errf(diag.StackNotEmptyAtExit, "%d value(s) left on the stack at exit", len(th.stack))
	}
	return nil
}

func (th *Thread) errf(kind diag.Kind, format string, args ...any) error {
	filename := ""
	if len(th.frames) > 0 {
		filename = th.currentFrame().Target.File
	}
	return &diag.Diagnostic{
		Pos:     token.Position{Filename: filename},
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func (th *Thread) popChecked() (Value, error) {
	v, ok := th.pop()
	if !ok {
		return nil, th.errf(diag.StackUnderflow, "expected a value on the stack")
	}
	return v, nil
}

func (th *Thread) step(prog *compiler.Program, fr *Frame, in compiler.Instruction) error {
	switch in.Op {
	case compiler.Nop:
		return nil

	case compiler.PushInt:
		th.push(IntValue(in.IntArg))
		return nil
	case compiler.PushBool:
		th.push(BoolValue(in.IntArg != 0))
		return nil
	case compiler.PushString:
		th.push(StrValue(in.StrArg))
		return nil
	case compiler.PushArg:
		if in.IntArg < 0 || int(in.IntArg) >= len(fr.Args) {
			return th.errf(diag.StackUnderflow, "argument index %d out of range for %d argument(s)", in.IntArg, len(fr.Args))
		}
		th.push(fr.arg(in.IntArg))
		return nil

	case compiler.Plus:
		return th.binaryInt(func(a, b int64) Value { return IntValue(a + b) })
	case compiler.Minus:
		return th.binaryInt(func(a, b int64) Value { return IntValue(a - b) })
	case compiler.Multiply:
		return th.binaryInt(func(a, b int64) Value { return IntValue(a * b) })
	case compiler.Divide:
		return th.binaryIntChecked(diag.DivisionByZero, func(a, b int64) (Value, bool) {
			if b == 0 {
				return nil, false
			}
			return IntValue(a / b), true
		})
	case compiler.Modulo:
		return th.binaryIntChecked(diag.ModuloByZero, func(a, b int64) (Value, bool) {
			if b == 0 {
				return nil, false
			}
			return IntValue(a % b), true
		})

	case compiler.Equals:
		return th.binaryCompare(true)
	case compiler.NotEqual:
		return th.binaryCompare(false)
	case compiler.Less:
		return th.binaryInt(func(a, b int64) Value { return BoolValue(a < b) })
	case compiler.LessEq:
		return th.binaryInt(func(a, b int64) Value { return BoolValue(a <= b) })
	case compiler.Greater:
		return th.binaryInt(func(a, b int64) Value { return BoolValue(a > b) })
	case compiler.GreaterEq:
		return th.binaryInt(func(a, b int64) Value { return BoolValue(a >= b) })

	case compiler.And:
		return th.binaryBool(func(a, b bool) bool { return a && b })
	case compiler.Or:
		return th.binaryBool(func(a, b bool) bool { return a || b })
	case compiler.Not:
		v, err := th.popChecked()
		if err != nil {
			return err
		}
		b, ok := v.(BoolValue)
		if !ok {
			return th.errf(diag.UnexpectedType, "not: expected bool, got %s", v.Type())
		}
		th.push(BoolValue(!b))
		return nil

	case compiler.Print:
		v, err := th.popChecked()
		if err != nil {
			return err
		}
		// §6: "." prints without a trailing newline; a program spells its own
		// newlines with "\n" ..
		fmt.Fprint(th.Stdout, v.String())
		return nil

	case compiler.Drop:
		_, err := th.popChecked()
		return err
	case compiler.Dup:
		v, err := th.popChecked()
		if err != nil {
			return err
		}
		th.push(v)
		th.push(v)
		return nil
	case compiler.Swap:
		y, err := th.popChecked()
		if err != nil {
			return err
		}
		x, err := th.popChecked()
		if err != nil {
			return err
		}
		th.push(y)
		th.push(x)
		return nil
	case compiler.Over:
		y, err := th.popChecked()
		if err != nil {
			return err
		}
		x, err := th.popChecked()
		if err != nil {
			return err
		}
		th.push(x)
		th.push(y)
		th.push(x)
		return nil
	case compiler.Rot:
		z, err := th.popChecked()
		if err != nil {
			return err
		}
		y, err := th.popChecked()
		if err != nil {
			return err
		}
		x, err := th.popChecked()
		if err != nil {
			return err
		}
		th.push(y)
		th.push(z)
		th.push(x)
		return nil

	case compiler.Substr:
		return th.substr()
	case compiler.StrLen:
		v, err := th.popChecked()
		if err != nil {
			return err
		}
		s, ok := v.(StrValue)
		if !ok {
			return th.errf(diag.UnexpectedType, "strlen: expected str, got %s", v.Type())
		}
		th.push(IntValue(len(s)))
		return nil
	case compiler.Concat:
		b, err := th.popChecked()
		if err != nil {
			return err
		}
		a, err := th.popChecked()
		if err != nil {
			return err
		}
		as, aok := a.(StrValue)
		bs, bok := b.(StrValue)
		if !aok || !bok {
			return th.errf(diag.UnexpectedType, "+: expected str str, got %s %s", a.Type(), b.Type())
		}
		th.push(as + bs)
		return nil

	case compiler.FieldQuery:
		return th.fieldQuery(in.StrArg)
	case compiler.FieldUpdate:
		return th.fieldUpdate(in.StrArg)
	case compiler.NewStruct:
		th.push(&StructValue{Name: in.StrArg, Fields: map[string]Value{}})
		return nil

	case compiler.Jump:
		return th.jump(fr, in.Target)
	case compiler.JumpIfFalse:
		v, err := th.popChecked()
		if err != nil {
			return err
		}
		b, ok := v.(BoolValue)
		if !ok {
			return th.errf(diag.UnexpectedType, "if: expected bool, got %s", v.Type())
		}
		if !bool(b) {
			return th.jump(fr, in.Target)
		}
		return nil

	case compiler.CallFunction:
		return th.call(prog, in.Call)

	default:
		return th.errf(diag.UnexpectedType, "unhandled opcode %s", in.Op)
	}
}

func (th *Thread) jump(fr *Frame, target int) error {
	if target < 0 || target > len(fr.Code.Instructions) {
		return th.errf(diag.InvalidJump, "jump target %d out of range (0..%d)", target, len(fr.Code.Instructions))
	}
	fr.IP = target
	return nil
}

func (th *Thread) binaryInt(f func(a, b int64) Value) error {
	b, err := th.popChecked()
	if err != nil {
		return err
	}
	a, err := th.popChecked()
	if err != nil {
		return err
	}
	ai, aok := a.(IntValue)
	bi, bok := b.(IntValue)
	if !aok || !bok {
		return th.errf(diag.UnexpectedType, "expected int int, got %s %s", a.Type(), b.Type())
	}
	th.push(f(int64(ai), int64(bi)))
	return nil
}

func (th *Thread) binaryIntChecked(onZero diag.Kind, f func(a, b int64) (Value, bool)) error {
	b, err := th.popChecked()
	if err != nil {
		return err
	}
	a, err := th.popChecked()
	if err != nil {
		return err
	}
	ai, aok := a.(IntValue)
	bi, bok := b.(IntValue)
	if !aok || !bok {
		return th.errf(diag.UnexpectedType, "expected int int, got %s %s", a.Type(), b.Type())
	}
	v, ok := f(int64(ai), int64(bi))
	if !ok {
		return th.errf(onZero, "divisor is zero")
	}
	th.push(v)
	return nil
}

func (th *Thread) binaryBool(f func(a, b bool) bool) error {
	b, err := th.popChecked()
	if err != nil {
		return err
	}
	a, err := th.popChecked()
	if err != nil {
		return err
	}
	ab, aok := a.(BoolValue)
	bb, bok := b.(BoolValue)
	if !aok || !bok {
		return th.errf(diag.UnexpectedType, "expected bool bool, got %s %s", a.Type(), b.Type())
	}
	th.push(BoolValue(f(bool(ab), bool(bb))))
	return nil
}

// binaryCompare implements "=" and "!=": valid across int, bool and str
// operands of matching type, unlike the ordered comparisons which are
// int-only. wantEqual selects which of the two operators this call is.
func (th *Thread) binaryCompare(wantEqual bool) error {
	b, err := th.popChecked()
	if err != nil {
		return err
	}
	a, err := th.popChecked()
	if err != nil {
		return err
	}
	if a.Type() != b.Type() {
		return th.errf(diag.UnexpectedType, "=: expected matching types, got %s %s", a.Type(), b.Type())
	}

	var eq bool
	switch av := a.(type) {
	case IntValue:
		eq = av == b.(IntValue)
	case BoolValue:
		eq = av == b.(BoolValue)
	case StrValue:
		eq = av == b.(StrValue)
	default:
		return th.errf(diag.UnexpectedType, "=: unsupported type %s", a.Type())
	}
	th.push(BoolValue(eq == wantEqual))
	return nil
}

// substr implements s[start:end] with §8's boundary clamps rather than
// erroring on an out-of-range request: start >= len(s) yields "", end
// clamps down to len(s), and an end at or before start yields "".
func (th *Thread) substr() error {
	end, err := th.popChecked()
	if err != nil {
		return err
	}
	start, err := th.popChecked()
	if err != nil {
		return err
	}
	s, err := th.popChecked()
	if err != nil {
		return err
	}
	sv, svok := s.(StrValue)
	startv, startok := start.(IntValue)
	endv, endok := end.(IntValue)
	if !svok || !startok || !endok {
		return th.errf(diag.UnexpectedType, "substr: expected str int int, got %s %s %s", s.Type(), start.Type(), end.Type())
	}

	lo, hi, n := int64(startv), int64(endv), int64(len(sv))
	if lo < 0 || lo >= n {
		th.push(StrValue(""))
		return nil
	}
	if hi > n {
		hi = n
	}
	if hi <= lo {
		th.push(StrValue(""))
		return nil
	}
	th.push(sv[lo:hi])
	return nil
}

func (th *Thread) fieldQuery(field string) error {
	v, err := th.popChecked()
	if err != nil {
		return err
	}
	s, ok := v.(*StructValue)
	if !ok {
		return th.errf(diag.UnexpectedType, "%q?: expected a struct, got %s", field, v.Type())
	}
	fv, ok := s.Fields[field]
	if !ok {
		return th.errf(diag.UnexpectedType, "%s has no field %q", s.Name, field)
	}
	th.push(fv)
	return nil
}

func (th *Thread) fieldUpdate(field string) error {
	val, err := th.popChecked()
	if err != nil {
		return err
	}
	v, err := th.popChecked()
	if err != nil {
		return err
	}
	s, ok := v.(*StructValue)
	if !ok {
		return th.errf(diag.UnexpectedType, "%q!: expected a struct, got %s", field, v.Type())
	}
	s.Fields[field] = val
	th.push(s)
	return nil
}

// call resolves a CallFunction instruction: if target names a compiled
// function it pushes a new Frame with its arguments popped off the operand
// stack; otherwise it is a builtin, dispatched synchronously against the
// operand stack with no frame pushed, per §4.6.
func (th *Thread) call(prog *compiler.Program, target compiler.CallTarget) error {
	if callee, ok := prog.Functions[target]; ok {
		args := make([]Value, len(callee.ArgNames))
		for i := len(args) - 1; i >= 0; i-- {
			v, err := th.popChecked()
			if err != nil {
				return err
			}
			args[i] = v
		}
		th.pushFrame(target, callee, args)
		return nil
	}
	return th.callBuiltin(target.Name)
}
