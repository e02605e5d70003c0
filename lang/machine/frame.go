package machine

import "github.com/aaa-lang/aaa/lang/compiler"

// Frame records one call to an aaa function: its code, its instruction
// pointer, and the values its arguments were bound to (per the argument-
// binding model of lang/checker's §4.4 Open Question resolution — arguments
// live here, not pre-pushed onto the operand stack).
type Frame struct {
	Target compiler.CallTarget
	Code   *compiler.Funcode
	IP     int
	Args   []Value
}

func (fr *Frame) arg(i int64) Value {
	return fr.Args[i]
}
