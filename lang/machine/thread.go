package machine

import (
	"io"
	"os"

	"github.com/aaa-lang/aaa/lang/compiler"
)

// Thread holds the mutable execution state of one run of a compiled
// Program: the operand stack, the call stack of Frames, and the I/O
// abstractions builtins write through. The entire toolchain is
// single-threaded and synchronous (§5), so unlike the teacher's Thread there
// is no context, step budget, or cancellation to plumb through.
type Thread struct {
	// Stdout and Stderr default to os.Stdout/os.Stderr when nil. Verbose
	// tracing (§4.6) always goes to Stderr regardless of this field, since it
	// is diagnostic output rather than program output.
	Stdout io.Writer
	Stderr io.Writer

	// Verbose prints stack state and the current instruction to Stderr
	// between steps, per §4.6.
	Verbose bool

	stack  []Value
	frames []*Frame
}

func (th *Thread) init() {
	if th.Stdout == nil {
		th.Stdout = os.Stdout
	}
	if th.Stderr == nil {
		th.Stderr = os.Stderr
	}
}

func (th *Thread) push(v Value) { th.stack = append(th.stack, v) }

func (th *Thread) pop() (Value, bool) {
	n := len(th.stack)
	if n == 0 {
		return nil, false
	}
	v := th.stack[n-1]
	th.stack = th.stack[:n-1]
	return v, true
}

func (th *Thread) currentFrame() *Frame { return th.frames[len(th.frames)-1] }

func (th *Thread) pushFrame(target compiler.CallTarget, code *compiler.Funcode, args []Value) {
	th.frames = append(th.frames, &Frame{Target: target, Code: code, Args: args})
}

func (th *Thread) popFrame() { th.frames = th.frames[:len(th.frames)-1] }
