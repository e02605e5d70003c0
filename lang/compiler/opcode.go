package compiler

import "fmt"

// Increment this to force recompilation of any saved bytecode.
const Version = 0

type Opcode uint8

// "x Op x x" is a "stack picture": the state of the operand stack before and
// after execution of the instruction. Ops with an IntArg/StrArg/Target/Call
// operand are documented on Instruction itself.
const ( //nolint:revive
	Nop Opcode = iota // - Nop -

	PushInt    // - PushInt<IntArg>       i
	PushBool   // - PushBool<IntArg>      b
	PushString // - PushString<StrArg>    s

	// PushArg is the one opcode beyond spec.md's literal instruction list
	// (see DESIGN.md, argument-binding open question): arguments live in the
	// frame rather than pre-pushed on the value stack, so a body's reference
	// to one needs an explicit push. IntArg is the argument's position in
	// Funcode.ArgNames.
	PushArg // - PushArg<IntArg> value

	Plus     // a b Plus     a+b   (int+int or str+str)
	Minus    // a b Minus    a-b
	Multiply // a b Multiply a*b
	Divide   // a b Divide   a/b
	Modulo   // a b Modulo   a%b

	Equals    // a b Equals    a=b
	NotEqual  // a b NotEqual  a!=b
	Less      // a b Less      a<b
	LessEq    // a b LessEq    a<=b
	Greater   // a b Greater   a>b
	GreaterEq // a b GreaterEq a>=b

	And // a b And a&&b
	Or  // a b Or  a||b
	Not // a   Not !a

	Print // x Print -   (writes x to standard output)

	Drop // x       Drop       -
	Dup  // x       Dup        x x
	Swap // x y     Swap       y x
	Over // x y     Over       x y x
	Rot  // x y z   Rot        y z x

	Substr // s start end Substr substring
	StrLen // s         StrLen len
	Concat // a b       Concat a+b

	FieldQuery  // struct        FieldQuery<StrArg>  value
	FieldUpdate // struct value  FieldUpdate<StrArg> struct

	// NewStruct is the other opcode beyond spec.md's literal instruction
	// list: a bare reference to a struct's type name (an ast.Identifier that
	// lang/loader binds as BindLocalStruct) constructs a fresh,
	// field-empty instance of it, to be filled in by FieldUpdate. StrArg is
	// the struct's declared name (generic parameters are not retained at
	// this layer; see DESIGN.md).
	NewStruct // - NewStruct<StrArg> struct

	// --- opcodes with a jump Target go below this line ---

	Jump        // -    Jump<Target>        -          (unconditional)
	JumpIfFalse // cond JumpIfFalse<Target> -          (pops; jumps if false)

	// --- opcodes with a Call operand go below this line ---

	CallFunction // ... CallFunction<Call> ... (stack effect depends on callee)

	OpcodeJumpMin = Jump
	OpcodeJumpMax = JumpIfFalse
)

var opcodeNames = [...]string{
	Nop:          "nop",
	PushInt:      "push_int",
	PushBool:     "push_bool",
	PushString:   "push_string",
	PushArg:      "push_arg",
	Plus:         "plus",
	Minus:        "minus",
	Multiply:     "multiply",
	Divide:       "divide",
	Modulo:       "modulo",
	Equals:       "equals",
	NotEqual:     "not_equal",
	Less:         "less",
	LessEq:       "less_eq",
	Greater:      "greater",
	GreaterEq:    "greater_eq",
	And:          "and",
	Or:           "or",
	Not:          "not",
	Print:        "print",
	Drop:         "drop",
	Dup:          "dup",
	Swap:         "swap",
	Over:         "over",
	Rot:          "rot",
	Substr:       "substr",
	StrLen:       "strlen",
	Concat:       "concat",
	FieldQuery:   "field_query",
	FieldUpdate:  "field_update",
	NewStruct:    "new_struct",
	Jump:         "jump",
	JumpIfFalse:  "jump_if_false",
	CallFunction: "call_function",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

func isJump(op Opcode) bool {
	return OpcodeJumpMin <= op && op <= OpcodeJumpMax
}

const variableStackEffect = 0x7f

// stackEffect records the effect on the size of the operand stack of every
// opcode that doesn't depend on its operand's runtime type. CallFunction's
// effect depends on the callee's signature and is computed separately by the
// checker/interpreter, not looked up here.
var stackEffect = [...]int8{
	Nop:          0,
	PushInt:      +1,
	PushBool:     +1,
	PushString:   +1,
	PushArg:      +1,
	Plus:         -1,
	Minus:        -1,
	Multiply:     -1,
	Divide:       -1,
	Modulo:       -1,
	Equals:       -1,
	NotEqual:     -1,
	Less:         -1,
	LessEq:       -1,
	Greater:      -1,
	GreaterEq:    -1,
	And:          -1,
	Or:           -1,
	Not:          0,
	Print:        -1,
	Drop:         -1,
	Dup:          +1,
	Swap:         0,
	Over:         +1,
	Rot:          0,
	Substr:       -2,
	StrLen:       0,
	Concat:       -1,
	FieldQuery:   0,
	FieldUpdate:  -1,
	NewStruct:    +1,
	Jump:         0,
	JumpIfFalse:  -1,
	CallFunction: variableStackEffect,
}
