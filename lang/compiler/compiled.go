package compiler

// CallTarget is the resolved location of a callable: the file that declares
// it and its NameKey (plain name, or "Type:func" for a member function).
// Builtins use the loader's builtins-file path as File.
type CallTarget struct {
	File string
	Name string
}

// Instruction is the idiomatic-Go rendering of spec.md's closed Instruction
// sum type: one struct interpreted according to Op, the same way the teacher
// renders its own larger instruction set as (Opcode, uint32 arg) rather than
// as one type per opcode.
type Instruction struct {
	Op      Opcode
	IntArg  int64
	StrArg  string
	Target  int // absolute index into the same Funcode's Instructions, for Jump/JumpIfFalse
	Call    CallTarget
}

// Funcode is the compiled form of one function body: a flat instruction list
// with every jump target already patched to an absolute index.
type Funcode struct {
	File         string
	Name         string // NameKey of the source ast.Function
	ArgNames     []string
	Instructions []Instruction
}

// Program is every compiled function reachable from the entry point, keyed
// by CallTarget so the interpreter can resolve a CallFunction instruction in
// O(1).
type Program struct {
	Entry     CallTarget
	Functions map[CallTarget]*Funcode
}
