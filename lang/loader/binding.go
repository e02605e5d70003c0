package loader

import "github.com/aaa-lang/aaa/lang/ast"

// BindingKind identifies what an *ast.Identifier ultimately refers to, per
// §4.3's "each Identifier binds to own-argument, local-function,
// imported-function, local-struct, or (fallback) builtin".
type BindingKind int

// List of binding kinds.
const (
	BindArgument BindingKind = iota
	BindLocalFunction
	BindImportedFunction
	BindLocalStruct
	BindBuiltin
)

func (k BindingKind) String() string {
	switch k {
	case BindArgument:
		return "argument"
	case BindLocalFunction:
		return "local function"
	case BindImportedFunction:
		return "imported function"
	case BindLocalStruct:
		return "local struct"
	case BindBuiltin:
		return "builtin"
	default:
		return "unknown binding"
	}
}

// Binding is the resolution target stashed in ast.Identifier.Binding once
// lang/loader has cross-referenced a file.
type Binding struct {
	Kind BindingKind

	Arg      *ast.Arg      // set when Kind == BindArgument
	Function *ast.Function // set when Kind is a function kind
	Struct   *ast.Struct   // set when Kind == BindLocalStruct

	// File is the name of the file the binding's definition lives in: the
	// import's resolved source file for an imported function or struct, the
	// builtins file for BindBuiltin, and the identifier's own file otherwise.
	File string
}
