package loader

import (
	"github.com/aaa-lang/aaa/lang/ast"
	"github.com/aaa-lang/aaa/lang/diag"
)

// resolveProgram runs the loader's second pass over every successfully
// loaded file: import resolution, type resolution, and identifier binding.
func resolveProgram(prog *Program, errs *diag.List) {
	for filename, f := range prog.Files {
		resolveImports(prog, errs, filename, f)
	}
	for filename, f := range prog.Files {
		resolveTypes(prog, errs, filename, f)
	}
	for filename, f := range prog.Files {
		resolveBodies(prog, errs, filename, f)
	}
}

// resolveImports resolves each Import.Source to the target file's table and
// each imported item to that table's entry, reporting ImportedItemNotFound
// when the name doesn't exist there and IndirectImport when it names another
// import rather than a function or struct.
func resolveImports(prog *Program, errs *diag.List, filename string, f *ast.File) {
	table := prog.Tables[filename]
	for _, imp := range f.Imports {
		target := importTarget(filename, imp.Source)
		targetTable, ok := prog.Tables[target]
		if !ok {
			// Already reported (FileNotFound, cycle, or absolute path) when
			// the file was loaded.
			continue
		}
		for _, item := range imp.Items {
			own := table[item.ImportedName]
			if own == nil || own.Kind != identImport || own.Item != item {
				continue
			}
			entry, ok := targetTable[item.OriginalName]
			if !ok {
				errs.Add(prog.Pos(filename, item.Pos), diag.ImportedItemNotFound,
					"%q not found in %q", item.OriginalName, target)
				continue
			}
			if entry.Kind == identImport {
				errs.Add(prog.Pos(filename, item.Pos), diag.IndirectImport,
					"%q in %q is itself imported; import it from its original source instead", item.OriginalName, target)
				continue
			}
			own.ResolvedFile = target
			own.ResolvedTarget = entry
		}
	}
}

// resolveTypes resolves every Field, Arg and return Type of f's structs and
// functions to either a placeholder bound to the declaring function/struct's
// type-parameter scope, or a concrete named type.
func resolveTypes(prog *Program, errs *diag.List, filename string, f *ast.File) {
	for _, s := range f.Structs {
		scope := paramScope(s.TypeParams)
		for _, field := range s.Fields {
			resolveType(prog, errs, filename, scope, field.Type)
		}
	}
	for _, fn := range f.Functions {
		scope := paramScope(fn.TypeParams)
		for _, a := range fn.Args {
			resolveType(prog, errs, filename, scope, a.Type)
		}
		for _, rt := range fn.ReturnTypes {
			resolveType(prog, errs, filename, scope, rt)
		}
	}
}

func paramScope(names []string) map[string]bool {
	scope := make(map[string]bool, len(names))
	for _, n := range names {
		scope[n] = true
	}
	return scope
}

// resolveType marks t as a placeholder if its name is bound in scope,
// otherwise leaves it as a concrete named type and recurses into any
// instantiated parameters.
func resolveType(prog *Program, errs *diag.List, filename string, scope map[string]bool, t *ast.Type) {
	if t == nil {
		return
	}
	if scope[t.Name] {
		t.Placeholder = true
		return
	}
	t.Placeholder = false
	for _, p := range t.Params {
		resolveType(prog, errs, filename, scope, p)
	}
}

// resolveBodies walks every function's body binding each Identifier to its
// referent, reporting UnknownIdentifier for names that resolve nowhere.
func resolveBodies(prog *Program, errs *diag.List, filename string, f *ast.File) {
	table := prog.Tables[filename]
	for _, fn := range f.Functions {
		if fn.Body == nil {
			continue
		}
		bindBody(prog, errs, filename, table, fn, fn.Body)
	}
}

func bindBody(prog *Program, errs *diag.List, filename string, table fileTable, fn *ast.Function, body *ast.Body) {
	for _, item := range body.Items {
		switch it := item.(type) {
		case *ast.Identifier:
			bindIdentifier(prog, errs, filename, table, fn, it)
		case *ast.Branch:
			bindBody(prog, errs, filename, table, fn, it.Condition)
			bindBody(prog, errs, filename, table, fn, it.IfBody)
			if it.ElseBody != nil {
				bindBody(prog, errs, filename, table, fn, it.ElseBody)
			}
		case *ast.Loop:
			bindBody(prog, errs, filename, table, fn, it.Condition)
			bindBody(prog, errs, filename, table, fn, it.Body)
		case *ast.StructFieldUpdate:
			bindBody(prog, errs, filename, table, fn, it.NewValueExpr)
		}
	}
}

func bindIdentifier(prog *Program, errs *diag.List, filename string, table fileTable, fn *ast.Function, id *ast.Identifier) {
	for _, arg := range fn.Args {
		if arg.Name == id.Name {
			id.Binding = &Binding{Kind: BindArgument, Arg: arg, File: filename}
			return
		}
	}

	if entry, ok := table[id.Name]; ok {
		switch entry.Kind {
		case identFunction:
			id.Binding = &Binding{Kind: BindLocalFunction, Function: entry.Function, File: filename}
			return
		case identStruct:
			id.Binding = &Binding{Kind: BindLocalStruct, Struct: entry.Struct, File: filename}
			return
		case identImport:
			if entry.ResolvedTarget == nil {
				// Already reported by resolveImports.
				return
			}
			switch entry.ResolvedTarget.Kind {
			case identFunction:
				id.Binding = &Binding{Kind: BindImportedFunction, Function: entry.ResolvedTarget.Function, File: entry.ResolvedFile}
			case identStruct:
				id.Binding = &Binding{Kind: BindLocalStruct, Struct: entry.ResolvedTarget.Struct, File: entry.ResolvedFile}
			}
			return
		}
	}

	if prog.builtinTable != nil {
		if entry, ok := prog.builtinTable[id.Name]; ok && entry.Kind == identFunction {
			id.Binding = &Binding{Kind: BindBuiltin, Function: entry.Function, File: prog.builtinPath}
			return
		}
	}

	errs.Add(prog.Pos(filename, id.Pos), diag.UnknownIdentifier,
		"%q does not refer to an argument, function, struct, or builtin", id.Name)
}
