package loader

import (
	"github.com/aaa-lang/aaa/lang/ast"
	"github.com/aaa-lang/aaa/lang/diag"
	"github.com/aaa-lang/aaa/lang/token"
)

// identKind distinguishes what a fileTable entry names.
type identKind int

const (
	identFunction identKind = iota
	identStruct
	identImport
)

// identEntry is one entry of a file's identifier table: a function, a
// struct, or an imported name, keyed by the name it is visible under within
// its own file.
type identEntry struct {
	Kind     identKind
	Pos      token.Pos
	Function *ast.Function
	Struct   *ast.Struct
	Import   *ast.Import
	Item     *ast.ImportItem

	// ResolvedFile and ResolvedTarget are filled in by resolveImports for
	// Kind == identImport: the file Import.Source resolves to, and that
	// file's own table entry for Item.OriginalName.
	ResolvedFile   string
	ResolvedTarget *identEntry
}

// fileTable is the per-file identifier table built by buildTable: every
// function (by NameKey), struct, and imported name declared in the file,
// keyed by its locally-visible name.
type fileTable map[string]*identEntry

// buildTable constructs f's identifier table, reporting a CollidingIdentifier
// diagnostic for every name declared more than once.
func buildTable(fset *token.FileSet, name string, f *ast.File, errs *diag.List) fileTable {
	t := make(fileTable)
	pos := func(p token.Pos) token.Position {
		if file := fset.File(name); file != nil {
			return file.Position(p)
		}
		return token.Position{Filename: name}
	}

	declare := func(key string, entry *identEntry) {
		if existing, ok := t[key]; ok {
			errs.Add(pos(entry.Pos), diag.CollidingIdentifier,
				"%q already declared at %s", key, pos(existing.Pos))
			return
		}
		t[key] = entry
	}

	for _, imp := range f.Imports {
		for _, it := range imp.Items {
			declare(it.ImportedName, &identEntry{Kind: identImport, Pos: it.Pos, Import: imp, Item: it})
		}
	}
	for _, s := range f.Structs {
		declare(s.Name, &identEntry{Kind: identStruct, Pos: s.Pos, Struct: s})
	}
	for _, fn := range f.Functions {
		declare(fn.NameKey(), &identEntry{Kind: identFunction, Pos: fn.Pos, Function: fn})
	}

	return t
}

// buildBuiltinTable constructs the identifier table for the parsed builtins
// file: every declared signature, keyed by NameKey, reporting
// CollidingIdentifier for duplicates.
func buildBuiltinTable(fset *token.FileSet, name string, b *ast.BuiltinsFile, errs *diag.List) fileTable {
	t := make(fileTable)
	pos := func(p token.Pos) token.Position {
		if file := fset.File(name); file != nil {
			return file.Position(p)
		}
		return token.Position{Filename: name}
	}

	for _, fn := range b.Functions {
		key := fn.NameKey()
		if existing, ok := t[key]; ok {
			errs.Add(pos(fn.Pos), diag.CollidingIdentifier,
				"%q already declared at %s", key, pos(existing.Pos))
			continue
		}
		t[key] = &identEntry{Kind: identFunction, Pos: fn.Pos, Function: fn}
	}
	return t
}
