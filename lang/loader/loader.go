package loader

import (
	"path/filepath"
	"strings"

	"github.com/aaa-lang/aaa/lang/ast"
	"github.com/aaa-lang/aaa/lang/diag"
	"github.com/aaa-lang/aaa/lang/parser"
	"github.com/aaa-lang/aaa/lang/token"
)

// Program is the fully loaded and cross-referenced result of Load: every
// file reachable from the entry point, plus the builtin signatures bodies
// fall back to when no local or imported function matches.
type Program struct {
	Entry    string
	Files    map[string]*ast.File
	Tables   map[string]fileTable
	Builtins *ast.BuiltinsFile

	fsets        map[string]*token.FileSet
	builtinPath  string
	builtinFset  *token.FileSet
	builtinTable fileTable
}

// BuiltinFile returns the path of the parsed builtins file, the File a
// BindBuiltin Binding reports itself as living in.
func (p *Program) BuiltinFile() string { return p.builtinPath }

// Pos resolves a Pos scanned from the named file into a fully-attributed
// Position, falling back to just the filename if the file's FileSet entry
// is unavailable.
func (p *Program) Pos(filename string, at token.Pos) token.Position {
	fset := p.fsets[filename]
	if fset == nil && filename == p.builtinPath {
		fset = p.builtinFset
	}
	if fset != nil {
		if f := fset.File(filename); f != nil {
			return f.Position(at)
		}
	}
	return token.Position{Filename: filename}
}

// Load parses cfg's builtins file, then recursively loads entryFile and
// every file it transitively imports, cross-referencing each one. Every
// diagnostic from every stage and every file is accumulated before
// returning, per the loader's "report everything in one run" propagation
// policy.
func Load(entryFile string, cfg Config) (*Program, error) {
	var errs diag.List

	prog := &Program{
		Entry:  entryFile,
		Files:  make(map[string]*ast.File),
		Tables: make(map[string]fileTable),
		fsets:  make(map[string]*token.FileSet),
	}

	prog.builtinPath = filepath.Join(cfg.StdlibPath, "builtins.aaa")
	bfset, builtinsFiles, err := parser.ParseBuiltinsFiles(prog.builtinPath)
	errs.Extend(err)
	if len(builtinsFiles) > 0 {
		prog.Builtins = builtinsFiles[0]
		prog.builtinFset = bfset
		prog.builtinTable = buildBuiltinTable(bfset, prog.builtinPath, prog.Builtins, &errs)
	}

	stack := make([]string, 0, 8)
	onStack := make(map[string]bool, 8)
	loadFile(prog, &errs, entryFile, stack, onStack)

	if combined := errs.Err(); combined != nil {
		return prog, combined
	}

	resolveProgram(prog, &errs)
	checkMainFunction(prog, &errs)

	return prog, errs.Err()
}

// loadFile parses filename (unless already loaded), builds its identifier
// table, and recurses into every file it imports. stack/onStack track the
// chain of files currently being loaded so a revisited in-progress file is
// reported as a CyclicImport rather than loaded twice.
func loadFile(prog *Program, errs *diag.List, filename string, stack []string, onStack map[string]bool) {
	if onStack[filename] {
		chain := append(append([]string{}, stack...), filename)
		errs.Add(prog.Pos(filename, 0), diag.CyclicImport,
			"import cycle: %s", strings.Join(chain, " -> "))
		return
	}
	if _, done := prog.Files[filename]; done {
		return
	}

	fset, files, err := parser.ParseFiles(filename)
	errs.Extend(err)
	if len(files) == 0 {
		return
	}
	f := files[0]

	prog.Files[filename] = f
	prog.fsets[filename] = fset
	prog.Tables[filename] = buildTable(fset, filename, f, errs)

	stack = append(stack, filename)
	onStack[filename] = true
	defer func() { onStack[filename] = false }()

	for _, imp := range f.Imports {
		if strings.HasPrefix(imp.Source, "/") {
			errs.Add(prog.Pos(filename, imp.Pos), diag.AbsoluteImportPath,
				"import source %q must be a relative path", imp.Source)
			continue
		}
		loadFile(prog, errs, importTarget(filename, imp.Source), stack, onStack)
	}
}

// importTarget resolves a relative import source to the file path it names,
// relative to the directory of the importing file.
func importTarget(filename, source string) string {
	return filepath.Join(filepath.Dir(filename), source+".aaa")
}

// checkMainFunction verifies the entry file declares a parameterless,
// return-less function named "main".
func checkMainFunction(prog *Program, errs *diag.List) {
	f := prog.Files[prog.Entry]
	if f == nil {
		return
	}
	for _, fn := range f.Functions {
		if fn.MemberOfType == "" && fn.Name == "main" && len(fn.Args) == 0 && len(fn.ReturnTypes) == 0 {
			return
		}
	}
	errs.Add(prog.Pos(prog.Entry, 0), diag.MainFunctionNotFound,
		"%s: no parameterless, return-less function named \"main\"", prog.Entry)
}
