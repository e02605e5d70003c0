package maincmd

import (
	"fmt"

	"github.com/mna/mainer"
	"github.com/aaa-lang/aaa/lang/checker"
	"github.com/aaa-lang/aaa/lang/compiler"
	"github.com/aaa-lang/aaa/lang/loader"
	"github.com/aaa-lang/aaa/lang/machine"
)

// runtimeFailure marks an error as having come out of lang/machine.Run, so
// Main can tell it apart from an argument or load/type error and report the
// distinct exit code spec §6 asks for ("non-zero on runtime error").
type runtimeFailure struct{ err error }

func (r *runtimeFailure) Error() string { return r.err.Error() }
func (r *runtimeFailure) Unwrap() error { return r.err }

// execute runs the full load -> check -> compile -> interpret pipeline
// against entryFile, printing every diagnostic it accumulates to
// stdio.Stderr along the way (§7: load/type errors are accumulated and
// reported together; a runtime error aborts immediately with a single
// diagnostic).
func execute(stdio mainer.Stdio, entryFile string, verbose bool) error {
	cfg, err := loader.LoadConfig()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	prog, err := loader.Load(entryFile, cfg)
	if err != nil {
		printDiagnostics(stdio, err)
		return err
	}

	if err := checker.Check(prog); err != nil {
		printDiagnostics(stdio, err)
		return err
	}

	cp, err := compiler.Compile(prog)
	if err != nil {
		printDiagnostics(stdio, err)
		return err
	}

	th := &machine.Thread{Stdout: stdio.Stdout, Stderr: stdio.Stderr, Verbose: verbose}
	if err := machine.Run(cp, th); err != nil {
		printDiagnostics(stdio, err)
		return &runtimeFailure{err: err}
	}
	return nil
}

// printDiagnostics prints one line per accumulated diagnostic, unwrapping
// the multi-diagnostic errors that lang/diag.List.Err returns, or the
// message verbatim for any other error (argument errors, machine-level
// errors, which already carry exactly one diagnostic).
func printDiagnostics(stdio mainer.Stdio, err error) {
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range u.Unwrap() {
			fmt.Fprintln(stdio.Stderr, e)
		}
		return
	}
	fmt.Fprintln(stdio.Stderr, err)
}
