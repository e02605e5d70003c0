package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"unicode"

	"github.com/mna/mainer"
)

const binName = "aaa"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<arg>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<arg>...]
       %[1]s -h|--help

Compiler and all-in-one tool for the %[1]s programming language.

The <command> can be one of:
       run FILE                  Load and execute FILE.
       cmd CODE                  Wrap CODE as 'fn main begin CODE end',
                                 then run it.
       generate-grammar-file     Write/refresh grammar.txt from the
                                 grammar rewrite rules.
       runtests                  Run the developer test suite.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --verbose              Trace each executed instruction to
                                 standard error (run, cmd only).

More information on the %[1]s repository:
       https://github.com/aaa-lang/aaa
`, binName)
)

// Cmd is the single entry point's argument-and-dispatch struct, parsed by
// mainer.Parser from flag:"..." struct tags and routed to one of the four
// method-per-subcommand handlers below by buildCmds.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Verbose bool `flag:"v,verbose"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	switch cmdName {
	case "run":
		if len(c.args[1:]) != 1 {
			return errors.New("run: expected exactly one file argument")
		}
	case "cmd":
		if len(c.args[1:]) != 1 {
			return errors.New("cmd: expected exactly one code argument")
		}
	case "generate-grammar-file", "runtests":
		if len(c.args[1:]) != 0 {
			return fmt.Errorf("%s: takes no arguments", cmdName)
		}
	}

	if c.flags["verbose"] && cmdName != "run" && cmdName != "cmd" {
		return fmt.Errorf("%s: invalid flag 'verbose'", cmdName)
	}

	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	if c.Help {
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its own diagnostics; Main only
		// needs to tell a runtime failure apart from every other kind, per
		// spec §6's exit code table.
		var rf *runtimeFailure
		if errors.As(err, &rf) {
			return mainer.ExitCode(2)
		}
		return mainer.Failure
	}
	return mainer.Success
}

// kebabCase turns a method name like GenerateGrammarFile into the hyphenated
// command name generate-grammar-file a user types on the command line;
// buildCmds' reflection can't produce a hyphen from a Go identifier any
// other way.
func kebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// valid commands are those that take a mainer.Stdio and a slice of strings as
// input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		// must take 4 parameters (including receiver) and return 1
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}

		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[kebabCase(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
