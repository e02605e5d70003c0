package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"
)

// Cmd implements "cmd CODE [-v]" (§6): wraps CODE as 'fn main begin CODE
// end' and runs it the same way Run runs a file. The rest of the pipeline is
// file-path driven end to end (import resolution walks relative paths on
// disk), so the wrapped program is materialized as a temporary .aaa file
// rather than carried as an in-memory source special case.
func (c *Cmd) Cmd(_ context.Context, stdio mainer.Stdio, args []string) error {
	dir, err := os.MkdirTemp("", "aaa-cmd-*")
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	defer os.RemoveAll(dir)

	src := fmt.Sprintf("fn main begin %s end\n", args[0])
	entry := filepath.Join(dir, "cmd.aaa")
	if err := os.WriteFile(entry, []byte(src), 0o644); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	return execute(stdio, entry, c.Verbose)
}
