package maincmd

import (
	"context"

	"github.com/mna/mainer"
)

// Run implements "run FILE [-v]" (§6): load and execute FILE.
func (c *Cmd) Run(_ context.Context, stdio mainer.Stdio, args []string) error {
	return execute(stdio, args[0], c.Verbose)
}
