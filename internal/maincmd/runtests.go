package maincmd

import (
	"context"
	"os/exec"

	"github.com/mna/mainer"
)

// Runtests implements "runtests" (§6): runs the developer test suite (the
// package-level _test.go files under lang/ and internal/), streaming the Go
// test runner's own output through unmodified.
func (c *Cmd) Runtests(ctx context.Context, stdio mainer.Stdio, _ []string) error {
	cmd := exec.CommandContext(ctx, "go", "test", "./...")
	cmd.Stdout = stdio.Stdout
	cmd.Stderr = stdio.Stderr
	return cmd.Run()
}
