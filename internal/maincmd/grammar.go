package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/aaa-lang/aaa/lang/grammar"
)

const grammarFilePath = "grammar.txt"

// GenerateGrammarFile implements "generate-grammar-file" (§6): writes or
// refreshes grammarFilePath with lang/grammar.Aaa's canonical rule dump,
// reporting "up-to-date" if the file already matched or "updated" if it
// wrote a new one.
func (c *Cmd) GenerateGrammarFile(_ context.Context, stdio mainer.Stdio, _ []string) error {
	dump := grammar.Aaa.Dump()

	existing, err := os.ReadFile(grammarFilePath)
	stale := err != nil || grammar.CheckStaleness(string(existing), grammar.Aaa)
	if !stale {
		fmt.Fprintln(stdio.Stdout, "up-to-date")
		return nil
	}

	if err := os.WriteFile(grammarFilePath, []byte(dump), 0o644); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	fmt.Fprintln(stdio.Stdout, "updated")
	return nil
}
