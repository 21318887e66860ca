package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/zinc-lang/zinc/lang/lexer"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	fs, toksByFile, err := lexer.ScanFiles(args...)
	for _, toks := range toksByFile {
		for _, tv := range toks {
			pos := fs.Position(tv.Value.Pos)
			fmt.Fprintf(stdio.Stdout, "%s: %s", pos, tv.Token)
			if tv.Value.Raw != "" && tv.Value.Raw != tv.Token.String() {
				fmt.Fprintf(stdio.Stdout, " %q", tv.Value.Raw)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	if err != nil {
		return printError(stdio, err)
	}
	return nil
}
