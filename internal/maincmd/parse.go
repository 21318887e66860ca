package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	fs, mods, err := parser.ParseFiles(args...)
	printer := ast.Printer{Output: stdio.Stdout, Fset: fs}
	for _, mod := range mods {
		if perr := printer.Print(mod); perr != nil {
			return printError(stdio, perr)
		}
	}
	if err != nil {
		return printError(stdio, err)
	}
	return nil
}
