package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/zinc-lang/zinc/lang/bytecode"
)

// Build drives the full lexer-through-generator pipeline (spec.md §1's
// five compiler stages) over args[0] and writes the resulting
// bytecode.Application's canonical CBOR encoding to --out (stdout by
// default).
func (c *Cmd) Build(ctx context.Context, stdio mainer.Stdio, args []string) error {
	app, err := compile(args[0], c.Contract)
	if err != nil {
		return printError(stdio, err)
	}

	data, err := bytecode.Encode(app)
	if err != nil {
		return printError(stdio, err)
	}

	if c.Out == "" {
		_, err = stdio.Stdout.Write(data)
	} else {
		err = os.WriteFile(c.Out, data, 0644)
	}
	if err != nil {
		return printError(stdio, fmt.Errorf("maincmd: %w", err))
	}
	return nil
}
