package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/zinc-lang/zinc/lang/ir"
	"github.com/zinc-lang/zinc/lang/semantic"
)

// Analyze runs name resolution, type checking and monomorphization over
// args[0] (spec.md §4.3) and prints the resulting generator IR, one
// monomorphized function per line, or the semantic error list.
func (c *Cmd) Analyze(ctx context.Context, stdio mainer.Stdio, args []string) error {
	fs, mod, err := parseOneFile(args[0])
	if err != nil {
		return printError(stdio, err)
	}

	an := semantic.NewAnalyzer(fs)
	var prog *ir.Program
	if c.Contract == "" {
		prog, err = an.AnalyzeCircuit(mod)
	} else {
		prog, err = an.AnalyzeContract(mod, c.Contract)
	}
	if err != nil {
		return printError(stdio, err)
	}

	printProgram(stdio, prog)
	return nil
}

func printProgram(stdio mainer.Stdio, prog *ir.Program) {
	for _, fn := range prog.Functions {
		fmt.Fprintf(stdio.Stdout, "fn %s#%d(%d params, frame size %d) -> %s\n",
			fn.Name, fn.UniqueID, len(fn.ParamTypes), fn.FrameSize, resultTypeString(fn))
	}
	switch {
	case prog.Entry != nil:
		fmt.Fprintf(stdio.Stdout, "entry: %s#%d\n", prog.Entry.Name, prog.Entry.UniqueID)
	case prog.Contract != nil:
		fmt.Fprintf(stdio.Stdout, "contract %s (%d storage fields)\n", prog.Contract.Name, len(prog.Contract.Storage))
		for _, m := range prog.Methods {
			fmt.Fprintf(stdio.Stdout, "method %s (mutable=%t) -> fn#%d\n", m.Name, m.IsMutable, m.Fn.UniqueID)
		}
	}
}

func resultTypeString(fn *ir.Function) string {
	if fn.ResultType == nil {
		return "()"
	}
	return fn.ResultType.String()
}
