package maincmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/mna/mainer"

	"github.com/zinc-lang/zinc/lang/bytecode"
	"github.com/zinc-lang/zinc/lang/constraint"
	"github.com/zinc-lang/zinc/lang/constraint/debugbackend"
	"github.com/zinc-lang/zinc/lang/storage"
	"github.com/zinc-lang/zinc/lang/types"
	"github.com/zinc-lang/zinc/lang/vm"
)

// Run decodes a compiled bytecode.Application from args[0] and executes
// its circuit entry point (or, for a contract, the --method named method)
// against the concrete Debug backend (spec.md §4.5's "concrete BigInt
// interpreter"), printing the JSON-rendered result (spec.md §6's input/
// output templates).
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	app, err := loadApplication(args[0])
	if err != nil {
		return printError(stdio, err)
	}

	entryPC, inputType, outputType, tree, fields, err := resolveEntry(app, c.Method)
	if err != nil {
		return printError(stdio, err)
	}

	lim, err := vm.LoadLimits()
	if err != nil {
		return printError(stdio, err)
	}

	inputData, err := readInput(c.Input)
	if err != nil {
		return printError(stdio, err)
	}
	leaves, err := unmarshalValue(inputType, inputData)
	if err != nil {
		return printError(stdio, err)
	}

	sys := debugbackend.New()
	machine := vm.New(sys, app.Instructions(), lim, entryPC, tree, fields, inputType)

	inputs := make([]constraint.Wire, len(leaves))
	for i, v := range leaves {
		inputs[i] = sys.AllocateWitness(v)
	}

	outWires, err := machine.Run(sys, inputs)
	if err != nil {
		return printError(stdio, err)
	}

	result := make([]*big.Int, len(outWires))
	for i, w := range outWires {
		result[i] = sys.Value(w)
	}

	out, err := marshalValue(outputType, result)
	if err != nil {
		return printError(stdio, err)
	}
	fmt.Fprintln(stdio.Stdout, string(out))
	return nil
}

// resolveEntry picks the Call address, input/output types and storage
// collaborators for either a Circuit's single entry point or a Contract's
// named method, mirroring the selection compile() makes at build time.
func resolveEntry(app *bytecode.Application, method string) (int, types.Type, types.Type, *storage.Tree, []bytecode.StorageFieldDescriptor, error) {
	if app.Circuit != nil {
		return int(app.Circuit.EntryAddress), app.Circuit.Input.Type(), app.Circuit.Output.Type(), nil, nil, nil
	}

	c := app.Contract
	if method == "" {
		return 0, nil, nil, nil, nil, fmt.Errorf("maincmd: --method is required for a contract")
	}
	md, ok := c.Method(method)
	if !ok {
		return 0, nil, nil, nil, nil, fmt.Errorf("maincmd: contract %s has no method %q", c.Name, method)
	}

	tree := storage.NewTree(storageFieldsOf(c))
	return int(md.Address), md.Input.Type(), md.Output.Type(), tree, c.Storage, nil
}
