package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/mna/mainer"

	"github.com/zinc-lang/zinc/lang/constraint/groth16backend"
	"github.com/zinc-lang/zinc/lang/vm"
)

// Verify runs a compiled circuit (contracts are out of scope: their
// storage.Tree collaborator has no constraint-synthesis counterpart, see
// DESIGN.md) through a full Groth16 round trip over BN254 — setup, prove,
// verify — spec.md §1's "zk-SNARK (Groth16) proving" and §4.5's Proving
// backend, using --input as the private witness (this module has no
// public/private annotation in its type system, so every leaf is a
// private Witness slot; see DESIGN.md).
func (c *Cmd) Verify(ctx context.Context, stdio mainer.Stdio, args []string) error {
	app, err := loadApplication(args[0])
	if err != nil {
		return printError(stdio, err)
	}
	if app.Circuit == nil {
		return printError(stdio, fmt.Errorf("maincmd: verify only supports circuits, not contracts"))
	}

	lim, err := vm.LoadLimits()
	if err != nil {
		return printError(stdio, err)
	}

	inputType := app.Circuit.Input.Type()
	numWitness := inputType.Size()

	machine := vm.New(nil, app.Instructions(), lim, int(app.Circuit.EntryAddress), nil, nil, inputType)
	circuit := groth16backend.NewCircuit(machine, numWitness, 0)

	inputData, err := readInput(c.Input)
	if err != nil {
		return printError(stdio, err)
	}
	leaves, err := unmarshalValue(inputType, inputData)
	if err != nil {
		return printError(stdio, err)
	}
	circuit.SetValues(leaves)

	if err := groth16backend.AssertCircuitConsistent(circuit, ecc.BN254); err != nil {
		return printError(stdio, fmt.Errorf("maincmd: circuit not satisfied: %w", err))
	}

	g := groth16backend.NewGroth16()
	pk, vk, err := g.Setup(circuit)
	if err != nil {
		return printError(stdio, err)
	}

	proof, err := g.Prove(circuit, pk)
	if err != nil {
		return printError(stdio, err)
	}

	if err := g.Verify(proof, vk, circuit); err != nil {
		return printError(stdio, err)
	}

	if c.Out != "" {
		if err := writeKeyFile(c.Out+".pk", func(f *os.File) error { return groth16backend.WriteProvingKey(f, pk) }); err != nil {
			return printError(stdio, err)
		}
		if err := writeKeyFile(c.Out+".vk", func(f *os.File) error { return groth16backend.WriteVerifyingKey(f, vk) }); err != nil {
			return printError(stdio, err)
		}
	}

	fmt.Fprintln(stdio.Stdout, "proof verified")
	return nil
}

func writeKeyFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("maincmd: %w", err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("maincmd: %w", err)
	}
	return nil
}
