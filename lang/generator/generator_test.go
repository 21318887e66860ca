package generator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinc-lang/zinc/lang/bytecode"
	"github.com/zinc-lang/zinc/lang/constraint/debugbackend"
	"github.com/zinc-lang/zinc/lang/generator"
	"github.com/zinc-lang/zinc/lang/parser"
	"github.com/zinc-lang/zinc/lang/semantic"
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/vm"
)

func generateCircuit(t *testing.T, src string) *bytecode.Application {
	t.Helper()
	fset := token.NewFileSet()
	mod, err := parser.ParseModule(fset, "test.zn", []byte(src))
	require.NoError(t, err)

	an := semantic.NewAnalyzer(fset)
	prog, err := an.AnalyzeCircuit(mod)
	require.NoError(t, err)

	app, err := generator.GenerateCircuit(prog)
	require.NoError(t, err)
	return app
}

// Dead-function elimination must preserve behavior: a never-called helper
// function sitting alongside main must not change what main computes.
func TestDeadFunctionEliminationPreservesBehavior(t *testing.T) {
	src := `
		fn unused(x: u8) -> u8 { x * 2 }
		fn main() {
			require(1 + 1 == 2);
		}
	`
	app := generateCircuit(t, src)

	lim, err := vm.LoadLimits()
	require.NoError(t, err)
	m := vm.New(debugbackend.New(), app.Instructions(), lim, int(app.Circuit.EntryAddress), nil, nil, app.Circuit.Input.Type())

	_, err = m.Run(debugbackend.New(), nil)
	require.NoError(t, err)
}

// eliminateDeadFunctions strips unreachable functions entirely rather than
// leaving NoOperation filler behind, so the emitted program for an unused
// helper must contain no trace of it.
func TestDeadFunctionEliminationStripsNoOperations(t *testing.T) {
	src := `
		fn unused(x: u8) -> u8 { x * 2 }
		fn main() {
			require(1 + 1 == 2);
		}
	`
	app := generateCircuit(t, src)
	for _, in := range app.Instructions() {
		require.NotEqual(t, bytecode.OpNoOperation, in.Op)
	}
}

// A called helper function must survive elimination and its result must
// reach the caller, proving Call/Return wiring threads values correctly
// across the dead-code pass.
func TestReachableFunctionSurvivesAndIsCalled(t *testing.T) {
	src := `
		fn double(x: u8) -> u8 { x * 2 }
		fn main() {
			require(double(21) == 42);
		}
	`
	app := generateCircuit(t, src)

	lim, err := vm.LoadLimits()
	require.NoError(t, err)
	m := vm.New(debugbackend.New(), app.Instructions(), lim, int(app.Circuit.EntryAddress), nil, nil, app.Circuit.Input.Type())

	_, err = m.Run(debugbackend.New(), nil)
	require.NoError(t, err)
}
