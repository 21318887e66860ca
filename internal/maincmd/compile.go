// Shared pipeline glue for the analyze/build/run/test/verify commands:
// source file -> ast.Module -> ir.Program -> bytecode.Application, plus
// the storage.Tree construction a contract's VM needs. Each command below
// drives only the slice of this pipeline it needs.
package maincmd

import (
	"fmt"
	"os"

	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/bytecode"
	"github.com/zinc-lang/zinc/lang/generator"
	"github.com/zinc-lang/zinc/lang/parser"
	"github.com/zinc-lang/zinc/lang/semantic"
	"github.com/zinc-lang/zinc/lang/storage"
	"github.com/zinc-lang/zinc/lang/token"
)

func parseOneFile(file string) (*token.FileSet, *ast.Module, error) {
	fs, mods, err := parser.ParseFiles(file)
	if err != nil {
		return fs, nil, err
	}
	return fs, mods[0], nil
}

// compile runs the full lexer-through-generator pipeline over file, either
// against its root-module circuit entry point (contractName == "") or the
// named contract type's method table.
func compile(file, contractName string) (*bytecode.Application, error) {
	fs, mod, err := parseOneFile(file)
	if err != nil {
		return nil, err
	}
	an := semantic.NewAnalyzer(fs)
	if contractName == "" {
		prog, err := an.AnalyzeCircuit(mod)
		if err != nil {
			return nil, err
		}
		return generator.GenerateCircuit(prog)
	}
	prog, err := an.AnalyzeContract(mod, contractName)
	if err != nil {
		return nil, err
	}
	return generator.GenerateContract(prog)
}

// storageFieldsOf converts a Contract's bytecode-level storage descriptors
// to lang/storage.Field, the boundary storage.NewTree consumes (it never
// imports lang/bytecode, to avoid a dependency cycle with lang/vm).
func storageFieldsOf(c *bytecode.Contract) []storage.Field {
	out := make([]storage.Field, len(c.Storage))
	for i, f := range c.Storage {
		if f.IsMap {
			out[i] = storage.Field{Name: f.Name, IsMap: true, KeySize: f.MapKey.Type().Size(), ValueSize: f.MapValue.Type().Size()}
			continue
		}
		out[i] = storage.Field{Name: f.Name, Size: f.Type.Type().Size()}
	}
	return out
}

func loadApplication(path string) (*bytecode.Application, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("maincmd: %w", err)
	}
	return bytecode.Decode(data)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return []byte("null"), nil
	}
	return os.ReadFile(path)
}
