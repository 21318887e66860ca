package vm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinc-lang/zinc/lang/constraint"
	"github.com/zinc-lang/zinc/lang/constraint/debugbackend"
	"github.com/zinc-lang/zinc/lang/generator"
	"github.com/zinc-lang/zinc/lang/parser"
	"github.com/zinc-lang/zinc/lang/semantic"
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/vm"
)

// compile runs the full lexer-through-generator pipeline over one root
// module's source, the same path internal/maincmd.compile drives for a
// circuit entry point.
func compile(t *testing.T, src string) (*vm.Machine, error) {
	t.Helper()
	fset := token.NewFileSet()
	mod, err := parser.ParseModule(fset, "test.zn", []byte(src))
	require.NoError(t, err)

	an := semantic.NewAnalyzer(fset)
	prog, err := an.AnalyzeCircuit(mod)
	if err != nil {
		return nil, err
	}

	app, err := generator.GenerateCircuit(prog)
	require.NoError(t, err)

	lim, err := vm.LoadLimits()
	require.NoError(t, err)

	sys := debugbackend.New()
	return vm.New(sys, app.Instructions(), lim, int(app.Circuit.EntryAddress), nil, nil, app.Circuit.Input.Type()), nil
}

func run(t *testing.T, m *vm.Machine) ([]constraint.Wire, error) {
	t.Helper()
	sys := debugbackend.New()
	return m.Run(sys, nil)
}

// 1. Factorial: spec.md §8's "fn main() { let mut f: field = 1; for i in
// 2..6 { f = f * (i as field); } require(f == 120 as field); }".
func TestFactorial(t *testing.T) {
	m, err := compile(t, `
		fn main() {
			let mut f: field = 1;
			for i in 2..6 {
				f = f * (i as field);
			}
			require(f == 120 as field);
		}
	`)
	require.NoError(t, err)
	_, err = run(t, m)
	require.NoError(t, err)
}

// Switching the assertion to f == 119 fails with RequireFailed.
func TestFactorialWrongAssertionFails(t *testing.T) {
	m, err := compile(t, `
		fn main() {
			let mut f: field = 1;
			for i in 2..6 {
				f = f * (i as field);
			}
			require(f == 119 as field);
		}
	`)
	require.NoError(t, err)
	_, err = run(t, m)
	require.Error(t, err)
	rerr, ok := err.(*vm.RuntimeError)
	require.True(t, ok)
	require.Equal(t, vm.KindRequireFailed, rerr.Kind)
}

// 2. Nested array assignment: a [[u8;4];4] literal, three element writes,
// then a require over all three.
func TestNestedArrayAssignment(t *testing.T) {
	m, err := compile(t, `
		fn main() {
			let mut a: [[u8;4];4] = [[1,2,3,4],[5,6,7,8],[9,10,11,12],[13,14,15,16]];
			a[1][3] = 42;
			a[2][2] = 111;
			a[3][1] = 255;
			require(a[1][3] == 42 && a[2][2] == 111 && a[3][1] == 255);
		}
	`)
	require.NoError(t, err)
	_, err = run(t, m)
	require.NoError(t, err)
}

// 3. Conditional: an if/else-if/else chain used as a tail expression.
func TestConditionalChain(t *testing.T) {
	m, err := compile(t, `
		fn main() {
			let x = if false {1} else if true {2} else {3};
			require(x == 2);
		}
	`)
	require.NoError(t, err)
	_, err = run(t, m)
	require.NoError(t, err)
}

// 4. Boolean ops: ^^ (logical xor), ||, && over bool operands.
func TestBooleanOps(t *testing.T) {
	m, err := compile(t, `
		fn main() {
			require((true ^^ false) == true);
			require((true || false) == true);
			require((true && false) == false);
		}
	`)
	require.NoError(t, err)
	_, err = run(t, m)
	require.NoError(t, err)
}

// 5. Type mismatch: a declared bool return with a u8-typed body yields
// FunctionReturnType at analysis time, never reaching the generator.
func TestFunctionReturnTypeMismatch(t *testing.T) {
	fset := token.NewFileSet()
	mod, err := parser.ParseModule(fset, "test.zn", []byte(`
		fn main() {}
		fn another() -> bool { 42 }
	`))
	require.NoError(t, err)

	an := semantic.NewAnalyzer(fset)
	_, err = an.AnalyzeCircuit(mod)
	require.Error(t, err)

	errs, ok := err.(semantic.ErrorList)
	require.True(t, ok)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Kind == semantic.KindFunctionReturnType {
			found = true
		}
	}
	require.True(t, found, "expected a FunctionReturnType error, got %v", errs)
}

// 6. Require failure: a literal always-false require compiles but fails
// RequireFailed at execution, at the require call site.
func TestRequireFailure(t *testing.T) {
	m, err := compile(t, `
		fn main() {
			let v = 42;
			require(v != 42);
		}
	`)
	require.NoError(t, err)
	_, err = run(t, m)
	require.Error(t, err)
	rerr, ok := err.(*vm.RuntimeError)
	require.True(t, ok)
	require.Equal(t, vm.KindRequireFailed, rerr.Kind)
}
