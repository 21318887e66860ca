package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinc-lang/zinc/lang/parser"
	"github.com/zinc-lang/zinc/lang/semantic"
	"github.com/zinc-lang/zinc/lang/token"
)

func analyzeCircuit(t *testing.T, src string) (err error) {
	t.Helper()
	fset := token.NewFileSet()
	mod, perr := parser.ParseModule(fset, "test.zn", []byte(src))
	require.NoError(t, perr)

	an := semantic.NewAnalyzer(fset)
	_, err = an.AnalyzeCircuit(mod)
	return err
}

func errorKinds(t *testing.T, err error) []string {
	t.Helper()
	errs, ok := err.(semantic.ErrorList)
	require.True(t, ok, "expected a semantic.ErrorList, got %T", err)
	kinds := make([]string, len(errs))
	for i, e := range errs {
		kinds[i] = e.Kind
	}
	return kinds
}

func TestAnalyzeCircuitValidProgram(t *testing.T) {
	err := analyzeCircuit(t, `
		fn main() {
			require(1 + 1 == 2);
		}
	`)
	require.NoError(t, err)
}

func TestAnalyzeCircuitMissingEntryPoint(t *testing.T) {
	err := analyzeCircuit(t, `
		fn helper() -> u8 { 1 }
	`)
	require.Error(t, err)
	require.Contains(t, errorKinds(t, err), semantic.KindEntryPointMissing)
}

func TestAnalyzeCircuitFunctionReturnTypeMismatch(t *testing.T) {
	err := analyzeCircuit(t, `
		fn main() {}
		fn another() -> bool { 42 }
	`)
	require.Error(t, err)
	require.Contains(t, errorKinds(t, err), semantic.KindFunctionReturnType)
}

func TestAnalyzeCircuitUndeclaredItem(t *testing.T) {
	err := analyzeCircuit(t, `
		fn main() {
			require(missing_name == 1);
		}
	`)
	require.Error(t, err)
	require.Contains(t, errorKinds(t, err), semantic.KindUndeclaredItem)
}

func TestAnalyzeCircuitMutatingImmutable(t *testing.T) {
	err := analyzeCircuit(t, `
		fn main() {
			let x: u8 = 1;
			x = 2;
		}
	`)
	require.Error(t, err)
	require.Contains(t, errorKinds(t, err), semantic.KindMutatingImmutable)
}

func TestAnalyzeCircuitBinaryOperandTypeMismatch(t *testing.T) {
	err := analyzeCircuit(t, `
		fn main() {
			let a: u8 = 1;
			let b: i8 = 1;
			require((a + b) as u8 == 2);
		}
	`)
	require.Error(t, err)
	require.Contains(t, errorKinds(t, err), semantic.KindBinaryOperandTypeMismatch)
}

func TestAnalyzeCircuitConditionalExpectedBooleanCondition(t *testing.T) {
	err := analyzeCircuit(t, `
		fn main() {
			let x = if 1 { 1 } else { 2 };
			require(x == 1);
		}
	`)
	require.Error(t, err)
	require.Contains(t, errorKinds(t, err), semantic.KindConditionalExpectedBooleanCondition)
}

func TestAnalyzeCircuitFunctionArgumentCount(t *testing.T) {
	err := analyzeCircuit(t, `
		fn add(a: u8, b: u8) -> u8 { a + b }
		fn main() {
			require(add(1) == 1);
		}
	`)
	require.Error(t, err)
	require.Contains(t, errorKinds(t, err), semantic.KindFunctionArgumentCount)
}
