package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/parser"
	"github.com/zinc-lang/zinc/lang/token"
)

func parse(t *testing.T, src string) *ast.Module {
	t.Helper()
	fset := token.NewFileSet()
	mod, err := parser.ParseModule(fset, "test.zn", []byte(src))
	require.NoError(t, err)
	return mod
}

func TestParseFnItem(t *testing.T) {
	mod := parse(t, `
		fn add(a: u8, b: u8) -> u8 {
			a + b
		}
	`)
	require.Len(t, mod.Items, 1)
	fn, ok := mod.Items[0].(*ast.FnItem)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name.Name)
	require.Len(t, fn.Params, 2)
	require.NotNil(t, fn.Body.Tail)
}

func TestParseStructAndImpl(t *testing.T) {
	mod := parse(t, `
		struct Point {
			x: field,
			y: field,
		}

		impl Point {
			fn sum(self) -> field {
				self.x + self.y
			}
		}
	`)
	require.Len(t, mod.Items, 2)
	st := mod.Items[0].(*ast.StructItem)
	require.Equal(t, "Point", st.Name.Name)
	require.Len(t, st.Fields, 2)

	impl := mod.Items[1].(*ast.ImplItem)
	require.Equal(t, "Point", impl.ItemName())
	require.Len(t, impl.Methods, 1)
	require.True(t, impl.Methods[0].Params[0].SelfPos.IsValid())
}

func TestParseIfElseAndMatch(t *testing.T) {
	mod := parse(t, `
		fn classify(x: u8) -> u8 {
			let y = if x == 0 { 1 } else { 2 };
			match y {
				1 => 10,
				2 => 20,
				_ => 0,
			}
		}
	`)
	fn := mod.Items[0].(*ast.FnItem)
	require.NotNil(t, fn.Body.Tail)
	_, ok := fn.Body.Tail.(*ast.MatchExpr)
	require.True(t, ok)
}

func TestParseForLoopOverRange(t *testing.T) {
	mod := parse(t, `
		fn loopy() {
			for i in 0..10 {
				dbg!(i);
			}
		}
	`)
	fn := mod.Items[0].(*ast.FnItem)
	require.Len(t, fn.Body.Stmts, 1)
	forStmt, ok := fn.Body.Stmts[0].(*ast.ForStmt)
	require.True(t, ok)
	rng, ok := forStmt.Iter.(*ast.RangeExpr)
	require.True(t, ok)
	require.False(t, rng.Inclusive)
}

func TestParseEnumWithTupleVariants(t *testing.T) {
	mod := parse(t, `
		enum Op {
			Noop,
			Transfer(u160, u64),
		}
	`)
	en := mod.Items[0].(*ast.EnumItem)
	require.Len(t, en.Variants, 2)
	require.False(t, en.Variants[0].Lparen.IsValid())
	require.True(t, en.Variants[1].Lparen.IsValid())
	require.Len(t, en.Variants[1].Fields, 2)
}

func TestParseStructLiteralSuppressedInCondition(t *testing.T) {
	mod := parse(t, `
		fn f(cond: bool) -> u8 {
			if cond {
				1
			} else {
				0
			}
		}
	`)
	require.Len(t, mod.Items, 1)
}

func TestParseErrorRecovery(t *testing.T) {
	fset := token.NewFileSet()
	_, err := parser.ParseModule(fset, "bad.zn", []byte(`
		fn f(a: { -1;
		fn g() -> u8 { 1 }
	`))
	require.Error(t, err)
}
