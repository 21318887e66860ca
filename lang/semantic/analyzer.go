// Package semantic implements spec.md §4.3: name resolution, type
// inference/checking, monomorphization of generics, compile-time constant
// evaluation, and lowering to lang/ir, driven by a hoist-then-resolve scope
// stack (spec.md §9 "Design Notes": scopes as an arena of ScopeIDs rather
// than a reference-cycle tree), closely following the teacher's
// lang/resolver block-stack mechanics adapted to Zinc's typed semantics.
package semantic

import (
	"fmt"
	"math/big"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/ir"
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/types"
)

// Analyzer drives the two-phase analysis of a single compilation (one
// circuit entry module plus its "mod" sub-modules) into a lang/ir.Program.
type Analyzer struct {
	fset   *token.FileSet
	arena  scopeArena
	root   ScopeID
	errs   ErrorList

	nextUniqueID uint64
	functions    []*ir.Function
}

// NewAnalyzer creates an Analyzer that will resolve positions against fset.
func NewAnalyzer(fset *token.FileSet) *Analyzer {
	a := &Analyzer{fset: fset}
	a.root = a.arena.new(noScope)
	registerBuiltinTypes(&a.arena, a.root)
	return a
}

func registerBuiltinTypes(a *scopeArena, root ScopeID) {
	a.declareType(root, "bool", types.Bool{})
	a.declareType(root, "field", types.Field{})
	for n := 1; n <= types.MaxBitWidth; n++ {
		a.declareType(root, fmt.Sprintf("u%d", n), types.Integer{Width: n, Signed: false})
		a.declareType(root, fmt.Sprintf("i%d", n), types.Integer{Width: n, Signed: true})
	}
}

func (a *Analyzer) errorf(pos token.Pos, kind, format string, args ...any) {
	a.errs = append(a.errs, &Error{Kind: kind, Pos: a.fset.Position(pos), Message: fmt.Sprintf(format, args...)})
}

func (a *Analyzer) errorAt2(pos, other token.Pos, kind, format string, args ...any) {
	a.errs = append(a.errs, &Error{Kind: kind, Pos: a.fset.Position(pos), OtherPos: a.fset.Position(other), Message: fmt.Sprintf(format, args...)})
}

func (a *Analyzer) errorHint(pos token.Pos, kind, hint, format string, args ...any) {
	a.errs = append(a.errs, &Error{Kind: kind, Pos: a.fset.Position(pos), Message: fmt.Sprintf(format, args...), Hint: hint})
}

// AnalyzeCircuit runs Phase 1 hoisting over mod's items, then resolves the
// "main" entry point (spec.md §4.3 "Entry point ... a function named main
// at the root module (for circuits)"), returning the lowered Program. Every
// other non-generic root-module function is resolved as well, so a function
// that no call reaches is still type-checked.
func (a *Analyzer) AnalyzeCircuit(mod *ast.Module) (*ir.Program, error) {
	a.hoist(a.root, mod.Items)

	stub, _, ok := a.arena.lookupItem(a.root, "main")
	if !ok || stub.kind != "fn" {
		a.errorf(mod.EOF, KindEntryPointMissing, "no function named 'main' at the root module")
		return nil, a.errs.asError()
	}

	entry := a.resolveFunction(a.root, stub, nil, nil, mod.EOF)
	for _, item := range mod.Items {
		fn, isFn := item.(*ast.FnItem)
		if !isFn || fn.Name.Name == "main" || len(fn.Generics) > 0 {
			continue
		}
		if other, _, found := a.arena.lookupItem(a.root, fn.Name.Name); found && other.kind == "fn" {
			a.resolveFunction(a.root, other, nil, nil, fn)
		}
	}
	if err := a.errs.asError(); err != nil {
		return nil, err
	}
	return &ir.Program{Functions: a.functions, Entry: entry}, nil
}

// AnalyzeContract runs Phase 1 hoisting then resolves every `pub fn` method
// of contractName (plus an optional `new` constructor), spec.md §4.3
// "Entry point ... the explicit pub fn methods of a contract type".
func (a *Analyzer) AnalyzeContract(mod *ast.Module, contractName string) (*ir.Program, error) {
	a.hoist(a.root, mod.Items)

	stub, _, ok := a.arena.lookupItem(a.root, contractName)
	if !ok || stub.kind != "contract" {
		a.errorf(mod.EOF, KindUndeclaredItem, "no contract named %q", contractName)
		return nil, a.errs.asError()
	}
	ct := a.resolveContractType(a.root, stub)

	contractScope := a.arena.new(a.root)
	a.arena.declareType(contractScope, "Self", ct)

	cit := stub.decl.(*ast.ContractItem)
	var methods []ir.ContractMethod
	for _, m := range cit.Methods {
		if m.Pub == token.NoPos {
			continue
		}
		fn := a.resolveMethod(contractScope, m, ct)
		isMutable := methodIsMutable(m)
		var input, output types.Type = types.Unit{}, types.Unit{}
		if len(fn.ParamTypes) > 0 {
			input = fn.ParamTypes[len(fn.ParamTypes)-1]
		}
		if fn.ResultType != nil {
			output = fn.ResultType
		}
		methods = append(methods, ir.ContractMethod{
			Method: types.Method{Name: m.Name.Name, IsMutable: isMutable, Input: input, Output: output},
			Fn:     fn,
		})
	}

	if err := a.errs.asError(); err != nil {
		return nil, err
	}
	return &ir.Program{Functions: a.functions, Contract: ct, Methods: methods}, nil
}

// methodIsMutable reports whether fn's receiver is "self" (by value,
// Zinc's only receiver form) and the method is allowed to mutate storage;
// spec.md ties ContractInput's transaction message to "mutable methods", so
// Zinc treats every method with a self receiver as mutable and every
// associated function (no receiver, e.g. the "new" constructor) as not.
func methodIsMutable(fn *ast.FnItem) bool {
	return len(fn.Params) > 0 && fn.Params[0].SelfPos.IsValid()
}

func (l ErrorList) asError() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// suggest returns the closest hoisted item name to want (for
// UndeclaredItem's optional hint), or "" if nothing is close enough.
func (a *Analyzer) suggest(scope ScopeID, want string) string {
	best, bestDist := "", 3
	for cur := scope; cur != noScope; cur = a.arena.get(cur).parent {
		for name := range a.arena.get(cur).items {
			if d := fuzzy.LevenshteinDistance(want, name); d > 0 && d < bestDist {
				best, bestDist = name, d
			}
		}
	}
	return best
}

// bigIntToConstant is a small helper shared by the const-eval and cast
// paths to build a types.Constant from a Go big.Int.
func bigIntToConstant(t types.Type, v *big.Int) types.Constant {
	return types.Constant{Typ: t, Int: new(big.Int).Set(v)}
}
