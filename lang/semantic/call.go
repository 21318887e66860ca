package semantic

import (
	"strings"

	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/ir"
	"github.com/zinc-lang/zinc/lang/stdlib"
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/types"
)

// analyzeCall dispatches a CallExpr to one of: a method call (callee is a
// FieldExpr), a contract primitive ("<Contract>::fetch"/"transfer"), a
// qualified std intrinsic, the bare "require"/"dbg!" forms, or an ordinary
// (possibly generic) free function call.
func (a *Analyzer) analyzeCall(fb *funcBuilder, scope ScopeID, call *ast.CallExpr) ir.Expr {
	pos, _ := call.Span()

	if fe, ok := call.Callee.(*ast.FieldExpr); ok {
		return a.analyzeMethodCall(fb, scope, call, fe)
	}

	pe, ok := call.Callee.(*ast.PathExpr)
	if !ok {
		a.errorf(pos, KindFunctionNonCallable, "expression is not callable")
		return unitConst(pos)
	}
	name := pathString(pe)

	switch name {
	case "require":
		return a.analyzeRequire(fb, scope, pos, call.Args)
	case "dbg":
		return a.analyzeDbg(fb, scope, pos, call.Args)
	}

	if intr, ok := stdlib.Lookup(name); ok {
		return a.analyzeIntrinsic(fb, scope, pos, intr, name, pe, call.Args)
	}

	if len(pe.Segments) == 2 {
		if stub, _, ok := a.arena.lookupItem(scope, pe.Segments[0].Name); ok && stub.kind == "contract" {
			return a.analyzeContractCall(fb, scope, pos, pe, call.Args)
		}
	}

	stub, stubScope, ok := a.arena.lookupItem(scope, name)
	if !ok || stub.kind != "fn" {
		a.errorHint(pos, KindFunctionNonCallable, a.suggest(scope, name), "undeclared function %q", name)
		return unitConst(pos)
	}

	var typeArgs []types.Type
	for _, g := range pe.Generics {
		typeArgs = append(typeArgs, a.resolveType(scope, g))
	}

	fn := a.resolveFunction(stubScope, stub, typeArgs, nil, call)
	args := a.analyzeCallArgs(fb, scope, pos, fn.ParamTypes, call.Args)
	return ir.NewCall(pos, fn.UniqueID, args, fn.ResultType)
}

func (a *Analyzer) analyzeCallArgs(fb *funcBuilder, scope ScopeID, pos token.Pos, paramTypes []types.Type, argExprs []ast.Expr) []ir.Expr {
	if len(argExprs) != len(paramTypes) {
		a.errorf(pos, KindFunctionArgumentCount, "expected %d arguments, got %d", len(paramTypes), len(argExprs))
	}
	args := make([]ir.Expr, 0, len(argExprs))
	for i, ae := range argExprs {
		v := a.analyzeExpr(fb, scope, ae)
		if i < len(paramTypes) && !paramTypes[i].Equal(v.Typ()) {
			p, _ := ae.Span()
			a.errorf(p, KindFunctionArgumentType, "argument %d has type %s, expected %s", i+1, v.Typ(), paramTypes[i])
		}
		args = append(args, v)
	}
	return args
}

// mtreeMapOps maps a method name recognized on an MTreeMap storage field to
// its library-call id, spec.md §4.5 "MTreeMap operations (get, insert,
// remove, contains)".
var mtreeMapOps = map[string]string{
	"get":      "mtreemap_get",
	"insert":   "mtreemap_insert",
	"remove":   "mtreemap_remove",
	"contains": "mtreemap_contains",
}

// mapOpResultType resolves an MTreeMap operation's IR result type: get
// returns (value, found: bool); insert/remove return the previous value
// (or zero) plus found; contains returns bool alone.
func mapOpResultType(op string, valueType types.Type) types.Type {
	switch op {
	case "mtreemap_contains":
		return types.Bool{}
	default:
		return types.Tuple{Elems: []types.Type{valueType, types.Bool{}}}
	}
}

// analyzeMethodCall resolves "recv.name(args...)" to the impl-block method
// associated with typeof(recv) (spec.md §9 "Method call syntax x.f(y) is
// resolved at compile time to the function associated with typeof(x)").
func (a *Analyzer) analyzeMethodCall(fb *funcBuilder, scope ScopeID, call *ast.CallExpr, fe *ast.FieldExpr) ir.Expr {
	pos, _ := call.Span()

	if mapFe, isField := fe.Recv.(*ast.FieldExpr); isField {
		if _, _, baseType, _, _, ok := a.resolvePlace(fb, scope, mapFe.Recv); ok {
			if ct, isContract := baseType.(*types.Contract); isContract {
				if _, sf, found := ct.StorageFieldOffset(mapFe.Name.Name); found && sf.IsMap() {
					if libID, known := mtreeMapOps[fe.Name.Name]; known {
						args := make([]ir.Expr, len(call.Args))
						inSize := 0
						for i, ae := range call.Args {
							v := a.analyzeExpr(fb, scope, ae)
							args[i] = v
							inSize += v.Typ().Size()
						}
						result := mapOpResultType(libID, sf.MapValue)
						return ir.NewMapCallLibrary(pos, libID, mapFe.Name.Name, args, inSize, result)
					}
					a.errorHint(pos, KindFunctionNonCallable, a.suggest(scope, fe.Name.Name), "MTreeMap has no method %q", fe.Name.Name)
					return unitConst(pos)
				}
			}
		}
	}

	recv := a.analyzeExpr(fb, scope, fe.Recv)
	typeName := recv.Typ().String()
	key := implMethodKey(typeName, fe.Name.Name)
	stub, stubScope, ok := a.arena.lookupItem(scope, key)
	if !ok {
		a.errorHint(pos, KindFunctionNonCallable, a.suggest(scope, fe.Name.Name), "%s has no method %q", typeName, fe.Name.Name)
		return unitConst(pos)
	}
	fn := a.resolveFunction(stubScope, stub, nil, recv.Typ(), call)
	paramTypes := fn.ParamTypes
	if len(paramTypes) > 0 {
		paramTypes = paramTypes[1:]
	}
	args := append([]ir.Expr{recv}, a.analyzeCallArgs(fb, scope, pos, paramTypes, call.Args)...)
	return ir.NewCall(pos, fn.UniqueID, args, fn.ResultType)
}

// analyzeRequire lowers "require(cond)" / "require(cond, \"message\")" to
// RequireExpr, spec.md §4.3's diagnostic assertion intrinsic.
func (a *Analyzer) analyzeRequire(fb *funcBuilder, scope ScopeID, pos token.Pos, args []ast.Expr) ir.Expr {
	if len(args) < 1 || len(args) > 2 {
		a.errorf(pos, KindFunctionArgumentCount, "require expects 1 or 2 arguments, got %d", len(args))
		return ir.NewRequire(pos, ir.NewConst(pos, types.NewConstant(types.Bool{}, 1)), "")
	}
	cond := a.analyzeExpr(fb, scope, args[0])
	if _, ok := cond.Typ().(types.Bool); !ok {
		p, _ := args[0].Span()
		a.errorf(p, KindFunctionArgumentType, "require's condition must be bool, got %s", cond.Typ())
	}
	msg := ""
	if len(args) == 2 {
		lit, ok := args[1].(*ast.Literal)
		if !ok || lit.Tok != token.STRING {
			p, _ := args[1].Span()
			a.errorf(p, KindFunctionArgumentConstantness, "require's message must be a string literal")
		} else {
			msg = lit.Str
		}
	}
	return ir.NewRequire(pos, cond, msg)
}

// analyzeDbg lowers "dbg!(\"fmt {}\", args...)" to DbgExpr, checking the
// format string's "{}" placeholder count against the trailing argument
// count (spec.md §4.3's FunctionDebugArgumentCount).
func (a *Analyzer) analyzeDbg(fb *funcBuilder, scope ScopeID, pos token.Pos, args []ast.Expr) ir.Expr {
	if len(args) < 1 {
		a.errorf(pos, KindFunctionArgumentCount, "dbg! requires a format string")
		return ir.NewDbg(pos, "", nil)
	}
	lit, ok := args[0].(*ast.Literal)
	if !ok || lit.Tok != token.STRING {
		p, _ := args[0].Span()
		a.errorf(p, KindFunctionArgumentConstantness, "dbg!'s format must be a string literal")
		return ir.NewDbg(pos, "", nil)
	}
	placeholders := strings.Count(lit.Str, "{}")
	rest := args[1:]
	if placeholders != len(rest) {
		a.errorf(pos, KindFunctionDebugArgumentCount, "dbg! format has %d placeholders, got %d arguments", placeholders, len(rest))
	}
	exprs := make([]ir.Expr, len(rest))
	for i, ae := range rest {
		exprs[i] = a.analyzeExpr(fb, scope, ae)
	}
	return ir.NewDbg(pos, lit.Str, exprs)
}

// bitWidthOf is the field-element bit width std::convert's bit-decomposition
// intrinsics operate over: a type's own width for Integer, 254 for field
// (BN254's scalar field bit length), 1 for bool.
func bitWidthOf(t types.Type) int {
	switch tt := t.(type) {
	case types.Integer:
		return tt.Width
	case types.Field:
		return 254
	case types.Bool:
		return 1
	}
	return 0
}

func (a *Analyzer) analyzeIntrinsic(fb *funcBuilder, scope ScopeID, pos token.Pos, intr *stdlib.Intrinsic, name string, pe *ast.PathExpr, argExprs []ast.Expr) ir.Expr {
	if !intr.ValidateArgCount(len(argExprs)) {
		a.errorf(pos, KindFunctionArgumentCount, "%s expects between %d and %d arguments, got %d", name, intr.MinArgs, intr.MaxArgs, len(argExprs))
	}
	args := make([]ir.Expr, len(argExprs))
	inSize := 0
	for i, ae := range argExprs {
		v := a.analyzeExpr(fb, scope, ae)
		if intr.RequiresConstant(i) {
			if _, ok := a.tryConstExpr(scope, ae); !ok {
				p, _ := ae.Span()
				a.errorf(p, KindFunctionArgumentConstantness, "%s's argument %d must be a compile-time constant", name, i+1)
			}
		}
		args[i] = v
		inSize += v.Typ().Size()
	}
	result := a.intrinsicResultType(scope, name, pe, argExprs, args)
	return ir.NewCallLibrary(pos, intr.ID, args, inSize, result)
}

// intrinsicResultType resolves the result type of a std intrinsic call.
// Exact bit-width/length semantics beyond what spec.md fixes are this
// package's own design decision.
func (a *Analyzer) intrinsicResultType(scope ScopeID, name string, pe *ast.PathExpr, argExprs []ast.Expr, args []ir.Expr) types.Type {
	switch name {
	case "std::array::reverse":
		if len(args) == 1 {
			return args[0].Typ()
		}
	case "std::array::truncate":
		if len(args) == 2 {
			if at, ok := args[0].Typ().(types.Array); ok {
				if c, ok := a.tryConstExpr(scope, argExprs[1]); ok {
					return types.Array{Elem: at.Elem, Len: int(c.Int.Int64())}
				}
			}
		}
	case "std::array::pad":
		if len(args) == 3 {
			if at, ok := args[0].Typ().(types.Array); ok {
				if c, ok := a.tryConstExpr(scope, argExprs[1]); ok {
					return types.Array{Elem: at.Elem, Len: int(c.Int.Int64())}
				}
			}
		}
	case "std::convert::to_bits":
		if len(args) == 1 {
			return types.Array{Elem: types.Bool{}, Len: bitWidthOf(args[0].Typ())}
		}
	case "std::convert::from_bits_unsigned", "std::convert::from_bits_signed":
		if len(pe.Generics) == 1 {
			return a.resolveType(scope, pe.Generics[0])
		}
		if len(args) == 1 {
			if at, ok := args[0].Typ().(types.Array); ok {
				return types.Integer{Width: at.Len, Signed: name == "std::convert::from_bits_signed"}
			}
		}
	case "std::convert::from_bits_field":
		return types.Field{}
	case "std::crypto::sha256":
		return types.Array{Elem: types.Integer{Width: 8, Signed: false}, Len: 32}
	case "std::crypto::pedersen":
		return types.Field{}
	case "std::crypto::schnorr::verify":
		return types.Bool{}
	}
	return types.Unit{}
}

// analyzeContractCall lowers "<Contract>::fetch(args...)" and
// "<Contract>::transfer(args...)", spec.md §4.3's cross-contract storage
// primitives, to CallLibraryExpr nodes the generator recognizes by id.
func (a *Analyzer) analyzeContractCall(fb *funcBuilder, scope ScopeID, pos token.Pos, pe *ast.PathExpr, argExprs []ast.Expr) ir.Expr {
	contractName, method := pe.Segments[0].Name, pe.Segments[1].Name
	args := make([]ir.Expr, len(argExprs))
	inSize := 0
	for i, ae := range argExprs {
		v := a.analyzeExpr(fb, scope, ae)
		args[i] = v
		inSize += v.Typ().Size()
	}
	switch method {
	case "fetch":
		stub, stubScope, _ := a.arena.lookupItem(scope, contractName)
		ct := a.resolveContractType(stubScope, stub.decl.(*ast.ContractItem))
		return ir.NewCallLibrary(pos, "contract_fetch", args, inSize, ct)
	case "transfer":
		return ir.NewCallLibrary(pos, "contract_transfer", args, inSize, types.Unit{})
	}
	a.errorf(pos, KindOnlyForContracts, "%q is not a contract primitive", method)
	return unitConst(pos)
}
