package semantic

import (
	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/ir"
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/types"
)

// resolvePlace resolves an lvalue expression to a Place (spec.md §4.4 "Place
// access"): a base variable plus a chain of field/tuple-index/array-index
// projections collapsed to one (frameSlot, offset, size) triple. When the
// final projection is a runtime-computed array index, place instead
// addresses the whole array and index carries the (non-nil) runtime
// expression; elemType/elemSize/arrayLen describe the element being
// addressed either way, so a caller never needs to branch on which case it
// got. A further field/tuple-index projection chained after a
// runtime-indexed element (e.g. "arr[i].field") is not supported — the
// semantic pass rejects it rather than silently dropping the projection.
func (a *Analyzer) resolvePlace(fb *funcBuilder, scope ScopeID, e ast.Expr) (place *ir.Place, index ir.Expr, elemType types.Type, elemSize, arrayLen int, ok bool) {
	switch x := e.(type) {
	case *ast.PathExpr:
		if len(x.Segments) != 1 || x.Generics != nil {
			pos, _ := e.Span()
			a.errorf(pos, KindUndeclaredItem, "not an assignable place")
			return nil, nil, nil, 0, 0, false
		}
		return a.resolveIdentPlace(scope, x.Segments[0].Name, e)

	case *ast.Ident:
		return a.resolveIdentPlace(scope, x.Name, e)

	case *ast.FieldExpr:
		return a.resolveFieldPlace(fb, scope, x)

	case *ast.TupleIndexExpr:
		return a.resolveTupleIndexPlace(fb, scope, x)

	case *ast.IndexExpr:
		return a.resolveIndexPlace(fb, scope, x)
	}

	pos, _ := e.Span()
	a.errorf(pos, KindUndeclaredItem, "not an assignable place")
	return nil, nil, nil, 0, 0, false
}

func (a *Analyzer) resolveIdentPlace(scope ScopeID, name string, at ast.Node) (*ir.Place, ir.Expr, types.Type, int, int, bool) {
	v, found := a.arena.lookupVariable(scope, name)
	if !found {
		pos, _ := at.Span()
		a.errorHint(pos, KindUndeclaredItem, a.suggest(scope, name), "undeclared variable %q", name)
		return nil, nil, nil, 0, 0, false
	}
	place := &ir.Place{FrameSlot: v.Slot, Offset: 0, Size: v.Typ.Size(), Typ: v.Typ}
	return place, nil, v.Typ, v.Typ.Size(), 0, true
}

func fieldTypeOf(st *types.Struct, name string) types.Type {
	for _, f := range st.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return types.Unit{}
}

func (a *Analyzer) resolveFieldPlace(fb *funcBuilder, scope ScopeID, x *ast.FieldExpr) (*ir.Place, ir.Expr, types.Type, int, int, bool) {
	basePlace, idx, baseType, _, _, ok := a.resolvePlace(fb, scope, x.Recv)
	if !ok {
		return nil, nil, nil, 0, 0, false
	}
	pos, _ := x.Span()
	if idx != nil {
		a.errorf(pos, KindUndeclaredItem, "field access after a runtime-indexed array element is not supported")
		return nil, nil, nil, 0, 0, false
	}
	switch bt := baseType.(type) {
	case *types.Struct:
		off, size, found := bt.FieldOffset(x.Name.Name)
		if !found {
			a.errorHint(pos, KindUndeclaredItem, a.suggest(scope, x.Name.Name), "%s has no field %q", bt.Name, x.Name.Name)
			return nil, nil, nil, 0, 0, false
		}
		ft := fieldTypeOf(bt, x.Name.Name)
		place := &ir.Place{FrameSlot: basePlace.FrameSlot, Offset: basePlace.Offset + off, Size: size, Typ: ft}
		return place, nil, ft, size, 0, true
	case *types.Contract:
		off, sf, found := bt.StorageFieldOffset(x.Name.Name)
		if !found || sf.IsMap() {
			a.errorf(pos, KindOnlyForContracts, "%q is not a plain storage field of %s", x.Name.Name, bt.Name)
			return nil, nil, nil, 0, 0, false
		}
		place := &ir.Place{FrameSlot: selfStorageSlot, Offset: off, Size: sf.Type.Size(), Typ: sf.Type}
		return place, nil, sf.Type, sf.Type.Size(), 0, true
	}
	a.errorf(pos, KindUndeclaredItem, "%s has no fields", baseType)
	return nil, nil, nil, 0, 0, false
}

func (a *Analyzer) resolveTupleIndexPlace(fb *funcBuilder, scope ScopeID, x *ast.TupleIndexExpr) (*ir.Place, ir.Expr, types.Type, int, int, bool) {
	basePlace, idx, baseType, _, _, ok := a.resolvePlace(fb, scope, x.Recv)
	if !ok {
		return nil, nil, nil, 0, 0, false
	}
	pos, _ := x.Span()
	if idx != nil {
		a.errorf(pos, KindUndeclaredItem, "tuple index after a runtime-indexed array element is not supported")
		return nil, nil, nil, 0, 0, false
	}
	tt, isTuple := baseType.(types.Tuple)
	if !isTuple || x.Index < 0 || x.Index >= len(tt.Elems) {
		a.errorf(pos, KindUndeclaredItem, "%s has no element %d", baseType, x.Index)
		return nil, nil, nil, 0, 0, false
	}
	off := 0
	for i := 0; i < x.Index; i++ {
		off += tt.Elems[i].Size()
	}
	et := tt.Elems[x.Index]
	place := &ir.Place{FrameSlot: basePlace.FrameSlot, Offset: basePlace.Offset + off, Size: et.Size(), Typ: et}
	return place, nil, et, et.Size(), 0, true
}

func (a *Analyzer) resolveIndexPlace(fb *funcBuilder, scope ScopeID, x *ast.IndexExpr) (*ir.Place, ir.Expr, types.Type, int, int, bool) {
	basePlace, idx, baseType, _, _, ok := a.resolvePlace(fb, scope, x.Recv)
	if !ok {
		return nil, nil, nil, 0, 0, false
	}
	pos, _ := x.Span()
	if idx != nil {
		a.errorf(pos, KindUndeclaredItem, "indexing after a runtime-indexed array element is not supported")
		return nil, nil, nil, 0, 0, false
	}
	at, isArray := baseType.(types.Array)
	if !isArray {
		a.errorf(pos, KindUndeclaredItem, "%s is not indexable", baseType)
		return nil, nil, nil, 0, 0, false
	}
	elemSize := at.Elem.Size()
	if c, isConst := a.tryConstExpr(scope, x.Index); isConst {
		n := int(c.Int.Int64())
		if n < 0 || n >= at.Len {
			a.errorf(pos, KindUndeclaredItem, "index %d out of bounds for %s", n, baseType)
			return nil, nil, nil, 0, 0, false
		}
		place := &ir.Place{FrameSlot: basePlace.FrameSlot, Offset: basePlace.Offset + n*elemSize, Size: elemSize, Typ: at.Elem}
		return place, nil, at.Elem, elemSize, 0, true
	}
	runtimeIdx := a.analyzeExpr(fb, scope, x.Index)
	wholePlace := &ir.Place{FrameSlot: basePlace.FrameSlot, Offset: basePlace.Offset, Size: at.Size(), Typ: at}
	return wholePlace, runtimeIdx, at.Elem, elemSize, at.Len, true
}

// placeLoad reads place uniformly whether the final projection was constant
// (index == nil) or runtime-computed.
func placeLoad(pos token.Pos, place *ir.Place, index ir.Expr, elemType types.Type, elemSize, arrayLen int) ir.Expr {
	if index == nil {
		return ir.NewLoad(pos, place)
	}
	return ir.NewLoadIndex(pos, place, index, elemSize, arrayLen, elemType)
}

// placeIsMutable walks down to the base variable of an lvalue chain and
// reports its declared mutability (spec.md §4.3 "MutatingImmutable": fields
// and elements share their base binding's mutability, there being no
// per-field mutability flag).
func (a *Analyzer) placeIsMutable(scope ScopeID, e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.PathExpr:
		if len(x.Segments) != 1 {
			return true
		}
		v, ok := a.arena.lookupVariable(scope, x.Segments[0].Name)
		return !ok || v.Mutable
	case *ast.Ident:
		v, ok := a.arena.lookupVariable(scope, x.Name)
		return !ok || v.Mutable
	case *ast.FieldExpr:
		return a.placeIsMutable(scope, x.Recv)
	case *ast.TupleIndexExpr:
		return a.placeIsMutable(scope, x.Recv)
	case *ast.IndexExpr:
		return a.placeIsMutable(scope, x.Recv)
	}
	return true
}

// compoundOp maps a compound-assignment token to the binary Op it desugars
// to ("x += y" reads x, applies OpAdd, stores the result).
func compoundOp(tok token.Token) (ir.Op, bool) {
	switch tok {
	case token.PLUSEQ:
		return ir.OpAdd, true
	case token.MINUSEQ:
		return ir.OpSub, true
	case token.STAREQ:
		return ir.OpMul, true
	case token.SLASHEQ:
		return ir.OpDiv, true
	case token.PERCENTEQ:
		return ir.OpRem, true
	case token.AMPEQ:
		return ir.OpBitAnd, true
	case token.PIPEEQ:
		return ir.OpBitOr, true
	case token.CIRCEQ:
		return ir.OpBitXor, true
	case token.LTLTEQ:
		return ir.OpShl, true
	case token.GTGTEQ:
		return ir.OpShr, true
	}
	return ir.OpInvalid, false
}
