package semantic

import (
	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/types"
)

// resolveType turns a parsed TypeExpr into a types.Type (spec.md §4.3
// "Types are resolved recursively"). It never returns an Alias: every path
// is resolved to its target before returning, per spec.md §3's invariant
// that alias "never survives to IR".
func (a *Analyzer) resolveType(scope ScopeID, te ast.TypeExpr) types.Type {
	switch t := te.(type) {
	case *ast.TupleType:
		if len(t.Elems) == 0 {
			return types.Unit{}
		}
		elems := make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = a.resolveType(scope, e)
		}
		return types.Tuple{Elems: elems}

	case *ast.ArrayType:
		elem := a.resolveType(scope, t.Elem)
		size := a.evalConstExpr(scope, t.Size)
		return types.Array{Elem: elem, Len: int(size.Int.Int64())}

	case *ast.PathType:
		return a.resolvePathType(scope, t)
	}
	return types.Unit{}
}

func (a *Analyzer) resolvePathType(scope ScopeID, t *ast.PathType) types.Type {
	name := t.Segments[len(t.Segments)-1].Name

	if name == types.MTreeMapName {
		pos, _ := t.Span()
		a.errorf(pos, KindTypeInstantiationForbidden, "MTreeMap may only appear as a direct contract storage field")
		return types.Unit{}
	}

	if builtin, ok := a.arena.lookupType(scope, name); ok && t.Generics == nil {
		return builtin
	}

	stub, stubScope, ok := a.arena.lookupItem(scope, name)
	if !ok {
		pos, _ := t.Span()
		a.errorHint(pos, KindUndeclaredItem, a.suggest(scope, name), "undeclared type %q", name)
		return types.Unit{}
	}

	switch stub.kind {
	case "alias":
		ai := stub.decl.(*ast.TypeAliasItem)
		return a.resolveType(stubScope, ai.Type)
	case "struct":
		if t.Generics != nil {
			pos, _ := t.Span()
			a.errorf(pos, KindTypeUnexpectedGenerics, "generic struct instantiation is not supported in this position")
		}
		return a.resolveStructType(stubScope, stub)
	case "enum":
		return a.resolveEnumType(stubScope, stub)
	case "contract":
		return a.resolveContractType(stubScope, stub)
	default:
		pos, _ := t.Span()
		a.errorf(pos, KindUndeclaredItem, "%q does not name a type", name)
		return types.Unit{}
	}
}

// resolveMTreeMapStorage resolves a storage field's "MTreeMap<K, V>" type
// annotation directly from the PathType (bypassing resolvePathType's
// instantiation-forbidden guard, since a direct contract storage field is
// the one place spec.md §4.3 allows it).
func (a *Analyzer) resolveMTreeMapStorage(scope ScopeID, te ast.TypeExpr) (key, value types.Type, ok bool) {
	pt, isPath := te.(*ast.PathType)
	if !isPath || len(pt.Segments) == 0 || pt.Segments[len(pt.Segments)-1].Name != types.MTreeMapName {
		return nil, nil, false
	}
	if len(pt.Generics) != 2 {
		pos, _ := te.Span()
		a.errorf(pos, KindTypeUnexpectedGenerics, "MTreeMap requires exactly two type arguments")
		return types.Unit{}, types.Unit{}, true
	}
	return a.resolveType(scope, pt.Generics[0]), a.resolveType(scope, pt.Generics[1]), true
}

func (a *Analyzer) resolveStructType(scope ScopeID, stub *itemStub) types.Type {
	if stub.resolved {
		return stub.typ
	}
	it := stub.decl.(*ast.StructItem)
	st := &types.Struct{Name: it.Name.Name}
	stub.resolved, stub.typ = true, st // break recursive self-reference before descending into fields
	for _, f := range it.Fields {
		st.Fields = append(st.Fields, types.StructField{Name: f.Name.Name, Type: a.resolveType(scope, f.Type)})
	}
	return st
}

func (a *Analyzer) resolveEnumType(scope ScopeID, stub *itemStub) types.Type {
	if stub.resolved {
		return stub.typ
	}
	it := stub.decl.(*ast.EnumItem)
	et := &types.Enum{Name: it.Name.Name}
	stub.resolved, stub.typ = true, et
	for i, v := range it.Variants {
		ev := types.EnumVariant{Name: v.Name.Name, Discriminant: int64(i)}
		for _, f := range v.Fields {
			ev.Fields = append(ev.Fields, a.resolveType(scope, f))
		}
		et.Variants = append(et.Variants, ev)
	}
	return et
}

// resolveContractType resolves and caches a contract's storage/method table
// on its itemStub (spec.md §8 "nominal for ... contracts": two references to
// the same declaration must yield the exact same *types.Contract pointer,
// matching the struct/enum caching resolveStructType/resolveEnumType do).
func (a *Analyzer) resolveContractType(scope ScopeID, stub *itemStub) *types.Contract {
	if stub.resolved {
		return stub.typ.(*types.Contract)
	}
	it := stub.decl.(*ast.ContractItem)
	ct := &types.Contract{Name: it.Name.Name}
	stub.resolved, stub.typ = true, ct
	for _, f := range it.Storage {
		if key, value, ok := a.resolveMTreeMapStorage(scope, f.Type); ok {
			ct.Storage = append(ct.Storage, types.StorageField{Name: f.Name.Name, MapKey: key, MapValue: value})
			continue
		}
		ct.Storage = append(ct.Storage, types.StorageField{Name: f.Name.Name, Type: a.resolveType(scope, f.Type)})
	}
	for _, m := range it.Methods {
		if m.Pub == token.NoPos {
			continue
		}
		isMutable := methodIsMutable(m)
		var input, output types.Type = types.Unit{}, types.Unit{}
		if len(m.Params) > 0 {
			last := m.Params[len(m.Params)-1]
			if !last.SelfPos.IsValid() {
				input = a.resolveType(scope, last.Type)
			} else if len(m.Params) > 1 {
				input = a.resolveType(scope, m.Params[len(m.Params)-1].Type)
			}
		}
		if m.RetType != nil {
			output = a.resolveType(scope, m.RetType)
		}
		ct.Methods = append(ct.Methods, types.Method{Name: m.Name.Name, IsMutable: isMutable, Input: input, Output: output})
	}
	return ct
}
