package semantic

import (
	"strings"

	"github.com/dolthub/swiss"

	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/ir"
	"github.com/zinc-lang/zinc/lang/types"
)

// funcBuilder tracks the frame-slot allocation for one function body being
// analyzed (spec.md §4.4 "Place access"): every local variable, parameter
// and induction variable claims a contiguous run of slots sized to its
// type, assigned in declaration order and never reused, matching the
// generator's flat per-call frame.
type funcBuilder struct {
	nextSlot int
}

func (fb *funcBuilder) newSlot(size int) int {
	slot := fb.nextSlot
	fb.nextSlot += size
	return slot
}

func (a *Analyzer) newUniqueID() uint64 {
	a.nextUniqueID++
	return a.nextUniqueID
}

// monoKey canonically renders a type-argument tuple for the instance cache
// (spec.md §9 "cache by structural equality of the type-argument tuple").
func monoKey(name string, typeArgs []types.Type) string {
	if len(typeArgs) == 0 {
		return name
	}
	parts := make([]string, len(typeArgs))
	for i, t := range typeArgs {
		parts[i] = t.String()
	}
	return name + "<" + strings.Join(parts, ",") + ">"
}

// resolveFunction lowers one monomorphized instance of a free function or
// an impl-block method (spec.md §4.3 "Functions are analyzed on first
// call" / §9 "Method call syntax x.f(y) is resolved at compile time to the
// function associated with typeof(x)"). selfType is non-nil exactly when
// stub names an impl method, giving its "self" parameter the receiver's
// type. Results are cached on the owning itemStub by the type-argument
// tuple so repeated calls with the same instantiation share one
// ir.Function, and the cache entry is installed before the body is
// analyzed so a recursive call resolves to the same (still-being-built)
// Function rather than looping forever.
func (a *Analyzer) resolveFunction(declScope ScopeID, stub *itemStub, typeArgs []types.Type, selfType types.Type, at ast.Node) *ir.Function {
	fn := stub.decl.(*ast.FnItem)
	key := monoKey(fn.Name.Name, typeArgs)
	if selfType != nil {
		key = selfType.String() + "::" + key
	}
	if stub.funcCache == nil {
		stub.funcCache = swiss.NewMap[string, *ir.Function](4)
	}
	if cached, ok := stub.funcCache.Get(key); ok {
		return cached
	}

	fnScope := a.arena.new(declScope)
	for i, g := range fn.Generics {
		if i < len(typeArgs) {
			a.arena.declareType(fnScope, g.Name, typeArgs[i])
		}
	}

	irfn := &ir.Function{UniqueID: a.newUniqueID(), Name: fn.Name.Name}
	stub.funcCache.Put(key, irfn)
	a.functions = append(a.functions, irfn)

	a.buildFunctionBody(fnScope, irfn, fn, selfType)
	return irfn
}

// resolveMethod lowers a contract method (spec.md §4.3 "the explicit pub fn
// methods of a contract type"). Unlike a free function it is never
// monomorphized (contract methods carry no generics) and its "self"
// receiver, when present, is bound to a variable of the contract type
// itself rather than a plain parameter; field access through self reaches
// contract storage instead of a frame slot (see resolvePlace).
func (a *Analyzer) resolveMethod(contractScope ScopeID, fn *ast.FnItem, ct *types.Contract) *ir.Function {
	fnScope := a.arena.new(contractScope)
	irfn := &ir.Function{UniqueID: a.newUniqueID(), Name: fn.Name.Name}
	a.functions = append(a.functions, irfn)

	fb := &funcBuilder{}
	for _, p := range fn.Params {
		if p.SelfPos.IsValid() {
			// selfStorageSlot marks a variable bound to contract storage
			// rather than a frame slot; resolvePlace recognizes it.
			a.arena.declareVariable(fnScope, "self", &variable{Mutable: true, Slot: selfStorageSlot, Typ: ct})
			continue
		}
		pt := a.resolveType(fnScope, p.Type)
		slot := fb.newSlot(pt.Size())
		a.arena.declareVariable(fnScope, p.Name.Name, &variable{Mutable: false, Slot: slot, Typ: pt})
		irfn.ParamSlots = append(irfn.ParamSlots, slot)
		irfn.ParamTypes = append(irfn.ParamTypes, pt)
	}

	a.finishFunctionBody(fnScope, irfn, fn, fb)
	return irfn
}

// buildFunctionBody handles the free-function/impl-method path: allocate
// parameter slots (self, when selfType != nil, taking the receiver's own
// type) in a fresh funcBuilder, then delegate to finishFunctionBody for
// the body/return-type bookkeeping shared with resolveMethod.
func (a *Analyzer) buildFunctionBody(fnScope ScopeID, irfn *ir.Function, fn *ast.FnItem, selfType types.Type) {
	fb := &funcBuilder{}
	for _, p := range fn.Params {
		if p.SelfPos.IsValid() {
			slot := fb.newSlot(selfType.Size())
			a.arena.declareVariable(fnScope, "self", &variable{Mutable: false, Slot: slot, Typ: selfType})
			irfn.ParamSlots = append(irfn.ParamSlots, slot)
			irfn.ParamTypes = append(irfn.ParamTypes, selfType)
			continue
		}
		pt := a.resolveType(fnScope, p.Type)
		slot := fb.newSlot(pt.Size())
		a.arena.declareVariable(fnScope, p.Name.Name, &variable{Mutable: false, Slot: slot, Typ: pt})
		irfn.ParamSlots = append(irfn.ParamSlots, slot)
		irfn.ParamTypes = append(irfn.ParamTypes, pt)
	}
	a.finishFunctionBody(fnScope, irfn, fn, fb)
}

func (a *Analyzer) finishFunctionBody(fnScope ScopeID, irfn *ir.Function, fn *ast.FnItem, fb *funcBuilder) {
	var resultType types.Type = types.Unit{}
	if fn.RetType != nil {
		resultType = a.resolveType(fnScope, fn.RetType)
	}
	irfn.ResultType = resultType

	body := a.analyzeBlock(fb, fnScope, fn.Body)
	if !resultType.Equal(body.Typ()) {
		pos, _ := fn.Body.Span()
		a.errorf(pos, KindFunctionReturnType, "function %q returns %s, expected %s", fn.Name.Name, body.Typ(), resultType)
	}
	irfn.Body = body
	irfn.FrameSize = fb.nextSlot
}

// selfStorageSlot is the sentinel variable.Slot value marking "self" in a
// contract method: resolvePlace recognizes it and addresses the contract's
// Merkle storage instead of a call-frame slot.
const selfStorageSlot = ir.StorageSlot
