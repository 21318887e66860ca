package semantic

import (
	"github.com/zinc-lang/zinc/lang/ast"
)

// hoist implements spec.md §4.3 "Phase 1 — Hoisting": every top-level item
// is inserted as an unresolved stub before any of them is resolved, so
// mutual references (a function calling one declared later in the same
// file) need no forward-declaration.
func (a *Analyzer) hoist(scope ScopeID, items []ast.Item) {
	for _, it := range items {
		name := it.ItemName()
		var kind string
		switch it.(type) {
		case *ast.ConstItem:
			kind = "const"
		case *ast.TypeAliasItem:
			kind = "alias"
		case *ast.StructItem:
			kind = "struct"
		case *ast.EnumItem:
			kind = "enum"
		case *ast.FnItem:
			kind = "fn"
		case *ast.ContractItem:
			kind = "contract"
		case *ast.ModItem:
			a.hoistMod(scope, it.(*ast.ModItem))
			continue
		case *ast.UseItem:
			a.hoistUse(scope, it.(*ast.UseItem))
			continue
		case *ast.ImplItem:
			a.hoistImpl(scope, it.(*ast.ImplItem))
			continue
		default:
			continue
		}
		if name == "" {
			continue
		}
		if prev, redeclared := a.arena.declareItem(scope, name, &itemStub{kind: kind, decl: it}); redeclared {
			pos, _ := it.Span()
			declPos, _ := prev.decl.Span()
			a.errorAt2(pos, declPos, KindRedeclaredItem, "%q is already declared", name)
		}
	}
}

// hoistMod registers name as an Unresolved module entry without eagerly
// analyzing its contents (spec.md §3 "begins as Unresolved{source}"); the
// items only get hoisted into their own child scope on first access via
// resolveModule, which also guards against a reference loop.
func (a *Analyzer) hoistMod(scope ScopeID, it *ast.ModItem) {
	a.arena.get(scope).modules[it.Name.Name] = &moduleEntry{state: moduleUnresolved, items: it.Items}
}

// resolveModule forces name's lazy resolution, returning the scope holding
// its hoisted items. A concurrent (recursive) resolution attempt — this
// analyzer is single-threaded, so "concurrent" here means "while already in
// progress higher up the call stack" — is spec.md §3's reference loop.
func (a *Analyzer) resolveModule(scope ScopeID, name string, at ast.Node) (ScopeID, bool) {
	for cur := scope; cur != noScope; cur = a.arena.get(cur).parent {
		me, ok := a.arena.get(cur).modules[name]
		if !ok {
			continue
		}
		switch me.state {
		case moduleResolved:
			return me.scope, true
		case moduleInProgress:
			pos, _ := at.Span()
			a.errorf(pos, KindReferenceLoop, "reference loop resolving module %q", name)
			return noScope, false
		default:
			me.state = moduleInProgress
			child := a.arena.new(cur)
			a.hoist(child, me.items)
			me.state = moduleResolved
			me.scope = child
			return child, true
		}
	}
	pos, _ := at.Span()
	a.errorf(pos, KindModuleNotFound, "module %q not found", name)
	return noScope, false
}

// hoistUse resolves a "use path::to::name;" eagerly: spec.md excludes
// cross-crate manifests, so every segment but the last must name a mod
// block reachable from scope, and the last segment's item stub is aliased
// (not copied) into scope under its own name.
func (a *Analyzer) hoistUse(scope ScopeID, it *ast.UseItem) {
	if len(it.Segments) == 0 {
		return
	}
	cur := scope
	for _, seg := range it.Segments[:len(it.Segments)-1] {
		next, ok := a.resolveModule(cur, seg.Name, it)
		if !ok {
			return
		}
		cur = next
	}
	last := it.Segments[len(it.Segments)-1]
	stub, _, ok := a.arena.lookupItem(cur, last.Name)
	if !ok {
		a.errorHint(it.UsePos, KindUseExpectedPath, a.suggest(cur, last.Name), "undeclared item %q in use path", last.Name)
		return
	}
	a.arena.get(scope).items[last.Name] = stub
}

// hoistImpl declares an impl block's methods as "fn" itemStubs in scope,
// each under implMethodKey(target type name, method name) (spec.md §9
// "Polymorphism": "Method call syntax
// x.f(y) is resolved at compile time to the function associated with
// typeof(x) in the appropriate impl block"). Resolution is deferred to
// when a method is actually called; hoisting only records the association.
func (a *Analyzer) hoistImpl(scope ScopeID, it *ast.ImplItem) {
	name := it.ItemName()
	if name == "" {
		a.errorf(it.ImplPos, KindImplExpectedStructureOrEnumeration, "impl target must be a struct or enum path")
		return
	}
	stub, _, ok := a.arena.lookupItem(scope, name)
	if !ok {
		a.errorHint(it.ImplPos, KindImplExpectedStructureOrEnumeration, a.suggest(scope, name), "undeclared type %q", name)
		return
	}
	if stub.kind != "struct" && stub.kind != "enum" {
		a.errorf(it.ImplPos, KindImplExpectedStructureOrEnumeration, "%q is not a struct or enum", name)
		return
	}
	for _, m := range it.Methods {
		mname := implMethodKey(name, m.Name.Name)
		if prev, redeclared := a.arena.declareItem(scope, mname, &itemStub{kind: "fn", decl: m}); redeclared {
			pos, _ := m.Span()
			declPos, _ := prev.decl.Span()
			a.errorAt2(pos, declPos, KindRedeclaredItem, "method %q is already declared for %q", m.Name.Name, name)
		}
	}
}

// implMethodKey namespaces an impl method's stub name so it cannot collide
// with a same-named free function; method-call resolution (x.f(y)) looks
// it up via this exact key once typeof(x) is known.
func implMethodKey(typeName, method string) string { return typeName + "::" + method }
