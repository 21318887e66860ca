package semantic

import (
	"github.com/dolthub/swiss"

	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/ir"
	"github.com/zinc-lang/zinc/lang/types"
)

// ScopeID indexes into an Analyzer's scope arena (spec.md §9 "Design
// Notes": "model this with arena-allocated scope ids rather than reference
// cycles; lookups and updates become index operations on the arena").
type ScopeID int

// noScope is the sentinel ScopeID -1, meaning "no parent" (the root scope).
const noScope ScopeID = -1

// variable is one entry of a Scope's variables map: spec.md §3 "variables
// (with mutability flag)".
type variable struct {
	Mutable bool
	Slot    int // frame slot assigned when the variable was declared
	Typ     types.Type
}

// moduleState is the lazy-resolution state machine for a ModItem/use target
// (spec.md §3 "Scope"/§9 "Design Notes"): Unresolved -> InProgress ->
// Resolved, with InProgress acting as the reference-loop detector.
type moduleState int

const (
	moduleUnresolved moduleState = iota
	moduleInProgress
	moduleResolved
)

// moduleEntry tracks one "mod name { ... }" or external module reference
// through its lazy resolution, spec.md §3: "begins as Unresolved{source}
// and atomically transitions to Resolved{scope} on first access."
type moduleEntry struct {
	state moduleState
	items []ast.Item // source, for Unresolved
	scope ScopeID     // valid once state == moduleResolved
}

// itemStub is what Phase 1 hoisting inserts for every module-level item
// before it is resolved (spec.md §4.3 "Phase 1 — Hoisting"): either the
// declaration is still unresolved, or it has already been analyzed.
type itemStub struct {
	kind string // "const" | "type" | "struct" | "enum" | "fn" | "contract"
	decl ast.Item

	resolved bool
	constant types.Constant
	typ      types.Type

	// funcCache holds already monomorphized instances of a "fn" stub,
	// keyed by a canonical rendering of the type-argument tuple (spec.md
	// §9 "Generic monomorphization": "cache by structural equality of the
	// type-argument tuple"); populated lazily by resolveFunction. It stays
	// nil (and unallocated) until the function is first resolved, generic
	// or not, and a non-generic function caches one instance; backed by the
	// teacher's own swiss.Map (see lang/machine/map.go), the same
	// open-addressing hash map used there for its Map builtin.
	funcCache *swiss.Map[string, *ir.Function]
}

// Scope is one lexical scope node: spec.md §3 "A tree of lexical scopes
// with a parent link and four maps: items (kind tag), constants, variables
// (with mutability flag), types, modules."
type Scope struct {
	parent ScopeID

	items     map[string]*itemStub
	constants map[string]types.Constant
	variables map[string]*variable
	types     map[string]types.Type
	modules   map[string]*moduleEntry
}

func newScope(parent ScopeID) *Scope {
	return &Scope{
		parent:    parent,
		items:     map[string]*itemStub{},
		constants: map[string]types.Constant{},
		variables: map[string]*variable{},
		types:     map[string]types.Type{},
		modules:   map[string]*moduleEntry{},
	}
}

// scopeArena owns every Scope ever created during one Analyzer run.
type scopeArena struct {
	scopes []*Scope
}

func (a *scopeArena) new(parent ScopeID) ScopeID {
	a.scopes = append(a.scopes, newScope(parent))
	return ScopeID(len(a.scopes) - 1)
}

func (a *scopeArena) get(id ScopeID) *Scope { return a.scopes[id] }

// declareItem inserts a named item stub at id's own level. Redeclaration at
// the same level is spec.md §4.3's RedeclaredItem error (reported by the
// caller, which has the position information).
func (a *scopeArena) declareItem(id ScopeID, name string, stub *itemStub) (existing *itemStub, redeclared bool) {
	s := a.get(id)
	if prev, ok := s.items[name]; ok {
		return prev, true
	}
	s.items[name] = stub
	return nil, false
}

// lookupItem walks id's parent chain looking for an item stub named name.
func (a *scopeArena) lookupItem(id ScopeID, name string) (*itemStub, ScopeID, bool) {
	for cur := id; cur != noScope; cur = a.get(cur).parent {
		if stub, ok := a.get(cur).items[name]; ok {
			return stub, cur, true
		}
	}
	return nil, noScope, false
}

// declareVariable inserts a variable at id's own level; child scopes may
// shadow it (spec.md §3 "shadowing by child scopes is allowed for
// variables"), so this never consults the parent chain.
func (a *scopeArena) declareVariable(id ScopeID, name string, v *variable) (existing *variable, redeclared bool) {
	s := a.get(id)
	if prev, ok := s.variables[name]; ok {
		return prev, true
	}
	s.variables[name] = v
	return nil, false
}

func (a *scopeArena) lookupVariable(id ScopeID, name string) (*variable, bool) {
	for cur := id; cur != noScope; cur = a.get(cur).parent {
		if v, ok := a.get(cur).variables[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (a *scopeArena) declareType(id ScopeID, name string, t types.Type) {
	a.get(id).types[name] = t
}

func (a *scopeArena) lookupType(id ScopeID, name string) (types.Type, bool) {
	for cur := id; cur != noScope; cur = a.get(cur).parent {
		if t, ok := a.get(cur).types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (a *scopeArena) declareConstant(id ScopeID, name string, c types.Constant) {
	a.get(id).constants[name] = c
}

func (a *scopeArena) lookupConstant(id ScopeID, name string) (types.Constant, bool) {
	for cur := id; cur != noScope; cur = a.get(cur).parent {
		if c, ok := a.get(cur).constants[name]; ok {
			return c, true
		}
	}
	return types.Constant{}, false
}
