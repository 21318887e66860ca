// Package ir defines the generator intermediate representation (spec.md
// §4.4): a tree of generator expressions plus top-level generator
// statements, produced by lang/semantic and consumed by lang/generator.
// Every node carries its source location and (for expressions) its
// resolved Type, matching spec.md's "Each node knows its source location
// and, where applicable, its type."
package ir

import (
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/types"
)

// Expr is implemented by every generator-expression node: an operand tree
// whose operators emit their implementing instructions after their
// operands (spec.md §4.4 "Emission order").
type Expr interface {
	Pos() token.Pos
	Typ() types.Type
}

// base is embedded by every concrete Expr to supply Pos/Typ without
// per-node boilerplate.
type base struct {
	pos token.Pos
	typ types.Type
}

func (b base) Pos() token.Pos { return b.pos }
func (b base) Typ() types.Type { return b.typ }

// ConstExpr is a fully-folded compile-time constant (spec.md §3's
// Value/Constant split collapsed into IR: constants never allocate a
// witness until combined with a runtime value, per spec.md §4.5).
type ConstExpr struct {
	base
	Value types.Constant
}

func NewConst(pos token.Pos, v types.Constant) *ConstExpr {
	return &ConstExpr{base: base{pos, v.Typ}, Value: v}
}

// LoadExpr reads a Place at compile-time-known (offset, size).
type LoadExpr struct {
	base
	Place *Place
}

// LoadIndexExpr reads a Place at a runtime-computed index, spec.md §4.4's
// LoadByIndex ("indices that are runtime values use LoadByIndex").
type LoadIndexExpr struct {
	base
	Place    *Place
	Index    Expr
	ElemSize int
	ArrayLen int
}

// UnaryExpr applies one of spec.md §3's unary instruction families
// (arithmetic Neg, bitwise BitNot, logical Not) to X.
type UnaryExpr struct {
	base
	Op Op
	X  Expr
}

// BinaryExpr applies one of the arithmetic/bitwise/logical/comparison
// binary families to X and Y.
type BinaryExpr struct {
	base
	Op   Op
	X, Y Expr
}

// CastExpr lowers to spec.md §3's Cast{target_type} instruction.
type CastExpr struct {
	base
	X Expr
}

// CallExpr lowers to Call{address, input_size}; Callee is the resolved
// unique id of the target function (placeholder, rewritten to a final
// address by the optimizer per spec.md §4.4).
type CallExpr struct {
	base
	Callee uint64
	Args   []Expr
}

// CallLibraryExpr lowers to CallLibrary{id, input_size, output_size}
// (spec.md §4.5), used for every std intrinsic and contract primitive.
// StorageField is non-empty only for the MTreeMap operations (spec.md §4.5
// "get, insert, remove, contains"), which address a specific contract
// storage leaf by declared name rather than by frame-slot Place, since a
// map's dynamic key-value vector has no fixed size() to route through the
// ordinary evaluation stack addressing.
type CallLibraryExpr struct {
	base
	ID           string
	Args         []Expr
	InSize       int
	StorageField string
}

// ConditionalExpr lowers to If/Else/EndIf (spec.md §4.4 "Conditional
// emission"); Then and Else are themselves Expr so a tail-expression if/else
// composes directly, and statement-position if/else without an else arm
// uses a Unit-typed Else of nil (emitted as the branch's zero value).
type ConditionalExpr struct {
	base
	Cond       Expr
	Then, Else Expr // Else is nil only when Typ() is Unit
}

// LoopExpr lowers to LoopBegin{count}/LoopEnd (spec.md §4.4 "Loop
// emission"). Count is resolved at compile time; Down indicates the
// induction variable decrements rather than increments (spec.md §8's
// reversed-range invariant, resolved downward per spec.md §9's Open
// Question decision).
type LoopExpr struct {
	base
	InductionSlot int
	IndType       types.Type // the range bound's type, used to emit the constant Push for Start
	Start         int64
	Count         int64
	Down          bool
	WhileCond     Expr // nil if there is no "while" modifier
	Body          Expr
}

// MatchExpr lowers to a chain of Load/Eq/If/Else (spec.md §4.4 "Match
// emission").
type MatchExpr struct {
	base
	ScrutineeSlot int
	Scrutinee     Expr
	Arms          []MatchArm
	Fallback      Expr // binding or wildcard arm body; never nil
}

// MatchArm is one non-fallback pattern/value/body triple of a MatchExpr.
type MatchArm struct {
	Value types.Constant
	Body  Expr
}

// StoreExpr lowers to Store (constant offset) or StoreByIndex (runtime
// index); it is Unit-typed, used both in statement position and as the
// left side of a sequence.
type StoreExpr struct {
	base
	Place    *Place
	Index    Expr // nil for a constant-offset Store
	ElemSize int
	ArrayLen int
	Value    Expr
}

// SequenceExpr evaluates each of Exprs in order for effect, yielding the
// value (and Typ) of the last one; used to lower a Block's statements plus
// tail expression into one IR expression.
type SequenceExpr struct {
	base
	Exprs []Expr
}

// ReturnExpr lowers to Return{output_size} mid-function (the implicit
// function-end return is emitted directly by the generator without this
// node).
type ReturnExpr struct {
	base
	Value Expr // nil for a bare "return"
}

// RequireExpr lowers to the Require{message} diagnostic instruction
// (spec.md §3/§4.3).
type RequireExpr struct {
	base
	Cond    Expr
	Message string
}

// DbgExpr lowers to the Dbg{format, types} diagnostic instruction.
type DbgExpr struct {
	base
	Format string
	Args   []Expr
}

