// Package vm implements spec.md §4.5's Virtual Machine: the single
// Execute loop that interprets lang/bytecode's linear Instruction stream
// against a lang/constraint.System, the way the teacher's lang/machine
// package interprets compiler.Opcode against its Thread/Frame state
// (adapted here from Starlark values to spec.md §3's typed field-element
// Scalars, and from a dynamic-value operand stack to a fixed-size-per-type
// one, since every Zinc value has a statically known Size() in field
// elements).
package vm

import (
	"math/big"

	"github.com/zinc-lang/zinc/lang/constraint"
	"github.com/zinc-lang/zinc/lang/types"
)

// Scalar is spec.md §4.5's "Scalar{variant: Constant|Variable, type,
// value?, wire?}", collapsed to one representation: every Scalar carries a
// constraint.Wire (whose concrete Value a System can always report, per
// constraint.System's Value contract) and the types.Type it was produced
// as, needed to size Load/Store/Push operands and to select the right
// range check on arithmetic.
type Scalar struct {
	Typ types.Type
	W   constraint.Wire
}

// Int returns the Scalar's concrete value via the owning System.
func (s Scalar) Int(sys constraint.System) *big.Int { return sys.Value(s.W) }

// constScalar builds a Scalar for a compile-time-known value of type t
// (spec.md "Constant scalars do not allocate wires until they are combined
// with variable scalars" — deferred allocation is the System's concern,
// Constant already defers it per lang/constraint.System.Constant's
// contract).
func constScalar(sys constraint.System, t types.Type, v *big.Int) Scalar {
	return Scalar{Typ: t, W: sys.Constant(v)}
}

func boolScalar(sys constraint.System, v bool) Scalar {
	n := int64(0)
	if v {
		n = 1
	}
	return constScalar(sys, types.Bool{}, big.NewInt(n))
}

func (s Scalar) truthy(sys constraint.System) bool {
	return sys.Value(s.W).Sign() != 0
}

func bitWidth(t types.Type) int {
	switch tt := t.(type) {
	case types.Integer:
		return tt.Width
	case types.Bool:
		return 1
	case types.Field:
		return 254
	}
	return 254
}

func isSigned(t types.Type) bool {
	tt, ok := t.(types.Integer)
	return ok && tt.Signed
}
