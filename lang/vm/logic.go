package vm

import (
	"math/big"

	"github.com/zinc-lang/zinc/lang/types"
)

// Logical And/Or/Xor/Not (spec.md §3's "logical" instruction family,
// distinct from bitwise BitAnd/BitOr/BitXor/BitNot) operate on bool
// operands already constrained to {0, 1}, so each reduces to a small
// polynomial in the operand wires rather than a bit-decomposition gadget.
func (m *Machine) logicalAnd(a, b Scalar) Scalar {
	return Scalar{Typ: types.Bool{}, W: m.sys.Mul(a.W, b.W)}
}

func (m *Machine) logicalOr(a, b Scalar) Scalar {
	sum := m.sys.Add(a.W, b.W)
	ab := m.sys.Mul(a.W, b.W)
	return Scalar{Typ: types.Bool{}, W: m.sys.Sub(sum, ab)}
}

func (m *Machine) logicalXor(a, b Scalar) Scalar {
	sum := m.sys.Add(a.W, b.W)
	ab := m.sys.Mul(a.W, b.W)
	twoAB := m.sys.Add(ab, ab)
	return Scalar{Typ: types.Bool{}, W: m.sys.Sub(sum, twoAB)}
}

func (m *Machine) logicalNot(a Scalar) Scalar {
	return Scalar{Typ: types.Bool{}, W: m.sys.Sub(m.sys.Constant(big.NewInt(1)), a.W)}
}
