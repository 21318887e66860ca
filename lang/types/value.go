package types

import (
	"fmt"
	"math/big"
)

// Constant is a compile-time-known Value (spec.md §3): a BigInt payload
// tagged with its Type, used by constant folding, array sizes, enum
// discriminants and literal typing. A Bool constant stores 0 or 1 in Int;
// Unit constants carry an unused zero Int.
type Constant struct {
	Typ Type
	Int *big.Int
}

// NewConstant builds a Constant from a native int64, convenient for enum
// discriminants and loop bounds.
func NewConstant(t Type, v int64) Constant {
	return Constant{Typ: t, Int: big.NewInt(v)}
}

func (c Constant) String() string {
	if _, ok := c.Typ.(Bool); ok {
		return fmt.Sprintf("%t", c.Int.Sign() != 0)
	}
	return c.Int.String()
}

// Type implements the Value notion that every compile-time value knows its
// own type.
func (c Constant) Type() Type { return c.Typ }

// InRange reports whether c.Int fits within the bit width and signedness of
// an Integer/Field/Bool type, used by the semantic analyzer to check that
// an integer literal fits a let binding's declared type.
func (c Constant) InRange() bool {
	switch t := c.Typ.(type) {
	case Bool:
		return c.Int.Sign() == 0 || c.Int.Cmp(big.NewInt(1)) == 0
	case Field:
		return c.Int.Sign() >= 0 && c.Int.BitLen() <= 254
	case Integer:
		if t.Signed {
			max := new(big.Int).Lsh(big.NewInt(1), uint(t.Width-1))
			min := new(big.Int).Neg(max)
			return c.Int.Cmp(min) >= 0 && c.Int.Cmp(max) < 0
		}
		max := new(big.Int).Lsh(big.NewInt(1), uint(t.Width))
		return c.Int.Sign() >= 0 && c.Int.Cmp(max) < 0
	}
	return true
}
