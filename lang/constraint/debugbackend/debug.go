// Package debugbackend implements spec.md §4.5's "Debug" constraint
// system: "a constraint system that records witnesses and checks
// constraints but does not emit proofs." It also serves as spec.md §4.5's
// "concrete BigInt interpreter for testing" half of the VM's dual
// interpretation, since it evaluates every gate immediately over
// gnark-crypto's BN254 scalar field (every wire holds a
// github.com/consensys/gnark-crypto/ecc/bn254/fr element, not a
// math/big.Int) and fails fast the moment a constraint does not hold.
package debugbackend

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zinc-lang/zinc/lang/constraint"
)

// UnsatisfiedConstraintError is returned the moment a gate's concrete
// inputs fail to satisfy its defining equation (spec.md §4.5 errors:
// UnsatisfiedConstraint).
type UnsatisfiedConstraintError struct {
	Reason string
}

func (e *UnsatisfiedConstraintError) Error() string {
	return fmt.Sprintf("unsatisfied constraint: %s", e.Reason)
}

type wire struct {
	v fr.Element
}

// System is a constraint.System that evaluates every gate immediately
// against concrete fr.Element values, panicking (caught by lang/vm as a
// fatal runtime error, spec.md §7 "UnsatisfiedConstraint ... fatal") the
// instant an asserted equation does not hold. It counts allocated
// witnesses/constraints for diagnostics but never produces a proof.
type System struct {
	NumWitness     int
	NumPublic      int
	NumConstraints int
}

// New creates an empty debug System.
func New() *System { return &System{} }

func feFromBig(v *big.Int) fr.Element {
	var e fr.Element
	e.SetBigInt(v)
	return e
}

// Modulus returns BN254's scalar field modulus, the same prime gnark-crypto's
// fr.Element reduces every value modulo.
func (s *System) Modulus() *big.Int { return ecc.BN254.ScalarField() }

func (s *System) Constant(v *big.Int) constraint.Wire { return wire{feFromBig(v)} }

func (s *System) AllocateWitness(v *big.Int) constraint.Wire {
	s.NumWitness++
	return wire{feFromBig(v)}
}

func (s *System) AllocatePublic(v *big.Int) constraint.Wire {
	s.NumPublic++
	return wire{feFromBig(v)}
}

func (s *System) Value(w constraint.Wire) *big.Int {
	e := w.(wire).v
	out := new(big.Int)
	e.BigInt(out)
	return out
}

func (s *System) Add(a, b constraint.Wire) constraint.Wire {
	s.NumConstraints++
	var r fr.Element
	r.Add(&a.(wire).v, &b.(wire).v)
	return wire{r}
}

func (s *System) Sub(a, b constraint.Wire) constraint.Wire {
	s.NumConstraints++
	var r fr.Element
	r.Sub(&a.(wire).v, &b.(wire).v)
	return wire{r}
}

func (s *System) Mul(a, b constraint.Wire) constraint.Wire {
	s.NumConstraints++
	var r fr.Element
	r.Mul(&a.(wire).v, &b.(wire).v)
	return wire{r}
}

func (s *System) Neg(a constraint.Wire) constraint.Wire {
	s.NumConstraints++
	var r fr.Element
	r.Neg(&a.(wire).v)
	return wire{r}
}

// Inverse returns a^-1, or the zero element if a == 0 (matching the
// "inverse trick" gadget's expectation that inv(0) is a well-defined,
// if meaningless, value rather than an error).
func (s *System) Inverse(a constraint.Wire) constraint.Wire {
	s.NumConstraints++
	av := a.(wire).v
	if av.IsZero() {
		return wire{fr.Element{}}
	}
	var r fr.Element
	r.Inverse(&av)
	return wire{r}
}

func (s *System) AssertEqual(a, b constraint.Wire) {
	s.NumConstraints++
	if !a.(wire).v.Equal(&b.(wire).v) {
		panic(&UnsatisfiedConstraintError{Reason: fmt.Sprintf("%s != %s", s.Value(a), s.Value(b))})
	}
}

func (s *System) AssertBoolean(a constraint.Wire) {
	s.NumConstraints++
	v := a.(wire).v
	if !v.IsZero() && !v.IsOne() {
		panic(&UnsatisfiedConstraintError{Reason: fmt.Sprintf("%s is not boolean", s.Value(a))})
	}
}

func (s *System) IsZero(a constraint.Wire) constraint.Wire {
	s.NumConstraints++
	if a.(wire).v.IsZero() {
		return s.Constant(big.NewInt(1))
	}
	return s.Constant(big.NewInt(0))
}

func (s *System) Select(cond, a, b constraint.Wire) constraint.Wire {
	s.NumConstraints++
	if cond.(wire).v.IsOne() {
		return a
	}
	return b
}

// ToBinary bit-decomposes a into nbits wires LSB-first, implicitly range
// checking that a's value fits within nbits bits (spec.md §4.5 "bit-
// decompose operands"); a value that does not fit is itself an
// UnsatisfiedConstraint, since the recomposition of the truncated bits
// would not reproduce a.
func (s *System) ToBinary(a constraint.Wire, nbits int) []constraint.Wire {
	s.NumConstraints += nbits
	v := s.Value(a)
	bits := make([]constraint.Wire, nbits)
	for i := 0; i < nbits; i++ {
		bits[i] = s.Constant(big.NewInt(int64(v.Bit(i))))
	}
	recomposed := new(big.Int)
	for i := nbits - 1; i >= 0; i-- {
		recomposed.Lsh(recomposed, 1)
		if v.Bit(i) == 1 {
			recomposed.SetBit(recomposed, 0, 1)
		}
	}
	if recomposed.Cmp(v) != 0 {
		panic(&UnsatisfiedConstraintError{Reason: fmt.Sprintf("%s does not fit in %d bits", v, nbits)})
	}
	return bits
}

func (s *System) FromBinary(bits []constraint.Wire) constraint.Wire {
	s.NumConstraints++
	out := new(big.Int)
	for i := len(bits) - 1; i >= 0; i-- {
		out.Lsh(out, 1)
		if s.Value(bits[i]).Sign() != 0 {
			out.SetBit(out, 0, 1)
		}
	}
	return s.Constant(out)
}
