// Package constraint defines the System interface spec.md §1 calls the
// "opaque R1CS/Groth16 collaborator" (ConstraintSystem, generate_parameters,
// create_proof, verify_proof): the primitive gate set lang/vm's arithmetic
// and bitwise gadgets (spec.md §4.5) are built from. Two concrete
// implementations satisfy it: lang/constraint/debugbackend (a concrete,
// no-proof evaluator — spec.md §4.5's "Debug" backend, also Zinc's "concrete
// BigInt interpreter for testing" per spec.md §4.5's Dual interpretation)
// and lang/constraint/groth16backend (adapts github.com/consensys/gnark's
// frontend.API onto this System, backed by BN254/Groth16 — spec.md's
// "Proving" backend).
package constraint

import "math/big"

// Wire is an opaque handle to one allocated field element: a witness or
// public-input variable, or a not-yet-allocated constant (spec.md §4.5
// "Constant scalars do not allocate wires until they are combined with
// variable scalars" — concretely, backends may represent an
// as-yet-unallocated constant and a real allocated wire with the same Wire
// type, deferring allocation until Add/Mul etc. actually need one).
type Wire interface{}

// System is the constraint-system collaborator the VM drives to execute a
// program while simultaneously emitting R1CS constraints (spec.md §4.5
// "Every arithmetic gadget allocates witness variables and enforces
// constraints; the value of each variable is also tracked so the
// interpreter can execute concretely").
type System interface {
	// Constant returns a Wire for a compile-time-known value. Implementations
	// may defer actual witness/public allocation until first combined with a
	// non-constant Wire.
	Constant(v *big.Int) Wire

	// AllocateWitness allocates a new private (witness) variable with the
	// given concrete value.
	AllocateWitness(v *big.Int) Wire

	// AllocatePublic allocates a new public-input variable with the given
	// concrete value.
	AllocatePublic(v *big.Int) Wire

	// Modulus returns the scalar field's prime modulus, needed by any
	// gadget (range checks, comparisons, division) that must tell whether
	// a canonical [0, p) field representative actually denotes a negative
	// signed value wrapped by modular arithmetic (spec.md §4.5's signed
	// integers are field elements, not native Go integers).
	Modulus() *big.Int

	// Value returns the concrete value currently carried by w. Every System
	// must be able to answer this even for a Proving backend, since Zinc's
	// VM drives compile-time-bounded control flow (array indices, loop
	// bounds, branch selection at the Go level for diagnostics) from
	// concrete values alongside constraint emission (spec.md §4.5's dual
	// tracking).
	Value(w Wire) *big.Int

	Add(a, b Wire) Wire
	Sub(a, b Wire) Wire
	Mul(a, b Wire) Wire
	Neg(a Wire) Wire
	// Inverse returns the multiplicative inverse of a, or the System's
	// chosen sentinel for a == 0 (used by the eq/ne "inverse trick" gadget,
	// spec.md §4.5 "Comparisons ... eq/ne via inverse-trick").
	Inverse(a Wire) Wire

	// AssertEqual constrains a == b; violated only if the circuit's witness
	// is inconsistent (spec.md §4.5 errors: UnsatisfiedConstraint).
	AssertEqual(a, b Wire)
	// AssertBoolean constrains a to be in {0, 1}.
	AssertBoolean(a Wire)

	// IsZero returns 1 if a == 0 else 0, without revealing a's sign.
	IsZero(a Wire) Wire
	// Select returns a if cond == 1 else b; cond must already be boolean
	// (spec.md §4.5 "Conditional writes ... the gadget selects between the
	// old and new value with the execution condition as the selector").
	Select(cond, a, b Wire) Wire

	// ToBinary bit-decomposes a into nbits wires, LSB first, and
	// constrains their recomposition to equal a (spec.md §4.5 "bit-decompose
	// operands"). nbits must be large enough that a's value fits, or the
	// decomposition itself becomes an implicit range check.
	ToBinary(a Wire, nbits int) []Wire
	// FromBinary recomposes a LSB-first bit vector (each constrained
	// boolean by the producer) into a single field element.
	FromBinary(bits []Wire) Wire
}
