// Package groth16backend adapts github.com/consensys/gnark's frontend.API
// onto lang/constraint.System: spec.md's "Proving" backend, the collaborator
// that actually emits an R1CS and, via gnark's groth16 package over BN254,
// runs generate_parameters/create_proof/verify_proof (spec.md §1, §4.5).
//
// Zinc's VM is not itself a gnark circuit written against frontend.API by
// hand; instead lang/vm replays one already-analyzed program's instructions
// against whichever constraint.System it is given, so the same Execute loop
// drives both debugbackend (concrete, for "zinc run"/"zinc test") and this
// backend (for "zinc verify"/proof generation). Circuit packages the replay
// as a gnark frontend.Circuit so it can be fed to groth16.Setup/Prove.
package groth16backend

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/zinc-lang/zinc/lang/constraint"
)

type wire struct {
	v   frontend.Variable
	val *big.Int // shadow concrete value, present whenever known (spec.md §4.5 dual tracking)
}

// System adapts a gnark frontend.API into constraint.System. It is only
// valid for the lifetime of one Circuit.Define call: gnark rebuilds the
// circuit (and therefore a fresh System) for every Setup/Prove invocation.
type System struct {
	api frontend.API
}

// New wraps a gnark frontend.API (available only inside a
// frontend.Circuit.Define implementation) as a constraint.System.
func New(api frontend.API) *System { return &System{api: api} }

// Modulus returns BN254's scalar field modulus.
func (s *System) Modulus() *big.Int { return fieldModulus() }

func (s *System) Constant(v *big.Int) constraint.Wire {
	return wire{v: s.api.Constant(v), val: new(big.Int).Set(v)}
}

func (s *System) AllocateWitness(v *big.Int) constraint.Wire {
	// Witnesses are declared on the Circuit struct ahead of time (gnark's
	// allocation model, unlike a dynamically-growing R1CS); Execute only
	// ever receives already-allocated frontend.Variable values wrapped by
	// the caller (see Circuit.Define), so this path is unreachable here.
	panic("groth16backend: AllocateWitness must be supplied by Circuit.Define, not called mid-execution")
}

func (s *System) AllocatePublic(v *big.Int) constraint.Wire {
	panic("groth16backend: AllocatePublic must be supplied by Circuit.Define, not called mid-execution")
}

// Wrap adapts an already-allocated frontend.Variable (a Circuit struct
// field tagged gnark:",public" or private) together with its known
// concrete value into a constraint.Wire, for use by Circuit.Define when
// seeding the VM's initial input frame.
func Wrap(v frontend.Variable, val *big.Int) constraint.Wire {
	return wire{v: v, val: val}
}

// Value returns the shadow concrete value tracked alongside a wire's
// frontend.Variable. Every wire produced by this backend's own gates
// carries one; only witnesses supplied directly by the caller without a
// known value (which Zinc never does — every input has a concrete
// assignment at proving time) would lack it.
func (s *System) Value(w constraint.Wire) *big.Int {
	wv := w.(wire)
	if wv.val == nil {
		panic("groth16backend: value requested for a wire with no known concrete assignment")
	}
	return wv.val
}

func (s *System) Add(a, b constraint.Wire) constraint.Wire {
	av, bv := a.(wire), b.(wire)
	out := s.api.Add(av.v, bv.v)
	return wire{v: out, val: addVal(av.val, bv.val)}
}

func (s *System) Sub(a, b constraint.Wire) constraint.Wire {
	av, bv := a.(wire), b.(wire)
	out := s.api.Sub(av.v, bv.v)
	return wire{v: out, val: subVal(av.val, bv.val)}
}

func (s *System) Mul(a, b constraint.Wire) constraint.Wire {
	av, bv := a.(wire), b.(wire)
	out := s.api.Mul(av.v, bv.v)
	return wire{v: out, val: mulVal(av.val, bv.val)}
}

func (s *System) Neg(a constraint.Wire) constraint.Wire {
	av := a.(wire)
	out := s.api.Neg(av.v)
	var val *big.Int
	if av.val != nil {
		val = new(big.Int).Neg(av.val)
		val.Mod(val, fieldModulus())
	}
	return wire{v: out, val: val}
}

func (s *System) Inverse(a constraint.Wire) constraint.Wire {
	av := a.(wire)
	out := s.api.Inverse(av.v)
	var val *big.Int
	if av.val != nil && av.val.Sign() != 0 {
		val = new(big.Int).ModInverse(av.val, fieldModulus())
	}
	return wire{v: out, val: val}
}

func (s *System) AssertEqual(a, b constraint.Wire) {
	s.api.AssertIsEqual(a.(wire).v, b.(wire).v)
}

func (s *System) AssertBoolean(a constraint.Wire) {
	s.api.AssertIsBoolean(a.(wire).v)
}

func (s *System) IsZero(a constraint.Wire) constraint.Wire {
	av := a.(wire)
	out := s.api.IsZero(av.v)
	var val *big.Int
	if av.val != nil {
		if av.val.Sign() == 0 {
			val = big.NewInt(1)
		} else {
			val = big.NewInt(0)
		}
	}
	return wire{v: out, val: val}
}

func (s *System) Select(cond, a, b constraint.Wire) constraint.Wire {
	cv, av, bv := cond.(wire), a.(wire), b.(wire)
	out := s.api.Select(cv.v, av.v, bv.v)
	var val *big.Int
	if cv.val != nil {
		if cv.val.Sign() != 0 {
			val = av.val
		} else {
			val = bv.val
		}
	}
	return wire{v: out, val: val}
}

func (s *System) ToBinary(a constraint.Wire, nbits int) []constraint.Wire {
	av := a.(wire)
	bits := s.api.ToBinary(av.v, nbits)
	out := make([]constraint.Wire, nbits)
	for i, b := range bits {
		var val *big.Int
		if av.val != nil {
			val = big.NewInt(int64(av.val.Bit(i)))
		}
		out[i] = wire{v: b, val: val}
	}
	return out
}

func (s *System) FromBinary(bits []constraint.Wire) constraint.Wire {
	vs := make([]frontend.Variable, len(bits))
	val := new(big.Int)
	known := true
	for i := len(bits) - 1; i >= 0; i-- {
		bw := bits[i].(wire)
		vs[i] = bw.v
		if bw.val == nil {
			known = false
			continue
		}
		val.Lsh(val, 1)
		if bw.val.Sign() != 0 {
			val.SetBit(val, 0, 1)
		}
	}
	out := s.api.FromBinary(vs...)
	if !known {
		return wire{v: out}
	}
	return wire{v: out, val: val}
}

func fieldModulus() *big.Int { return ecc.BN254.ScalarField() }

func addVal(a, b *big.Int) *big.Int {
	if a == nil || b == nil {
		return nil
	}
	r := new(big.Int).Add(a, b)
	return r.Mod(r, fieldModulus())
}

func subVal(a, b *big.Int) *big.Int {
	if a == nil || b == nil {
		return nil
	}
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, fieldModulus())
}

func mulVal(a, b *big.Int) *big.Int {
	if a == nil || b == nil {
		return nil
	}
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, fieldModulus())
}

// Runner is implemented by lang/vm.Machine: the replay driver the Circuit
// below invokes from within Define, so gnark's own circuit-compilation
// walk and Zinc's VM execution loop are the same code path regardless of
// backend (spec.md's dual interpretation requirement).
type Runner interface {
	Run(sys constraint.System, inputs []constraint.Wire) ([]constraint.Wire, error)
}

// Circuit implements gnark's frontend.Circuit by replaying a compiled
// Zinc program's bytecode through Runner against this backend's System.
// Input/Output sizes come from the program's root descriptor (spec.md §3
// Circuit.input/output); every slot is allocated as a
// frontend.Variable, public ones tagged via PublicWitness.
type Circuit struct {
	Witness       []frontend.Variable
	PublicWitness []frontend.Variable `gnark:",public"`

	// values holds the concrete assignment, Witness slots first and then
	// PublicWitness slots; it is supplied out-of-band by the caller building
	// the assignment (not a circuit field, so it is unexported and only
	// meaningful at Prove time via SetValues below).
	runner     Runner
	inputSizes []int
	values     []*big.Int
}

// NewCircuit builds an empty circuit shape for gnark's Setup (no concrete
// values needed) or Prove (values supplied) for one compiled Zinc program.
func NewCircuit(runner Runner, numWitness, numPublic int) *Circuit {
	return &Circuit{
		Witness:       make([]frontend.Variable, numWitness),
		PublicWitness: make([]frontend.Variable, numPublic),
		runner:        runner,
	}
}

// Define implements frontend.Circuit: it wraps every allocated variable
// into a constraint.Wire (with a concrete shadow value when c.values was
// populated for a real proving run) and hands them to the Runner, which
// replays the VM's Execute loop over them.
func (c *Circuit) Define(api frontend.API) error {
	sys := New(api)
	inputs := make([]constraint.Wire, 0, len(c.Witness)+len(c.PublicWitness))
	valAt := func(i int) *big.Int {
		if i < len(c.values) {
			return c.values[i]
		}
		return nil
	}
	for i, v := range c.Witness {
		inputs = append(inputs, Wrap(v, valAt(i)))
	}
	base := len(c.Witness)
	for i, v := range c.PublicWitness {
		inputs = append(inputs, Wrap(v, valAt(base+i)))
	}
	_, err := c.runner.Run(sys, inputs)
	return err
}

// SetValues attaches the concrete witness assignment a real proving run
// needs; Setup never calls this (it only compiles the constraint shape).
// Beyond seeding Define's shadow values (c.values, read back out by
// Value/valAt), it also assigns Witness/PublicWitness themselves, since
// those are the fields gnark's frontend.NewWitness actually walks by
// reflection to build the witness it hands to groth16.Prove/Verify.
func (c *Circuit) SetValues(values []*big.Int) {
	c.values = values
	for i := range c.Witness {
		if i < len(values) {
			c.Witness[i] = values[i]
		}
	}
	base := len(c.Witness)
	for i := range c.PublicWitness {
		if base+i < len(values) {
			c.PublicWitness[i] = values[base+i]
		}
	}
}

// Groth16 bundles the three spec.md-named operations
// (generate_parameters/create_proof/verify_proof) over BN254.
type Groth16 struct {
	CurveID ecc.ID
}

// NewGroth16 creates a Groth16 driver fixed to BN254, per spec.md's choice of
// curve for the scalar field every Zinc program computes over.
func NewGroth16() *Groth16 { return &Groth16{CurveID: ecc.BN254} }

func (g *Groth16) Setup(circuit frontend.Circuit) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	cs, err := compileR1CS(g.CurveID, circuit)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16backend: compile: %w", err)
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16backend: setup: %w", err)
	}
	return pk, vk, nil
}
