package groth16backend

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/test"
)

func compileR1CS(curve ecc.ID, circuit frontend.Circuit) (constraint.ConstraintSystem, error) {
	return frontend.Compile(curve.ScalarField(), r1cs.NewBuilder, circuit)
}

// Prove implements spec.md's create_proof: compile the circuit's shape,
// build a full witness (private + public) from the concrete values
// SetValues attached, and run groth16.Prove.
func (g *Groth16) Prove(circuit *Circuit, pk groth16.ProvingKey) (groth16.Proof, error) {
	cs, err := compileR1CS(g.CurveID, circuit)
	if err != nil {
		return nil, fmt.Errorf("groth16backend: compile: %w", err)
	}
	fullWitness, err := frontend.NewWitness(circuit, g.CurveID.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("groth16backend: witness: %w", err)
	}
	proof, err := groth16.Prove(cs, pk, fullWitness)
	if err != nil {
		return nil, fmt.Errorf("groth16backend: prove: %w", err)
	}
	return proof, nil
}

// Verify implements spec.md's verify_proof against the public-only half
// of the witness (the Circuit's PublicWitness slots).
func (g *Groth16) Verify(proof groth16.Proof, vk groth16.VerifyingKey, circuit *Circuit) error {
	publicWitness, err := frontend.NewWitness(circuit, g.CurveID.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("groth16backend: public witness: %w", err)
	}
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return fmt.Errorf("groth16backend: verify: %w", err)
	}
	return nil
}

// WriteProvingKey and WriteVerifyingKey serialize gnark's key types using
// their own gnark-io encoding, per spec.md's parameter-persistence needs
// for separating a one-time setup phase from later proving/verifying
// invocations of the same compiled circuit.
func WriteProvingKey(w io.Writer, pk groth16.ProvingKey) error {
	_, err := pk.WriteTo(w)
	return err
}

func WriteVerifyingKey(w io.Writer, vk groth16.VerifyingKey) error {
	_, err := vk.WriteTo(w)
	return err
}

// AssertCircuitConsistent runs gnark's own test engine (github.com/
// consensys/gnark/test) over the circuit's concrete assignment without a
// full Groth16 setup, for use by "zinc verify" as a cheaper pre-flight
// check before a real proof is generated (spec.md §4.5's Debug-backend
// test runs still exercise the same constraints the Proving backend
// would enforce).
func AssertCircuitConsistent(circuit *Circuit, curve ecc.ID) error {
	return test.IsSolved(circuit, circuit, curve.ScalarField())
}
