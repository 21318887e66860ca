package vm

import "math/big"

// muxRead implements a runtime-indexed array read (spec.md §3's
// LoadByIndex) as a sound multiplexer rather than a bare Go-level slice
// access: for every candidate position i in [0, arrayLen) it computes
// whether i equals the concrete index (via the same IsZero gadget the eq
// comparison uses) and accumulates match_i * elem_i, so the resulting wire
// is actually bound to idx by the constraint system rather than merely
// read off the concrete witness value — a dishonest prover cannot swap in
// a different index without the accumulated constraints failing to match
// the claimed output. The concrete bounds check still happens first
// (spec.md §4.5 errors: IndexOutOfBounds), using the shadow value every
// constraint.System tracks regardless of backend.
func (m *Machine) muxRead(fr *frame, baseOffset, elemSize, arrayLen int, idx Scalar) ([]Scalar, error) {
	idxVal := m.sys.Value(idx.W)
	if idxVal.Sign() < 0 || idxVal.Cmp(big.NewInt(int64(arrayLen))) >= 0 {
		return nil, errf(KindIndexOutOfBounds, "index %s out of bounds for length %d", idxVal, arrayLen)
	}
	elems := make([][]Scalar, arrayLen)
	for i := 0; i < arrayLen; i++ {
		elems[i] = m.frameSlots(fr, baseOffset+i*elemSize, elemSize)
	}
	out := make([]Scalar, elemSize)
	for j := 0; j < elemSize; j++ {
		acc := m.sys.Constant(big.NewInt(0))
		for i := 0; i < arrayLen; i++ {
			match := m.sys.IsZero(m.sys.Sub(m.sys.Constant(big.NewInt(int64(i))), idx.W))
			acc = m.sys.Add(acc, m.sys.Mul(match, elems[i][j].W))
		}
		out[j] = Scalar{Typ: elems[0][j].Typ, W: acc}
	}
	return out, nil
}

// muxWrite implements the symmetric runtime-indexed write (StoreByIndex):
// every candidate position is conditionally updated with the execution
// condition's conjunction AND-ed with that position's match bit, so only
// the one matching, currently-active slot actually changes.
func (m *Machine) muxWrite(fr *frame, baseOffset, elemSize, arrayLen int, idx Scalar, newVals []Scalar) error {
	idxVal := m.sys.Value(idx.W)
	if idxVal.Sign() < 0 || idxVal.Cmp(big.NewInt(int64(arrayLen))) >= 0 {
		return errf(KindIndexOutOfBounds, "index %s out of bounds for length %d", idxVal, arrayLen)
	}
	outer := m.condition()
	for i := 0; i < arrayLen; i++ {
		match := m.sys.IsZero(m.sys.Sub(m.sys.Constant(big.NewInt(int64(i))), idx.W))
		sel := Scalar{W: m.sys.Mul(outer.W, match)}
		off := baseOffset + i*elemSize
		old := m.frameSlots(fr, off, elemSize)
		chosen := m.selectScalars(sel, newVals, old)
		copy(fr.data[off:], chosen)
	}
	return nil
}

// frameSlots returns fr.data[offset:offset+size], growing and zero-filling
// any never-written slot first (an unset Scalar carries a nil Wire, which
// would panic a backend's Select/arithmetic gadgets if read directly).
func (m *Machine) frameSlots(fr *frame, offset, size int) []Scalar {
	fr.ensure(offset, size)
	out := fr.data[offset : offset+size]
	for i := range out {
		if out[i].W == nil {
			out[i].W = m.sys.Constant(big.NewInt(0))
		}
	}
	return out
}
