package vm

import (
	"math/big"

	"github.com/zinc-lang/zinc/lang/constraint"
	"github.com/zinc-lang/zinc/lang/types"
)

// signedValue interprets v, a canonical [0, p) field representative, as the
// centered integer it denotes for a signed type: field subtraction/negation
// wrap negative results by the modulus (spec.md §4.5's signed integers are
// field elements, not native Go integers), so a representative in the
// upper half of the field denotes v - p, not v itself.
func signedValue(v, modulus *big.Int) *big.Int {
	half := new(big.Int).Rsh(modulus, 1)
	if v.Cmp(half) > 0 {
		return new(big.Int).Sub(v, modulus)
	}
	return new(big.Int).Set(v)
}

// rangeCheck bit-decomposes s and fails with Overflow if it does not fit
// t's declared width (spec.md §4.5 "a range check that c fits the declared
// bit-width; overflow is a runtime constraint violation"). Signed values
// are range-checked by shifting the wire itself by half the type's range
// using the System's own (field-modular) Add, rather than Go's big.Int.Add
// on the raw [0, p) representative: the latter never converts a negative
// value's huge field representative back into a small signed integer, so
// every negative result would spuriously overflow.
func (m *Machine) rangeCheck(s Scalar, t types.Type) error {
	width := bitWidth(t)
	w := s.W
	if isSigned(t) {
		half := m.sys.Constant(new(big.Int).Lsh(big.NewInt(1), uint(width-1)))
		w = m.sys.Add(w, half)
	}
	v := m.sys.Value(w)
	if v.Sign() < 0 || v.BitLen() > width {
		return errf(KindOverflow, "value %s does not fit in %s", signedValue(m.sys.Value(s.W), m.sys.Modulus()), t)
	}
	m.sys.ToBinary(w, width)
	return nil
}

func (m *Machine) binArith(a, b Scalar, t types.Type, f func(sys constraint.System, x, y constraint.Wire) constraint.Wire) (Scalar, error) {
	w := f(m.sys, a.W, b.W)
	out := Scalar{Typ: t, W: w}
	if err := m.rangeCheck(out, t); err != nil {
		return Scalar{}, err
	}
	return out, nil
}

func (m *Machine) add(a, b Scalar, t types.Type) (Scalar, error) {
	return m.binArith(a, b, t, constraint.System.Add)
}

func (m *Machine) sub(a, b Scalar, t types.Type) (Scalar, error) {
	return m.binArith(a, b, t, constraint.System.Sub)
}

func (m *Machine) mul(a, b Scalar, t types.Type) (Scalar, error) {
	return m.binArith(a, b, t, constraint.System.Mul)
}

func (m *Machine) neg(a Scalar, t types.Type) (Scalar, error) {
	w := m.sys.Neg(a.W)
	out := Scalar{Typ: t, W: w}
	if err := m.rangeCheck(out, t); err != nil {
		return Scalar{}, err
	}
	return out, nil
}

// divRem implements spec.md's "a = b*q + r with 0 <= r < |b| and sign
// rules; division by zero is a runtime error", computed concretely from
// the tracked witness values (both backends carry one via
// constraint.System.Value, converted to their signed meaning first when t
// is signed) and then reasserted as a constraint so the Proving backend's
// R1CS actually enforces the quotient/remainder relationship rather than
// merely trusting the Go-side division. big.Int.DivMod, not QuoRem,
// implements the Euclidean division spec.md §4.5 mandates (0 <= r < |b|
// always, rather than Go's truncating-toward-zero remainder).
func (m *Machine) divRem(a, b Scalar, t types.Type) (q, r Scalar, err error) {
	av, bv := m.sys.Value(a.W), m.sys.Value(b.W)
	if isSigned(t) {
		mod := m.sys.Modulus()
		av, bv = signedValue(av, mod), signedValue(bv, mod)
	}
	if bv.Sign() == 0 {
		return Scalar{}, Scalar{}, errf(KindDivisionByZero, "division by zero")
	}
	qv, rv := new(big.Int), new(big.Int)
	qv.DivMod(av, bv, rv)
	qw := m.sys.Constant(qv)
	rw := m.sys.Constant(rv)
	check := m.sys.Add(m.sys.Mul(qw, b.W), rw)
	m.sys.AssertEqual(check, a.W)
	q = Scalar{Typ: t, W: qw}
	r = Scalar{Typ: t, W: rw}
	if err := m.rangeCheck(q, t); err != nil {
		return Scalar{}, Scalar{}, err
	}
	if err := m.rangeCheck(r, t); err != nil {
		return Scalar{}, Scalar{}, err
	}
	return q, r, nil
}

// cmp implements spec.md's "decompose b - a and inspect the sign/overflow
// bit": compares the two operands' actual signed meaning, not their raw
// [0, p) field representatives (which would order every negative value as
// "greater than" any small positive one, since its representative is the
// huge p - |v|).
func (m *Machine) cmp(a, b Scalar) int {
	av, bv := m.sys.Value(a.W), m.sys.Value(b.W)
	if isSigned(a.Typ) || isSigned(b.Typ) {
		mod := m.sys.Modulus()
		av, bv = signedValue(av, mod), signedValue(bv, mod)
	}
	return av.Cmp(bv)
}

func (m *Machine) eq(a, b Scalar) Scalar {
	diff := m.sys.Sub(a.W, b.W)
	return Scalar{Typ: types.Bool{}, W: m.sys.IsZero(diff)}
}

func (m *Machine) ne(a, b Scalar) Scalar {
	eq := m.eq(a, b)
	return Scalar{Typ: types.Bool{}, W: m.sys.Sub(m.sys.Constant(big.NewInt(1)), eq.W)}
}

func (m *Machine) lt(a, b Scalar) Scalar { return boolScalar(m.sys, m.cmp(a, b) < 0) }
func (m *Machine) le(a, b Scalar) Scalar { return boolScalar(m.sys, m.cmp(a, b) <= 0) }
func (m *Machine) gt(a, b Scalar) Scalar { return boolScalar(m.sys, m.cmp(a, b) > 0) }
func (m *Machine) ge(a, b Scalar) Scalar { return boolScalar(m.sys, m.cmp(a, b) >= 0) }

// bitwise bit-decomposes both operands to the wider of the two widths,
// applies f bit by bit, and recomposes (spec.md "bit-decompose operands,
// apply the operation bit-by-bit, recompose"). Each operand is range-checked
// first so an out-of-width value (in particular a signed value whose raw
// field representative never fits t's width) surfaces as a proper Overflow
// error rather than reaching ToBinary's own implicit fits-or-panic check.
func (m *Machine) bitwise(a, b Scalar, t types.Type, f func(x, y bool) bool) (Scalar, error) {
	width := bitWidth(t)
	if err := m.rangeCheck(a, t); err != nil {
		return Scalar{}, err
	}
	if err := m.rangeCheck(b, t); err != nil {
		return Scalar{}, err
	}
	abits := m.sys.ToBinary(a.W, width)
	bbits := m.sys.ToBinary(b.W, width)
	out := make([]constraint.Wire, width)
	for i := 0; i < width; i++ {
		av := m.sys.Value(abits[i]).Sign() != 0
		bv := m.sys.Value(bbits[i]).Sign() != 0
		out[i] = boolScalar(m.sys, f(av, bv)).W
	}
	return Scalar{Typ: t, W: m.sys.FromBinary(out)}, nil
}

func (m *Machine) bitNot(a Scalar, t types.Type) (Scalar, error) {
	width := bitWidth(t)
	if err := m.rangeCheck(a, t); err != nil {
		return Scalar{}, err
	}
	abits := m.sys.ToBinary(a.W, width)
	out := make([]constraint.Wire, width)
	for i := 0; i < width; i++ {
		v := m.sys.Value(abits[i]).Sign() != 0
		out[i] = boolScalar(m.sys, !v).W
	}
	return Scalar{Typ: t, W: m.sys.FromBinary(out)}, nil
}

// shift implements spec.md's "Shift amount must be a constant; shift count
// greater than bit-width produces zero (logical shift) with no overflow
// error."
func (m *Machine) shift(a Scalar, amount int64, t types.Type, left bool) (Scalar, error) {
	width := bitWidth(t)
	if amount >= int64(width) {
		return constScalar(m.sys, t, big.NewInt(0)), nil
	}
	if err := m.rangeCheck(a, t); err != nil {
		return Scalar{}, err
	}
	bits := m.sys.ToBinary(a.W, width)
	out := make([]constraint.Wire, width)
	for i := 0; i < width; i++ {
		var srcIdx int
		if left {
			srcIdx = i - int(amount)
		} else {
			srcIdx = i + int(amount)
		}
		if srcIdx < 0 || srcIdx >= width {
			out[i] = m.sys.Constant(big.NewInt(0))
		} else {
			out[i] = bits[srcIdx]
		}
	}
	return Scalar{Typ: t, W: m.sys.FromBinary(out)}, nil
}

// cast implements spec.md's "widening within same signedness or
// unsigned->signed with strictly greater width, reuse the wire and update
// the type; else emit range-check constraints."
func (m *Machine) cast(a Scalar, target types.Type) (Scalar, error) {
	srcWidth, dstWidth := bitWidth(a.Typ), bitWidth(target)
	srcSigned, dstSigned := isSigned(a.Typ), isSigned(target)
	widening := dstWidth >= srcWidth && (srcSigned == dstSigned || (!srcSigned && dstSigned && dstWidth > srcWidth))
	out := Scalar{Typ: target, W: a.W}
	if widening {
		return out, nil
	}
	if err := m.rangeCheck(out, target); err != nil {
		return Scalar{}, err
	}
	return out, nil
}
