// This file is the package's namesake: spec.md §4.5's single Execute loop,
// driving lang/bytecode's linear Instruction stream against a
// lang/constraint.System one instruction at a time, the way the teacher's
// lang/machine package runs compiler.Opcode against a Thread one opcode at
// a time (run() in the teacher's machine.go).
package vm

import (
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/lang/bytecode"
	"github.com/zinc-lang/zinc/lang/constraint"
	"github.com/zinc-lang/zinc/lang/constraint/debugbackend"
)

// Run satisfies groth16backend.Runner, letting the same Machine drive both
// the concrete Debug backend and a Proving backend's frontend.API-backed
// System. gnark constructs a fresh System on every Setup/Prove call (its
// Circuit.Define runs once per invocation), so Run re-binds sys here rather
// than trusting whatever System New was originally called with — spec.md
// §4.5's "Dual interpretation" requires the same Machine value to be
// reusable across repeated circuit builds.
//
// debugbackend.System raises its UnsatisfiedConstraintError via panic
// rather than a returned error (AssertEqual/AssertBoolean/ToBinary have no
// error return in the constraint.System interface), so Run recovers here
// and turns it into the same structured RuntimeError every other fatal
// runtime error already is, instead of an uncaught panic reaching the CLI
// as a raw stack trace.
func (m *Machine) Run(sys constraint.System, inputs []constraint.Wire) (out []constraint.Wire, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, panicToRuntimeError(r)
		}
	}()

	m.sys = sys
	m.eval = nil
	m.frames = nil
	m.cond = nil
	m.loops = nil
	m.steps = 0
	m.lastAuthPath = nil

	leaves := leafTypes(m.inputType)
	if len(inputs) != len(leaves) {
		return nil, fmt.Errorf("vm: expected %d input wires, got %d", len(leaves), len(inputs))
	}
	args := make([]Scalar, len(inputs))
	for i, w := range inputs {
		args[i] = Scalar{Typ: leaves[i], W: w}
	}

	entry := m.instr[m.entryPC]
	if entry.Op != bytecode.OpCall {
		return nil, fmt.Errorf("vm: entry address %d is not a Call instruction", m.entryPC)
	}
	for _, a := range args {
		m.push(a)
	}
	result, err := m.execute(m.entryPC)
	if err != nil {
		return nil, err
	}
	out = make([]constraint.Wire, len(result))
	for i, s := range result {
		out[i] = s.W
	}
	return out, nil
}

// execute runs instructions starting at pc until OpExit, returning whatever
// is left on the evaluation stack (spec.md §4.4: every entry program's
// first instruction is a Call to the circuit/method body, immediately
// followed by an Exit once it returns).
func (m *Machine) execute(pc int) ([]Scalar, error) {
	for {
		if pc >= len(m.instr) {
			return nil, fmt.Errorf("vm: program counter %d out of range", pc)
		}
		in := m.instr[pc]

		m.steps++
		if m.lim.MaxSteps > 0 && m.steps > m.lim.MaxSteps {
			return nil, errf(KindThreadCancelled, "exceeded step limit %d", m.lim.MaxSteps)
		}

		next := pc + 1
		switch in.Op {
		case bytecode.OpNoOperation:

		case bytecode.OpPush:
			v, ok := new(big.Int).SetString(in.Value, 10)
			if !ok {
				return nil, fmt.Errorf("vm: malformed push constant %q", in.Value)
			}
			m.push(Scalar{Typ: in.Type.Type(), W: m.sys.Constant(v)})

		case bytecode.OpPop:
			m.popN(in.Size)

		case bytecode.OpCopy:
			top := m.eval[len(m.eval)-in.Size:]
			dup := append([]Scalar(nil), top...)
			m.eval = append(m.eval, dup...)

		case bytecode.OpSlice:
			vs := m.popN(in.Size)
			if in.Offset+in.ElemSize > len(vs) {
				return nil, errf(KindIndexOutOfBounds, "slice out of bounds")
			}
			for _, v := range vs[in.Offset : in.Offset+in.ElemSize] {
				m.push(v)
			}

		case bytecode.OpLoad:
			m.pushAll(m.frameSlots(m.curFrame(), in.Offset, in.Size))

		case bytecode.OpStore:
			newVals := m.popN(in.Size)
			fr := m.curFrame()
			old := m.frameSlots(fr, in.Offset, in.Size)
			chosen := m.selectScalars(m.condition(), newVals, old)
			copy(fr.data[in.Offset:], chosen)

		case bytecode.OpLoadByIndex:
			idx := m.pop()
			fr := m.curFrame()
			res, err := m.muxRead(fr, in.Offset, in.ElemSize, in.ArrayLen, idx)
			if err != nil {
				return nil, err
			}
			m.pushAll(res)

		case bytecode.OpStoreByIndex:
			idx := m.pop()
			newVals := m.popN(in.ElemSize)
			fr := m.curFrame()
			if err := m.muxWrite(fr, in.Offset, in.ElemSize, in.ArrayLen, idx, newVals); err != nil {
				return nil, err
			}

		case bytecode.OpLoadFromStorage:
			res, err := m.execLoadFromStorage(in)
			if err != nil {
				return nil, err
			}
			m.pushAll(res)

		case bytecode.OpStoreInStorage:
			newVals := m.popN(in.Size)
			if err := m.execStoreInStorage(in, newVals); err != nil {
				return nil, err
			}

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul:
			b, a := m.pop(), m.pop()
			var out Scalar
			var err error
			switch in.Op {
			case bytecode.OpAdd:
				out, err = m.add(a, b, in.Type.Type())
			case bytecode.OpSub:
				out, err = m.sub(a, b, in.Type.Type())
			case bytecode.OpMul:
				out, err = m.mul(a, b, in.Type.Type())
			}
			if err != nil {
				return nil, err
			}
			m.push(out)

		case bytecode.OpDiv, bytecode.OpRem:
			b, a := m.pop(), m.pop()
			q, r, err := m.divRem(a, b, in.Type.Type())
			if err != nil {
				return nil, err
			}
			if in.Op == bytecode.OpDiv {
				m.push(q)
			} else {
				m.push(r)
			}

		case bytecode.OpNeg:
			a := m.pop()
			out, err := m.neg(a, in.Type.Type())
			if err != nil {
				return nil, err
			}
			m.push(out)

		case bytecode.OpBitAnd, bytecode.OpBitOr, bytecode.OpBitXor:
			b, a := m.pop(), m.pop()
			var f func(x, y bool) bool
			switch in.Op {
			case bytecode.OpBitAnd:
				f = func(x, y bool) bool { return x && y }
			case bytecode.OpBitOr:
				f = func(x, y bool) bool { return x || y }
			case bytecode.OpBitXor:
				f = func(x, y bool) bool { return x != y }
			}
			out, err := m.bitwise(a, b, in.Type.Type(), f)
			if err != nil {
				return nil, err
			}
			m.push(out)

		case bytecode.OpBitNot:
			a := m.pop()
			out, err := m.bitNot(a, in.Type.Type())
			if err != nil {
				return nil, err
			}
			m.push(out)

		case bytecode.OpShl, bytecode.OpShr:
			amount := m.pop()
			a := m.pop()
			amt := m.sys.Value(amount.W).Int64()
			out, err := m.shift(a, amt, in.Type.Type(), in.Op == bytecode.OpShl)
			if err != nil {
				return nil, err
			}
			m.push(out)

		case bytecode.OpAnd:
			b, a := m.pop(), m.pop()
			m.push(m.logicalAnd(a, b))
		case bytecode.OpOr:
			b, a := m.pop(), m.pop()
			m.push(m.logicalOr(a, b))
		case bytecode.OpXor:
			b, a := m.pop(), m.pop()
			m.push(m.logicalXor(a, b))
		case bytecode.OpNot:
			a := m.pop()
			m.push(m.logicalNot(a))

		case bytecode.OpEq, bytecode.OpNe, bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
			b, a := m.pop(), m.pop()
			var out Scalar
			switch in.Op {
			case bytecode.OpEq:
				out = m.eq(a, b)
			case bytecode.OpNe:
				out = m.ne(a, b)
			case bytecode.OpLt:
				out = m.lt(a, b)
			case bytecode.OpLe:
				out = m.le(a, b)
			case bytecode.OpGt:
				out = m.gt(a, b)
			case bytecode.OpGe:
				out = m.ge(a, b)
			}
			m.push(out)

		case bytecode.OpCast:
			a := m.pop()
			out, err := m.cast(a, in.Type.Type())
			if err != nil {
				return nil, err
			}
			m.push(out)

		case bytecode.OpIf:
			m.execIf(m.pop())
		case bytecode.OpElse:
			m.execElse()
		case bytecode.OpEndIf:
			m.execEndIf()

		case bytecode.OpLoopBegin:
			m.execLoopBegin(in)

		case bytecode.OpLoopEnd:
			next = m.execLoopEnd(next)

		case bytecode.OpCall:
			next = m.execCall(in, next)

		case bytecode.OpReturn:
			next = m.execReturn()

		case bytecode.OpExit:
			return m.popN(len(m.eval)), nil

		case bytecode.OpDbg:
			m.execDbg(in)

		case bytecode.OpRequire:
			cond := m.pop()
			if !cond.truthy(m.sys) {
				return nil, errf(KindRequireFailed, "%s", in.Message)
			}

		case bytecode.OpCallLibrary:
			res, err := m.execCallLibrary(in)
			if err != nil {
				return nil, err
			}
			m.pushAll(res)

		default:
			return nil, fmt.Errorf("vm: unhandled opcode %s", in.Op)
		}
		pc = next
	}
}

func (m *Machine) pushAll(vs []Scalar) {
	m.eval = append(m.eval, vs...)
}

// execDbg implements spec.md §4.3's dbg! diagnostic intrinsic: formats
// in.ArgTypes-described popped arguments against in.Format and writes the
// result to Machine.out, discarding it entirely when no writer was set
// (the default for a Machine built for proving).
func (m *Machine) execDbg(in bytecode.Instruction) {
	args := m.popN(len(in.ArgTypes))
	if m.out == nil {
		return
	}
	vals := make([]any, len(args))
	for i, a := range args {
		vals[i] = m.sys.Value(a.W)
	}
	if in.Format != "" {
		fmt.Fprintf(m.out, in.Format+"\n", vals...)
		return
	}
	fmt.Fprintln(m.out, vals...)
}
