package vm

import (
	"math/big"

	"github.com/zinc-lang/zinc/lang/bytecode"
)

// execIf pushes cond onto the condition stack (spec.md §3 "Condition
// stack"), gating every conditional write until the matching EndIf.
func (m *Machine) execIf(cond Scalar) {
	m.cond = append(m.cond, cond)
}

// execElse inverts the top of the condition stack in place: the Then arm's
// condition is c, the Else arm's is 1 - c (spec.md §4.4's If/Else/EndIf
// emission shape never nests a second condition between them).
func (m *Machine) execElse() {
	n := len(m.cond) - 1
	c := m.cond[n]
	m.cond[n] = Scalar{Typ: c.Typ, W: m.sys.Sub(m.sys.Constant(big.NewInt(1)), c.W)}
}

func (m *Machine) execEndIf() {
	m.cond = m.cond[:len(m.cond)-1]
}

// execLoopBegin pushes one loopState sized to run the body in.Count - 1
// more times after the pass that immediately follows (spec.md §4.4's
// generator falls through from LoopBegin into the induction variable's
// initial Push/Store, then into the body at in.Address, unconditionally
// once; LoopEnd below decides whether to branch back).
func (m *Machine) execLoopBegin(in bytecode.Instruction) {
	m.loops = append(m.loops, loopState{remaining: in.Count - 1, bodyAddr: int(in.Address)})
}

// execLoopEnd either branches back to the body's start (more iterations
// remain) or pops the loop frame and falls through to the next instruction
// (spec.md §4.4 "LoopEnd ... branch back to the body's start address").
func (m *Machine) execLoopEnd(fallthroughPC int) int {
	n := len(m.loops) - 1
	top := &m.loops[n]
	if top.remaining > 0 {
		top.remaining--
		return top.bodyAddr
	}
	m.loops = m.loops[:n]
	return fallthroughPC
}

// execCall pops in.InputSize arguments already sitting atop the evaluation
// stack (spec.md §4.4 "Emission order": the caller always emits its
// argument expressions, then the Call), binds them as the callee's first
// frame slots, and returns the address to jump to plus the return address
// to resume at once the callee's Return is reached.
func (m *Machine) execCall(in bytecode.Instruction, returnPC int) int {
	args := m.popN(in.InputSize)
	fr := &frame{returnPC: returnPC, retVals: in.OutputSize}
	fr.ensure(0, len(args))
	copy(fr.data, args)
	m.frames = append(m.frames, fr)
	return int(in.Address)
}

// execReturn pops the current frame and resumes at the pc it recorded on
// entry. The return value itself needs no stack bookkeeping here: it is
// already sitting on top of the (machine-wide, not per-frame) evaluation
// stack, left there by whatever expression the Return instruction's
// generator emission followed (spec.md §4.4 "Function emission ... then an
// implicit Return").
func (m *Machine) execReturn() int {
	fr := m.curFrame()
	m.frames = m.frames[:len(m.frames)-1]
	return fr.returnPC
}
