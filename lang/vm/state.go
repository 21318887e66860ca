package vm

import (
	"io"

	"github.com/caarlos0/env/v6"

	"github.com/zinc-lang/zinc/lang/bytecode"
	"github.com/zinc-lang/zinc/lang/constraint"
	"github.com/zinc-lang/zinc/lang/storage"
	"github.com/zinc-lang/zinc/lang/types"
)

// Limits bounds a Machine's execution, spec.md §5 "implementations may
// impose a per-process constraint-count limit", sourced from the
// environment the way the rest of this module's ambient configuration is
// (DESIGN.md: github.com/caarlos0/env/v6, the teacher pack's env-struct
// parser).
type Limits struct {
	MaxSteps       int `env:"ZINC_MAX_STEPS" envDefault:"50000000"`
	MaxConstraints int `env:"ZINC_MAX_CONSTRAINTS" envDefault:"200000000"`
}

// LoadLimits parses Limits from the process environment, falling back to
// generous defaults when unset.
func LoadLimits() (Limits, error) {
	var l Limits
	if err := env.Parse(&l); err != nil {
		return Limits{}, err
	}
	return l, nil
}

// frame is one call-frame's local storage, spec.md §3's "address-indexed
// cell array representing all local storage of the current ... frame[s]",
// scoped per active Call rather than one shared data stack, since frame
// sizes are never serialized into bytecode (only offsets relative to a
// frame base are) — ensure grows it lazily to whatever offset a Store
// instruction first addresses.
type frame struct {
	data       []Scalar
	returnPC   int
	retVals    int // OutputSize the Call that pushed this frame expects back
}

func (f *frame) ensure(offset, size int) {
	need := offset + size
	if need <= len(f.data) {
		return
	}
	grown := make([]Scalar, need)
	copy(grown, f.data)
	f.data = grown
}

// Machine executes one compiled Application's instructions against a
// constraint.System, spec.md §4.5's "Execution state": an evaluation
// stack, a call stack of frames, and a condition stack whose conjunction
// gates conditional writes.
type Machine struct {
	sys   constraint.System
	instr []bytecode.Instruction
	lim   Limits

	eval   []Scalar
	frames []*frame
	cond   []Scalar

	tree          *storage.Tree
	storageFields []bytecode.StorageFieldDescriptor
	contractName  string

	inputType types.Type // leaf-flattened to type each of Run's wire inputs, spec.md §3 Circuit/MethodDescriptor.Input
	entryPC   int        // instruction address of the Call to invoke (Circuit.EntryAddress, or one MethodDescriptor.Address)

	loops []loopState

	steps int

	// lastAuthPath is the Merkle authentication path produced by the most
	// recent storage Load/Store, exposed for callers that want to surface
	// it (e.g. a light-client verifier); the VM itself never consults it.
	lastAuthPath [][32]byte

	// out receives formatted std::dbg! output, spec.md §4.3's diagnostic
	// intrinsic; nil discards it (the default for a Machine built for
	// proving, where there is no interactive console to print to).
	out io.Writer
}

// SetOutput directs dbg! output to w; pass nil to discard it.
func (m *Machine) SetOutput(w io.Writer) { m.out = w }

// LastAuthPath returns the Merkle authentication path produced by the most
// recent contract storage access, or nil if none has occurred yet.
func (m *Machine) LastAuthPath() [][32]byte { return m.lastAuthPath }

// loopState is one active LoopBegin's iteration bookkeeping, pushed/popped
// alongside the condition stack, nested independently of it since a loop
// body may itself contain conditionals (spec.md §4.4 "Loop emission").
type loopState struct {
	remaining int64
	bodyAddr  int
}

// New builds a Machine ready to execute instr against sys, starting at
// entryPC (spec.md §6's Circuit.EntryAddress for a circuit, or the
// MethodDescriptor.Address of the contract method being invoked — both are
// the address of a Call instruction, per spec.md §4.4 "the first address
// of the emitted program contains a Call to the entry's unique id").
// tree/fields are nil for a circuit program (spec.md's storage collaborator
// not applicable); a contract program supplies both. inputType is the
// entry point's (or invoked method's) declared Input type, needed only to
// recover each leaf wire's types.Type when Run is driven from a flat
// []constraint.Wire with no type tags of its own (groth16backend.Runner).
func New(sys constraint.System, instr []bytecode.Instruction, lim Limits, entryPC int, tree *storage.Tree, storageFields []bytecode.StorageFieldDescriptor, inputType types.Type) *Machine {
	return &Machine{sys: sys, instr: instr, lim: lim, entryPC: entryPC, tree: tree, storageFields: storageFields, inputType: inputType}
}

func (m *Machine) push(s Scalar)    { m.eval = append(m.eval, s) }
func (m *Machine) pop() Scalar      { n := len(m.eval) - 1; s := m.eval[n]; m.eval = m.eval[:n]; return s }
func (m *Machine) popN(n int) []Scalar {
	base := len(m.eval) - n
	out := append([]Scalar(nil), m.eval[base:]...)
	m.eval = m.eval[:base]
	return out
}

func (m *Machine) curFrame() *frame { return m.frames[len(m.frames)-1] }

// condition returns the current execution condition, the conjunction of
// the condition stack's booleans (spec.md §3 "Condition stack").
func (m *Machine) condition() Scalar {
	cur := boolScalar(m.sys, true)
	for _, c := range m.cond {
		cur = Scalar{Typ: c.Typ, W: m.sys.Mul(cur.W, c.W)}
	}
	return cur
}

// selectScalars conditionally picks between newVals and oldVals element by
// element using cond as the selector (spec.md §4.5 "Conditional writes").
func (m *Machine) selectScalars(cond Scalar, newVals, oldVals []Scalar) []Scalar {
	out := make([]Scalar, len(newVals))
	for i := range newVals {
		out[i] = Scalar{Typ: newVals[i].Typ, W: m.sys.Select(cond.W, newVals[i].W, oldVals[i].W)}
	}
	return out
}
