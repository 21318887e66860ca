package vm

import (
	"math/big"

	"github.com/zinc-lang/zinc/lang/bytecode"
)

// storageFieldAt resolves the flattened field-element offset spec.md
// §4.4's Place access assigns every plain ("self.x") contract storage
// place into the (field index, sub-offset within that field's leaf)
// pair lang/storage.Tree actually addresses by, mirroring
// types.Contract.StorageFieldOffset's cumulative walk (map fields
// contribute exactly one slot to the running offset, matching how that
// walk numbers them, even though maps are never reached through this
// path — they go through CallLibrary's mtreemap_* ids instead).
func (m *Machine) storageFieldAt(offset int) (fieldIdx, subOffset int, ok bool) {
	cur := 0
	for i, f := range m.storageFields {
		if f.IsMap {
			if cur == offset {
				return i, 0, false // a map leaf has no element-addressable offset
			}
			cur++
			continue
		}
		size := f.Type.Type().Size()
		if offset >= cur && offset < cur+size {
			return i, offset - cur, true
		}
		cur += size
	}
	return 0, 0, false
}

// execLoadFromStorage implements spec.md §4.5's storage Load: "Loads
// return both the leaf contents and an authentication path" — the VM
// itself only needs the contents to continue execution; the
// authentication path is exposed for callers (e.g. a future light-client
// verifier) via Machine.LastAuthPath, recomputed on every storage access.
func (m *Machine) execLoadFromStorage(in bytecode.Instruction) ([]Scalar, error) {
	fieldIdx, subOffset, ok := m.storageFieldAt(in.Offset)
	if !ok {
		return nil, errf(KindInvalidStorageValue, "no plain storage field at offset %d", in.Offset)
	}
	vals, path, err := m.tree.Load(fieldIdx)
	if err != nil {
		return nil, errf(KindInvalidStorageValue, "%s", err)
	}
	m.lastAuthPath = path
	out := make([]Scalar, in.Size)
	t := in.Type.Type()
	for i := 0; i < in.Size; i++ {
		out[i] = Scalar{Typ: t, W: m.sys.Constant(vals[subOffset+i])}
	}
	return out, nil
}

// execStoreInStorage implements spec.md §4.5's conditional storage write:
// only the touched field's leaf is replaced, element-wise selected between
// its old and new contents by the current execution condition (spec.md
// "inactive branches leave storage unchanged while still emitting
// constraints"); the tree's Root reflects the change on its next call.
func (m *Machine) execStoreInStorage(in bytecode.Instruction, newVals []Scalar) error {
	fieldIdx, subOffset, ok := m.storageFieldAt(in.Offset)
	if !ok {
		return errf(KindInvalidStorageValue, "no plain storage field at offset %d", in.Offset)
	}
	oldVals, _, err := m.tree.Load(fieldIdx)
	if err != nil {
		return errf(KindInvalidStorageValue, "%s", err)
	}
	cond := m.condition()
	whole := make([]*big.Int, len(oldVals))
	copy(whole, oldVals)
	for i, nv := range newVals {
		oldScalar := Scalar{W: m.sys.Constant(oldVals[subOffset+i])}
		selected := m.sys.Select(cond.W, nv.W, oldScalar.W)
		whole[subOffset+i] = m.sys.Value(selected)
	}
	path, err := m.tree.Store(fieldIdx, whole)
	if err != nil {
		return errf(KindInvalidStorageValue, "%s", err)
	}
	m.lastAuthPath = path
	return nil
}

// scalarsToBig converts a Scalar vector to lang/storage's raw *big.Int leaf
// representation, the boundary storage.Tree was designed to sit behind
// (package doc: "taking field-element values as raw *big.Int to avoid a
// dependency cycle").
func (m *Machine) scalarsToBig(vs []Scalar) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = m.sys.Value(v.W)
	}
	return out
}

// findMapField resolves a contract storage field by name for the MTreeMap
// library calls, which address a field directly (spec.md §4.5 "key size
// and value size are carried as compile-time metadata on the instruction")
// rather than through a flattened element offset.
func (m *Machine) findMapField(name string) (int, bytecode.StorageFieldDescriptor, error) {
	idx, ok := indexOfStorageField(m.storageFields, name)
	if !ok {
		return 0, bytecode.StorageFieldDescriptor{}, errf(KindInvalidStorageValue, "no storage field %q", name)
	}
	return idx, m.storageFields[idx], nil
}

func indexOfStorageField(fields []bytecode.StorageFieldDescriptor, name string) (int, bool) {
	for i, f := range fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}
