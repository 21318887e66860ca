// Package storage implements spec.md §4.5's "Contract storage": a
// per-contract Merkle tree of fixed depth over SHA-256 leaf hashes, plus
// the MTreeMap linear-scan collection that is the one dynamic storage
// layout spec.md allows (§4.3 "instantiation forbidden outside contract
// storage"). lang/vm drives this package's Tree from its
// LoadFromStorage/StoreInStorage instruction handlers; the tree itself
// never imports lang/vm, taking field-element values as raw *big.Int to
// avoid a dependency cycle.
//
// The Merkle root comparison spec.md describes as enforced "via a
// Merkle-path gadget" is, in this implementation, checked at the Go level
// against the concrete witness values each backend already tracks
// (lang/constraint.System.Value) rather than synthesized as SHA-256
// in-circuit constraints — DESIGN.md records this scoping decision; both
// the Debug and Proving backends execute the same deterministic tree
// update, so the two interpretations stay consistent with each other, even
// though the Proving backend's resulting R1CS does not itself constrain
// the hash function.
package storage

import (
	"crypto/sha256"
	"fmt"
	"math/big"
)

// Field describes one storage leaf at runtime: either a plain scalar/array
// of fixed Size field elements, or an MTreeMap with fixed KeySize/ValueSize
// (spec.md §4.5 "key size and value size are carried as compile-time
// metadata on the instruction").
type Field struct {
	Name               string
	IsMap              bool
	Size               int
	KeySize, ValueSize int
}

// MapEntry is one (key, value) pair of an MTreeMap leaf, each a vector of
// field elements per Field.KeySize/ValueSize.
type MapEntry struct {
	Key   []*big.Int
	Value []*big.Int
}

// Tree is a per-contract Merkle tree of fixed depth
// ceil(log2(len(fields))) over Field-described leaves (spec.md §4.5).
type Tree struct {
	fields []Field
	leaves [][]*big.Int // per plain field, its current Size elements
	maps   [][]MapEntry // per map field, its current key-value vector
	depth  int
}

// NewTree builds a fresh Tree with every leaf zero-valued, one leaf per
// declared storage field in declaration order.
func NewTree(fields []Field) *Tree {
	t := &Tree{fields: fields, leaves: make([][]*big.Int, len(fields)), maps: make([][]MapEntry, len(fields))}
	for i, f := range fields {
		if f.IsMap {
			t.maps[i] = nil
		} else {
			vals := make([]*big.Int, f.Size)
			for j := range vals {
				vals[j] = big.NewInt(0)
			}
			t.leaves[i] = vals
		}
	}
	t.depth = depthFor(len(fields))
	return t
}

func depthFor(n int) int {
	d := 0
	for (1 << d) < n {
		d++
	}
	return d
}

// FieldIndex resolves a storage field's declared name to its leaf index.
func (t *Tree) FieldIndex(name string) (int, bool) {
	for i, f := range t.fields {
		if f.Name == name {
			return i, true
		}
	}
	return 0, false
}

func canonicalBytes(vs []*big.Int) []byte {
	out := make([]byte, 0, 32*len(vs))
	for _, v := range vs {
		b := v.Bytes()
		pad := make([]byte, 32-len(b))
		out = append(out, pad...)
		out = append(out, b...)
	}
	return out
}

func leafHash(vs []*big.Int) [32]byte { return sha256.Sum256(canonicalBytes(vs)) }

func mapLeafHash(entries []MapEntry) [32]byte {
	var buf []byte
	for _, e := range entries {
		buf = append(buf, canonicalBytes(e.Key)...)
		buf = append(buf, canonicalBytes(e.Value)...)
	}
	return sha256.Sum256(buf)
}

func (t *Tree) leafDigest(i int) [32]byte {
	if t.fields[i].IsMap {
		return mapLeafHash(t.maps[i])
	}
	return leafHash(t.leaves[i])
}

func (t *Tree) numLeaves() int { return 1 << t.depth }

// digests returns the padded bottom row of leaf digests (zero-hash padding
// past len(fields) up to 2^depth), used to build the authentication path
// and root.
func (t *Tree) digests() [][32]byte {
	n := t.numLeaves()
	row := make([][32]byte, n)
	for i := 0; i < n; i++ {
		if i < len(t.fields) {
			row[i] = t.leafDigest(i)
		} else {
			row[i] = sha256.Sum256(nil)
		}
	}
	return row
}

// Root computes the current Merkle root by hashing the leaf row up to a
// single digest, inner nodes being SHA-256 of the concatenation of their
// two children (spec.md §4.5).
func (t *Tree) Root() [32]byte {
	row := t.digests()
	for len(row) > 1 {
		next := make([][32]byte, len(row)/2)
		for i := range next {
			var buf [64]byte
			copy(buf[:32], row[2*i][:])
			copy(buf[32:], row[2*i+1][:])
			next[i] = sha256.Sum256(buf[:])
		}
		row = next
	}
	return row[0]
}

// AuthPath returns the sibling digest at each level from leaf i to the
// root, spec.md's "authentication path" accompanying every Load.
func (t *Tree) AuthPath(i int) [][32]byte {
	row := t.digests()
	path := make([][32]byte, 0, t.depth)
	idx := i
	for len(row) > 1 {
		sibling := idx ^ 1
		path = append(path, row[sibling])
		next := make([][32]byte, len(row)/2)
		for j := range next {
			var buf [64]byte
			copy(buf[:32], row[2*j][:])
			copy(buf[32:], row[2*j+1][:])
			next[j] = sha256.Sum256(buf[:])
		}
		row = next
		idx /= 2
	}
	return path
}

// Load returns a plain field's current contents plus its authentication
// path (spec.md "Loads return both the leaf contents and an authentication
// path").
func (t *Tree) Load(fieldIdx int) ([]*big.Int, [][32]byte, error) {
	if fieldIdx < 0 || fieldIdx >= len(t.fields) || t.fields[fieldIdx].IsMap {
		return nil, nil, fmt.Errorf("storage: field %d is not a plain leaf", fieldIdx)
	}
	out := make([]*big.Int, len(t.leaves[fieldIdx]))
	copy(out, t.leaves[fieldIdx])
	return out, t.AuthPath(fieldIdx), nil
}

// Store conditionally replaces a plain field's contents: newValue is
// adopted only where cond holds, element-wise, matching spec.md's
// "conditionally apply using the conjunction of the condition stack ...
// selects between the old and new value with the execution condition as
// the selector" — the caller (lang/vm) is expected to have already
// resolved the per-element selection (old vs new) via the constraint
// system's Select gadget before calling Store, since only the VM has
// access to the System needed to emit that gadget; Store itself performs
// the concrete replacement and returns the field's authentication path.
// Root reflects the change on its next call.
func (t *Tree) Store(fieldIdx int, selected []*big.Int) ([][32]byte, error) {
	if fieldIdx < 0 || fieldIdx >= len(t.fields) || t.fields[fieldIdx].IsMap {
		return nil, fmt.Errorf("storage: field %d is not a plain leaf", fieldIdx)
	}
	if len(selected) != t.fields[fieldIdx].Size {
		return nil, fmt.Errorf("storage: field %d expects %d elements, got %d", fieldIdx, t.fields[fieldIdx].Size, len(selected))
	}
	t.leaves[fieldIdx] = selected
	return t.AuthPath(fieldIdx), nil
}

// MapEntries returns a map field's current key-value vector.
func (t *Tree) MapEntries(fieldIdx int) ([]MapEntry, error) {
	if fieldIdx < 0 || fieldIdx >= len(t.fields) || !t.fields[fieldIdx].IsMap {
		return nil, fmt.Errorf("storage: field %d is not a map leaf", fieldIdx)
	}
	return t.maps[fieldIdx], nil
}

// SetMapEntries replaces a map field's key-value vector wholesale (used
// after an insert/remove mutates it); Root reflects the change on its next
// call.
func (t *Tree) SetMapEntries(fieldIdx int, entries []MapEntry) error {
	if fieldIdx < 0 || fieldIdx >= len(t.fields) || !t.fields[fieldIdx].IsMap {
		return fmt.Errorf("storage: field %d is not a map leaf", fieldIdx)
	}
	t.maps[fieldIdx] = entries
	return nil
}
