package storage

import "math/big"

func keysEqual(a, b []*big.Int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}

func zeroValue(n int) []*big.Int {
	v := make([]*big.Int, n)
	for i := range v {
		v[i] = big.NewInt(0)
	}
	return v
}

// MapGet implements spec.md §4.5's MTreeMap "get": a linear scan over the
// leaf's key-value vector, returning the matched value (or a zero vector
// of the declared value size) and whether the key was found.
func MapGet(entries []MapEntry, key []*big.Int, valueSize int) ([]*big.Int, bool) {
	for _, e := range entries {
		if keysEqual(e.Key, key) {
			return e.Value, true
		}
	}
	return zeroValue(valueSize), false
}

// MapContains reports whether key is present, without returning its value.
func MapContains(entries []MapEntry, key []*big.Int) bool {
	_, found := MapGet(entries, key, 0)
	return found
}

// MapInsert implements spec.md's MTreeMap "insert": replaces the value for
// an existing key, or appends a new (key, value) entry. Returns the
// updated vector, the previous value (zero vector if the key was new),
// and whether the key already existed.
func MapInsert(entries []MapEntry, key, value []*big.Int) ([]MapEntry, []*big.Int, bool) {
	for i, e := range entries {
		if keysEqual(e.Key, key) {
			prev := e.Value
			out := append([]MapEntry(nil), entries...)
			out[i] = MapEntry{Key: key, Value: value}
			return out, prev, true
		}
	}
	out := append(append([]MapEntry(nil), entries...), MapEntry{Key: key, Value: value})
	return out, zeroValue(len(value)), false
}

// MapRemove implements spec.md's MTreeMap "remove": drops the matching
// entry if present. Returns the updated vector, the removed value (zero
// vector if absent), and whether it was present.
func MapRemove(entries []MapEntry, key []*big.Int, valueSize int) ([]MapEntry, []*big.Int, bool) {
	for i, e := range entries {
		if keysEqual(e.Key, key) {
			out := append(append([]MapEntry(nil), entries[:i]...), entries[i+1:]...)
			return out, e.Value, true
		}
	}
	return entries, zeroValue(valueSize), false
}
