package storage_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinc-lang/zinc/lang/storage"
)

func key(n int64) []*big.Int   { return []*big.Int{big.NewInt(n)} }
func value(n int64) []*big.Int { return []*big.Int{big.NewInt(n)} }

func TestMapGetMissingReturnsZeroValue(t *testing.T) {
	got, found := storage.MapGet(nil, key(1), 1)
	require.False(t, found)
	require.Equal(t, 0, got[0].Cmp(big.NewInt(0)))
}

func TestMapInsertThenGet(t *testing.T) {
	entries, prev, existed := storage.MapInsert(nil, key(1), value(42))
	require.False(t, existed)
	require.Equal(t, 0, prev[0].Cmp(big.NewInt(0)))

	got, found := storage.MapGet(entries, key(1), 1)
	require.True(t, found)
	require.Equal(t, 0, got[0].Cmp(big.NewInt(42)))
}

func TestMapInsertReplacesExistingKey(t *testing.T) {
	entries, _, _ := storage.MapInsert(nil, key(1), value(42))
	entries, prev, existed := storage.MapInsert(entries, key(1), value(99))
	require.True(t, existed)
	require.Equal(t, 0, prev[0].Cmp(big.NewInt(42)))

	got, found := storage.MapGet(entries, key(1), 1)
	require.True(t, found)
	require.Equal(t, 0, got[0].Cmp(big.NewInt(99)))
}

func TestMapContains(t *testing.T) {
	entries, _, _ := storage.MapInsert(nil, key(1), value(42))
	require.True(t, storage.MapContains(entries, key(1)))
	require.False(t, storage.MapContains(entries, key(2)))
}

func TestMapRemove(t *testing.T) {
	entries, _, _ := storage.MapInsert(nil, key(1), value(42))
	entries, _, _ = storage.MapInsert(entries, key(2), value(7))

	entries, removed, existed := storage.MapRemove(entries, key(1), 1)
	require.True(t, existed)
	require.Equal(t, 0, removed[0].Cmp(big.NewInt(42)))
	require.False(t, storage.MapContains(entries, key(1)))
	require.True(t, storage.MapContains(entries, key(2)))
}

func TestMapRemoveMissingKeyIsNoop(t *testing.T) {
	entries, _, _ := storage.MapInsert(nil, key(1), value(42))
	out, removed, existed := storage.MapRemove(entries, key(99), 1)
	require.False(t, existed)
	require.Equal(t, 0, removed[0].Cmp(big.NewInt(0)))
	require.Equal(t, entries, out)
}

func TestMapInsertDoesNotMutateInputSlice(t *testing.T) {
	entries, _, _ := storage.MapInsert(nil, key(1), value(42))
	before := append([]storage.MapEntry(nil), entries...)

	_, _, _ = storage.MapInsert(entries, key(2), value(7))
	require.Equal(t, before, entries, "MapInsert must not mutate its input slice in place")
}
