package storage_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinc-lang/zinc/lang/storage"
)

func testFields() []storage.Field {
	return []storage.Field{
		{Name: "count", Size: 1},
		{Name: "pair", Size: 2},
		{Name: "balances", IsMap: true, KeySize: 1, ValueSize: 1},
	}
}

func TestNewTreeZeroValuedAndRootStable(t *testing.T) {
	tr := storage.NewTree(testFields())
	root1 := tr.Root()
	root2 := tr.Root()
	require.Equal(t, root1, root2, "Root must be a pure function of current contents")
}

func TestTreeStoreChangesRoot(t *testing.T) {
	tr := storage.NewTree(testFields())
	before := tr.Root()

	idx, ok := tr.FieldIndex("count")
	require.True(t, ok)

	_, err := tr.Store(idx, []*big.Int{big.NewInt(42)})
	require.NoError(t, err)

	after := tr.Root()
	require.NotEqual(t, before, after, "storing a new leaf value must change the root")
}

func TestTreeLoadRoundTrip(t *testing.T) {
	tr := storage.NewTree(testFields())
	idx, ok := tr.FieldIndex("pair")
	require.True(t, ok)

	_, err := tr.Store(idx, []*big.Int{big.NewInt(7), big.NewInt(9)})
	require.NoError(t, err)

	vals, path, err := tr.Load(idx)
	require.NoError(t, err)
	require.Len(t, vals, 2)
	require.Equal(t, 0, vals[0].Cmp(big.NewInt(7)))
	require.Equal(t, 0, vals[1].Cmp(big.NewInt(9)))
	require.NotEmpty(t, path)
}

func TestTreeLoadRejectsMapField(t *testing.T) {
	tr := storage.NewTree(testFields())
	idx, ok := tr.FieldIndex("balances")
	require.True(t, ok)

	_, _, err := tr.Load(idx)
	require.Error(t, err)
}

func TestTreeStoreRejectsWrongSize(t *testing.T) {
	tr := storage.NewTree(testFields())
	idx, ok := tr.FieldIndex("count")
	require.True(t, ok)

	_, err := tr.Store(idx, []*big.Int{big.NewInt(1), big.NewInt(2)})
	require.Error(t, err)
}

func TestTreeAuthPathMatchesRootAfterUpdate(t *testing.T) {
	tr := storage.NewTree(testFields())
	idx, ok := tr.FieldIndex("count")
	require.True(t, ok)

	path, err := tr.Store(idx, []*big.Int{big.NewInt(5)})
	require.NoError(t, err)
	require.Equal(t, tr.AuthPath(idx), path)
}

func TestTreeMapEntriesRoundTrip(t *testing.T) {
	tr := storage.NewTree(testFields())
	idx, ok := tr.FieldIndex("balances")
	require.True(t, ok)

	entries, err := tr.MapEntries(idx)
	require.NoError(t, err)
	require.Empty(t, entries)

	entries = []storage.MapEntry{
		{Key: []*big.Int{big.NewInt(1)}, Value: []*big.Int{big.NewInt(100)}},
	}
	require.NoError(t, tr.SetMapEntries(idx, entries))

	before := tr.Root()
	got, err := tr.MapEntries(idx)
	require.NoError(t, err)
	require.Equal(t, entries, got)

	require.NoError(t, tr.SetMapEntries(idx, nil))
	require.NotEqual(t, before, tr.Root())
}

func TestTreeMapEntriesRejectsPlainField(t *testing.T) {
	tr := storage.NewTree(testFields())
	idx, ok := tr.FieldIndex("count")
	require.True(t, ok)

	_, err := tr.MapEntries(idx)
	require.Error(t, err)
}

func TestFieldIndexUnknownName(t *testing.T) {
	tr := storage.NewTree(testFields())
	_, ok := tr.FieldIndex("nope")
	require.False(t, ok)
}
