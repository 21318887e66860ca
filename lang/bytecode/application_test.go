package bytecode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinc-lang/zinc/lang/bytecode"
	"github.com/zinc-lang/zinc/lang/types"
)

// sampleCircuit exercises most of Instruction's field variety so Encode's
// CBOR framing round-trips every keyasint tag, not just the zero values.
func sampleCircuit() *bytecode.Application {
	return &bytecode.Application{
		Circuit: &bytecode.Circuit{
			Name:         "main",
			EntryAddress: 3,
			Input:        bytecode.DescribeType(types.Integer{Width: 8, Signed: true}),
			Output:       bytecode.DescribeType(types.Bool{}),
			UnitTests: []bytecode.UnitTest{
				{Name: "it_adds", Address: 12},
				{Name: "it_ignored", Address: 20, Ignore: true},
			},
			Instructions: []bytecode.Instruction{
				{Op: bytecode.OpPush, Value: "5", Type: bytecode.DescribeType(types.Integer{Width: 8})},
				{Op: bytecode.OpAdd, Type: bytecode.DescribeType(types.Integer{Width: 8})},
				{Op: bytecode.OpRequire, Message: "must be positive"},
				{Op: bytecode.OpExit},
			},
		},
	}
}

func sampleContract() *bytecode.Application {
	return &bytecode.Application{
		Contract: &bytecode.Contract{
			Name: "Counter",
			Storage: []bytecode.StorageFieldDescriptor{
				{Name: "count", Type: bytecode.DescribeType(types.Integer{Width: 32})},
				{
					Name:     "balances",
					IsMap:    true,
					MapKey:   bytecode.DescribeType(types.Integer{Width: 32}),
					MapValue: bytecode.DescribeType(types.Integer{Width: 32}),
				},
			},
			Methods: []bytecode.MethodDescriptor{
				{Name: "increment", IsMutable: true, Output: bytecode.DescribeType(types.Unit{}), Address: 0},
			},
			Instructions: []bytecode.Instruction{
				{Op: bytecode.OpExit},
			},
		},
	}
}

func TestEncodeDecodeRoundTripCircuit(t *testing.T) {
	app := sampleCircuit()
	data, err := bytecode.Encode(app)
	require.NoError(t, err)

	got, err := bytecode.Decode(data)
	require.NoError(t, err)

	eq, err := bytecode.Equal(app, got)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestEncodeDecodeRoundTripContract(t *testing.T) {
	app := sampleContract()
	data, err := bytecode.Encode(app)
	require.NoError(t, err)

	got, err := bytecode.Decode(data)
	require.NoError(t, err)

	eq, err := bytecode.Equal(app, got)
	require.NoError(t, err)
	require.True(t, eq)
}

func TestEqualDetectsDifference(t *testing.T) {
	a := sampleCircuit()
	b := sampleCircuit()
	b.Circuit.Name = "other"

	eq, err := bytecode.Equal(a, b)
	require.NoError(t, err)
	require.False(t, eq)
}

func TestEncodeIsDeterministic(t *testing.T) {
	app := sampleCircuit()
	d1, err := bytecode.Encode(app)
	require.NoError(t, err)
	d2, err := bytecode.Encode(app)
	require.NoError(t, err)
	require.Equal(t, d1, d2)
}

func TestApplicationInstructionsAndEntryAddress(t *testing.T) {
	app := sampleCircuit()
	require.Len(t, app.Instructions(), 4)
	require.Equal(t, uint64(3), app.EntryAddress())

	contract := sampleContract()
	require.Len(t, contract.Instructions(), 1)
	require.Panics(t, func() { contract.EntryAddress() })
}

func TestContractMethodAndStorageFieldLookup(t *testing.T) {
	contract := sampleContract().Contract

	m, ok := contract.Method("increment")
	require.True(t, ok)
	require.True(t, m.IsMutable)

	_, ok = contract.Method("missing")
	require.False(t, ok)

	f, idx, ok := contract.StorageFieldByName("balances")
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.True(t, f.IsMap)

	_, _, ok = contract.StorageFieldByName("missing")
	require.False(t, ok)
}
