package generator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zinc-lang/zinc/lang/bytecode"
)

// buildFunc lays out a tiny single-instruction function body (a Push
// followed by a Return) starting at the next free address in instrs, and
// registers it under id in funcAddr.
func buildFunc(instrs []bytecode.Instruction, funcAddr map[uint64]int, id uint64) []bytecode.Instruction {
	funcAddr[id] = len(instrs)
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpPush, Value: "1"})
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpReturn, OutputSize: 1})
	return instrs
}

func TestEliminateDeadFunctionsDropsUnreachable(t *testing.T) {
	var instrs []bytecode.Instruction
	funcAddr := map[uint64]int{}

	entryCall := len(instrs)
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpCall, Address: 1})
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpExit})
	_ = entryCall

	instrs = buildFunc(instrs, funcAddr, 1) // reachable (root)
	instrs = buildFunc(instrs, funcAddr, 2) // unreachable, never called

	out, err := eliminateDeadFunctions(instrs, funcAddr, []uint64{1})
	require.NoError(t, err)

	// Entry Call, Exit, and function 1's two instructions survive; function
	// 2's two instructions are stripped entirely rather than left behind as
	// NoOperation filler.
	require.Len(t, out, 4)
	for _, in := range out {
		require.NotEqual(t, bytecode.OpNoOperation, in.Op)
	}
}

func TestEliminateDeadFunctionsRewritesCallAndLoopAddresses(t *testing.T) {
	var instrs []bytecode.Instruction
	funcAddr := map[uint64]int{}

	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpCall, Address: 2})
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpExit})

	instrs = buildFunc(instrs, funcAddr, 1) // dead, sits before the reachable function
	loopBeginAddr := len(instrs)
	funcAddr[2] = loopBeginAddr
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpLoopBegin, Address: uint64(loopBeginAddr + 1), Count: 1})
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpLoopEnd})
	instrs = append(instrs, bytecode.Instruction{Op: bytecode.OpReturn})

	out, err := eliminateDeadFunctions(instrs, funcAddr, []uint64{2})
	require.NoError(t, err)

	require.Equal(t, bytecode.OpCall, out[0].Op)
	require.Equal(t, uint64(2), out[0].Address)

	var loopBegin *bytecode.Instruction
	for i := range out {
		if out[i].Op == bytecode.OpLoopBegin {
			loopBegin = &out[i]
		}
	}
	require.NotNil(t, loopBegin)
	require.Less(t, int(loopBegin.Address), len(out), "rewritten LoopBegin address must point inside the compacted program")
}

func TestEliminateDeadFunctionsUnknownCallIsError(t *testing.T) {
	instrs := []bytecode.Instruction{
		{Op: bytecode.OpCall, Address: 99},
		{Op: bytecode.OpExit},
	}
	funcAddr := map[uint64]int{}

	_, err := eliminateDeadFunctions(instrs, funcAddr, nil)
	require.Error(t, err)
}
