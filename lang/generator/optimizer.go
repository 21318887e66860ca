package generator

import (
	"fmt"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/zinc-lang/zinc/lang/bytecode"
)

// eliminateDeadFunctions implements spec.md §4.4's "Optimizer: dead
// function elimination", following the original_source/ Rust reference's
// elimination.rs two-pass shape (mark-reachable, then compact-and-shift):
//
//  1. Collect the set of unique ids reachable transitively from roots (the
//     implicit entry Call(s) — a circuit's single "main" call, or a
//     contract's whole method table, see GenerateContract).
//  2. Overwrite every unreachable function's instructions with NoOperation.
//  3. Strip all NoOperation instructions, recording per-address shifts.
//  4. Rewrite every Call's unique-id placeholder (and every LoopBegin's
//     forward body address) to its final, shifted address.
func eliminateDeadFunctions(instrs []bytecode.Instruction, funcAddr map[uint64]int, roots []uint64) ([]bytecode.Instruction, error) {
	starts := maps.Values(funcAddr)
	sort.Ints(starts)
	idByStart := make(map[int]uint64, len(funcAddr))
	for id, addr := range funcAddr {
		idByStart[addr] = id
	}
	type span struct{ start, end int }
	spanOf := make(map[uint64]span, len(funcAddr))
	for i, s := range starts {
		end := len(instrs)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		spanOf[idByStart[s]] = span{s, end}
	}

	reachable := map[uint64]bool{}
	worklist := append([]uint64(nil), roots...)
	for _, r := range roots {
		reachable[r] = true
	}
	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		sp, ok := spanOf[id]
		if !ok {
			continue
		}
		for pc := sp.start; pc < sp.end; pc++ {
			if in := instrs[pc]; in.Op == bytecode.OpCall {
				if _, known := funcAddr[in.Address]; known && !reachable[in.Address] {
					reachable[in.Address] = true
					worklist = append(worklist, in.Address)
				}
			}
		}
	}

	out := make([]bytecode.Instruction, len(instrs))
	copy(out, instrs)
	for id, sp := range spanOf {
		if reachable[id] {
			continue
		}
		for pc := sp.start; pc < sp.end; pc++ {
			out[pc] = bytecode.Instruction{Op: bytecode.OpNoOperation}
		}
	}

	shifted := make([]bytecode.Instruction, 0, len(out))
	newAddrOf := make([]int, len(out))
	for oldPC, in := range out {
		if in.Op == bytecode.OpNoOperation {
			newAddrOf[oldPC] = -1
			continue
		}
		newAddrOf[oldPC] = len(shifted)
		shifted = append(shifted, in)
	}

	finalFuncAddr := make(map[uint64]int, len(reachable))
	for id, sp := range spanOf {
		if reachable[id] {
			finalFuncAddr[id] = newAddrOf[sp.start]
		}
	}

	for i := range shifted {
		switch shifted[i].Op {
		case bytecode.OpCall:
			addr, ok := finalFuncAddr[shifted[i].Address]
			if !ok {
				return nil, fmt.Errorf("generator: call to unreachable or undefined function id %d", shifted[i].Address)
			}
			shifted[i].Address = uint64(addr)
		case bytecode.OpLoopBegin:
			shifted[i].Address = uint64(newAddrOf[int(shifted[i].Address)])
		}
	}
	return shifted, nil
}
