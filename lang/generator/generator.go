// Package generator implements spec.md §4.4: lowering a lang/ir.Program
// into a linear lang/bytecode instruction vector with a function-address
// table, and the dead-function-elimination optimizer that runs over the
// result. Emission is depth-first post-order over each function's
// generator-expression tree (spec.md "Emission order"), mirroring the
// teacher's lang/compiler.compiler single-pass tree-walking emitter
// adapted from a stack-machine scripting VM to Zinc's constraint-producing
// one.
package generator

import (
	"fmt"

	"github.com/zinc-lang/zinc/lang/bytecode"
	"github.com/zinc-lang/zinc/lang/ir"
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/types"
)

// emitter accumulates the flat instruction vector for one whole program
// (every monomorphized function, laid out back to back) plus the
// pre-optimization address each function's body starts at.
type emitter struct {
	instrs   []bytecode.Instruction
	funcAddr map[uint64]int
}

func (e *emitter) emit(in bytecode.Instruction) int {
	e.instrs = append(e.instrs, in)
	return len(e.instrs) - 1
}

func line(pos token.Pos) int { return int(pos) }

// GenerateCircuit lowers a circuit Program (spec.md §4.3 "Entry point ...
// a function named main") into a bytecode.Application wrapping a Circuit.
func GenerateCircuit(prog *ir.Program) (*bytecode.Application, error) {
	e := &emitter{funcAddr: map[uint64]int{}}

	// The program's first two instructions are always "Call main" followed
	// by Exit (spec.md §4.4: "The first address of the emitted program
	// contains a Call to the entry's unique id, followed by Exit").
	entryCallAddr := e.emit(bytecode.Instruction{Op: bytecode.OpCall, Address: prog.Entry.UniqueID, InputSize: sizeOfAll(prog.Entry.ParamTypes)})
	e.emit(bytecode.Instruction{Op: bytecode.OpExit})

	for _, fn := range prog.Functions {
		e.emitFunction(fn)
	}

	instrs, err := eliminateDeadFunctions(e.instrs, e.funcAddr, []uint64{prog.Entry.UniqueID})
	if err != nil {
		return nil, err
	}

	return &bytecode.Application{Circuit: &bytecode.Circuit{
		Name:         prog.Entry.Name,
		EntryAddress: uint64(entryCallAddr),
		Input:        describeParams(prog.Entry.ParamTypes),
		Output:       bytecode.DescribeType(prog.Entry.ResultType),
		Instructions: instrs,
	}}, nil
}

// GenerateContract lowers a contract Program (spec.md §4.3 "the explicit
// pub fn methods of a contract type") into a bytecode.Application wrapping
// a Contract, with every public method as a reachability root (spec.md
// §4.4's dead-function elimination runs "from the first Call instruction"
// for a circuit; a contract instead roots the walk at every entry in its
// method table, since any of them may be invoked at runtime).
func GenerateContract(prog *ir.Program) (*bytecode.Application, error) {
	e := &emitter{funcAddr: map[uint64]int{}}

	var roots []uint64
	var callSites []int
	methods := make([]bytecode.MethodDescriptor, len(prog.Methods))
	for i, m := range prog.Methods {
		addr := e.emit(bytecode.Instruction{Op: bytecode.OpCall, Address: m.Fn.UniqueID, InputSize: sizeOfAll(m.Fn.ParamTypes)})
		e.emit(bytecode.Instruction{Op: bytecode.OpExit})
		roots = append(roots, m.Fn.UniqueID)
		callSites = append(callSites, addr)
		methods[i] = bytecode.MethodDescriptor{
			Name:      m.Name,
			IsMutable: m.IsMutable,
			Input:     bytecode.DescribeType(m.Input),
			Output:    bytecode.DescribeType(m.Output),
		}
	}

	for _, fn := range prog.Functions {
		e.emitFunction(fn)
	}

	instrs, err := eliminateDeadFunctions(e.instrs, e.funcAddr, roots)
	if err != nil {
		return nil, err
	}
	for i, site := range callSites {
		methods[i].Address = uint64(site)
	}

	storage := make([]bytecode.StorageFieldDescriptor, len(prog.Contract.Storage))
	for i, f := range prog.Contract.Storage {
		sfd := bytecode.StorageFieldDescriptor{Name: f.Name, IsMap: f.IsMap()}
		if f.IsMap() {
			sfd.MapKey = bytecode.DescribeType(f.MapKey)
			sfd.MapValue = bytecode.DescribeType(f.MapValue)
		} else {
			sfd.Type = bytecode.DescribeType(f.Type)
		}
		storage[i] = sfd
	}

	return &bytecode.Application{Contract: &bytecode.Contract{
		Name:         prog.Contract.Name,
		Storage:      storage,
		Methods:      methods,
		Instructions: instrs,
	}}, nil
}

func sizeOfAll(ts []types.Type) int {
	n := 0
	for _, t := range ts {
		n += t.Size()
	}
	return n
}

func describeParams(ts []types.Type) bytecode.TypeDescriptor {
	if len(ts) == 1 {
		return bytecode.DescribeType(ts[0])
	}
	elems := make([]types.Type, len(ts))
	copy(elems, ts)
	return bytecode.DescribeType(types.Tuple{Elems: elems})
}

// emitFunction lowers one monomorphized ir.Function (spec.md §4.4
// "Function emission"): record its start address in the function table
// keyed by unique id, emit the body, then an implicit Return.
func (e *emitter) emitFunction(fn *ir.Function) {
	e.funcAddr[fn.UniqueID] = len(e.instrs)
	e.emitExpr(fn.Body)
	e.emit(bytecode.Instruction{Op: bytecode.OpReturn, OutputSize: fn.ResultType.Size(), Line: line(fn.Body.Pos())})
}

// emitExpr appends the instructions implementing e, depth-first
// post-order: operands first, then the operator that consumes them
// (spec.md §4.4 "Emission order").
func (e *emitter) emitExpr(expr ir.Expr) {
	switch x := expr.(type) {
	case *ir.ConstExpr:
		e.emit(bytecode.Instruction{Op: bytecode.OpPush, Value: x.Value.Int.String(), Type: bytecode.DescribeType(x.Typ()), Line: line(x.Pos())})

	case *ir.LoadExpr:
		e.emitLoad(x)

	case *ir.LoadIndexExpr:
		e.emitExpr(x.Index)
		op := bytecode.OpLoadByIndex
		if x.Place.FrameSlot == ir.StorageSlot {
			// Dynamic indexing into a storage leaf never happens for plain
			// fields (only MTreeMap, handled entirely by library calls); a
			// runtime-indexed Place addressing storage is a generator bug.
			panic("generator: runtime index into a storage place")
		}
		e.emit(bytecode.Instruction{
			Op: op, Offset: x.Place.FrameSlot + x.Place.Offset,
			ElemSize: x.ElemSize, ArrayLen: x.ArrayLen, Type: bytecode.DescribeType(x.Typ()), Line: line(x.Pos()),
		})

	case *ir.UnaryExpr:
		e.emitExpr(x.X)
		e.emit(bytecode.Instruction{Op: unaryOp(x.Op), Type: bytecode.DescribeType(x.X.Typ()), Line: line(x.Pos())})

	case *ir.BinaryExpr:
		e.emitExpr(x.X)
		e.emitExpr(x.Y)
		e.emit(bytecode.Instruction{Op: binaryOp(x.Op), Type: bytecode.DescribeType(x.X.Typ()), Line: line(x.Pos())})

	case *ir.CastExpr:
		e.emitExpr(x.X)
		e.emit(bytecode.Instruction{Op: bytecode.OpCast, Type: bytecode.DescribeType(x.Typ()), Line: line(x.Pos())})

	case *ir.CallExpr:
		for _, a := range x.Args {
			e.emitExpr(a)
		}
		e.emit(bytecode.Instruction{
			Op: bytecode.OpCall, Address: x.Callee, InputSize: sizeOfExprs(x.Args),
			OutputSize: x.Typ().Size(), Line: line(x.Pos()),
		})

	case *ir.CallLibraryExpr:
		for _, a := range x.Args {
			e.emitExpr(a)
		}
		e.emit(bytecode.Instruction{
			Op: bytecode.OpCallLibrary, LibraryID: x.ID, InputSize: x.InSize,
			OutputSize: x.Typ().Size(), StorageField: x.StorageField, Line: line(x.Pos()),
		})

	case *ir.ConditionalExpr:
		e.emitExpr(x.Cond)
		e.emit(bytecode.Instruction{Op: bytecode.OpIf, Line: line(x.Pos())})
		e.emitExpr(x.Then)
		e.emit(bytecode.Instruction{Op: bytecode.OpElse, Line: line(x.Pos())})
		if x.Else != nil {
			e.emitExpr(x.Else)
		}
		e.emit(bytecode.Instruction{Op: bytecode.OpEndIf, Line: line(x.Pos())})

	case *ir.LoopExpr:
		e.emitLoop(x)

	case *ir.MatchExpr:
		e.emitMatch(x)

	case *ir.StoreExpr:
		e.emitStore(x)

	case *ir.SequenceExpr:
		for i, s := range x.Exprs {
			e.emitExpr(s)
			if i < len(x.Exprs)-1 {
				if sz := s.Typ().Size(); sz > 0 {
					e.emit(bytecode.Instruction{Op: bytecode.OpPop, Size: sz})
				}
			}
		}

	case *ir.ReturnExpr:
		if x.Value != nil {
			e.emitExpr(x.Value)
		}
		sz := 0
		if x.Value != nil {
			sz = x.Value.Typ().Size()
		}
		e.emit(bytecode.Instruction{Op: bytecode.OpReturn, OutputSize: sz, Line: line(x.Pos())})

	case *ir.RequireExpr:
		e.emitExpr(x.Cond)
		e.emit(bytecode.Instruction{Op: bytecode.OpRequire, Message: x.Message, Line: line(x.Pos())})

	case *ir.DbgExpr:
		argTypes := make([]bytecode.TypeDescriptor, len(x.Args))
		for i, a := range x.Args {
			e.emitExpr(a)
			argTypes[i] = bytecode.DescribeType(a.Typ())
		}
		e.emit(bytecode.Instruction{Op: bytecode.OpDbg, Format: x.Format, ArgTypes: argTypes, Line: line(x.Pos())})

	default:
		panic(fmt.Sprintf("generator: unhandled ir.Expr %T", expr))
	}
}

func (e *emitter) emitLoad(x *ir.LoadExpr) {
	if x.Place.FrameSlot == ir.StorageSlot {
		e.emit(bytecode.Instruction{
			Op: bytecode.OpLoadFromStorage, Offset: x.Place.Offset, Size: x.Place.Size,
			Type: bytecode.DescribeType(x.Typ()), Line: line(x.Pos()),
		})
		return
	}
	e.emit(bytecode.Instruction{
		Op: bytecode.OpLoad, Offset: x.Place.FrameSlot + x.Place.Offset, Size: x.Place.Size,
		Type: bytecode.DescribeType(x.Typ()), Line: line(x.Pos()),
	})
}

// emitStore lowers an ir.StoreExpr (spec.md §4.4 "Place access ... Writes
// are symmetric using Store / StoreByIndex"). Value is pushed first, then
// (for a runtime index) the index; the VM pops the index, then the value.
func (e *emitter) emitStore(x *ir.StoreExpr) {
	e.emitExpr(x.Value)
	if x.Place.FrameSlot == ir.StorageSlot {
		e.emit(bytecode.Instruction{
			Op: bytecode.OpStoreInStorage, Offset: x.Place.Offset, Size: x.Place.Size, Line: line(x.Pos()),
		})
		return
	}
	if x.Index == nil {
		e.emit(bytecode.Instruction{Op: bytecode.OpStore, Offset: x.Place.FrameSlot + x.Place.Offset, Size: x.Place.Size, Line: line(x.Pos())})
		return
	}
	e.emitExpr(x.Index)
	e.emit(bytecode.Instruction{
		Op: bytecode.OpStoreByIndex, Offset: x.Place.FrameSlot + x.Place.Offset,
		ElemSize: x.ElemSize, ArrayLen: x.ArrayLen, Line: line(x.Pos()),
	})
}

// emitLoop lowers an ir.LoopExpr (spec.md §4.4 "Loop emission"). The
// induction slot is stored once right after LoopBegin; LoopBegin.Address
// records the body's physical start address so the VM's LoopEnd can branch
// back to it without a separate patch pass, since the body is emitted
// immediately after by this same call.
func (e *emitter) emitLoop(x *ir.LoopExpr) {
	if x.Count == 0 {
		return // a statically empty range contributes no instructions at all.
	}
	loopBeginAddr := e.emit(bytecode.Instruction{Op: bytecode.OpLoopBegin, Count: x.Count, Offset: x.InductionSlot, Flag: boolFlag(x.Down)})
	e.emit(bytecode.Instruction{Op: bytecode.OpPush, Value: fmt.Sprint(x.Start), Type: bytecode.DescribeType(x.IndType)})
	e.emit(bytecode.Instruction{Op: bytecode.OpStore, Offset: x.InductionSlot, Size: 1})
	e.instrs[loopBeginAddr].Address = uint64(len(e.instrs)) // body's physical start

	if x.WhileCond != nil {
		e.emitExpr(x.WhileCond)
		e.emit(bytecode.Instruction{Op: bytecode.OpIf})
		e.emitExpr(x.Body)
		e.emit(bytecode.Instruction{Op: bytecode.OpElse})
		e.emit(bytecode.Instruction{Op: bytecode.OpEndIf})
	} else {
		e.emitExpr(x.Body)
	}

	step := "1"
	if x.Down {
		step = "-1"
	}
	e.emit(bytecode.Instruction{Op: bytecode.OpLoad, Offset: x.InductionSlot, Size: 1, Type: bytecode.DescribeType(x.IndType)})
	e.emit(bytecode.Instruction{Op: bytecode.OpPush, Value: step, Type: bytecode.DescribeType(x.IndType)})
	e.emit(bytecode.Instruction{Op: bytecode.OpAdd, Type: bytecode.DescribeType(x.IndType)})
	e.emit(bytecode.Instruction{Op: bytecode.OpStore, Offset: x.InductionSlot, Size: 1})
	e.emit(bytecode.Instruction{Op: bytecode.OpLoopEnd})
}

// emitMatch lowers an ir.MatchExpr (spec.md §4.4 "Match emission") to a
// chain of Load/Eq/If/Else, closed by as many EndIf as there are arms.
func (e *emitter) emitMatch(x *ir.MatchExpr) {
	e.emitExpr(x.Scrutinee)
	e.emit(bytecode.Instruction{Op: bytecode.OpStore, Offset: x.ScrutineeSlot, Size: x.Scrutinee.Typ().Size()})

	for _, arm := range x.Arms {
		e.emit(bytecode.Instruction{Op: bytecode.OpLoad, Offset: x.ScrutineeSlot, Size: 1, Type: bytecode.DescribeType(arm.Value.Typ)})
		e.emit(bytecode.Instruction{Op: bytecode.OpPush, Value: arm.Value.Int.String(), Type: bytecode.DescribeType(arm.Value.Typ)})
		e.emit(bytecode.Instruction{Op: bytecode.OpEq, Type: bytecode.DescribeType(arm.Value.Typ)})
		e.emit(bytecode.Instruction{Op: bytecode.OpIf})
		e.emitExpr(arm.Body)
		e.emit(bytecode.Instruction{Op: bytecode.OpElse})
	}
	e.emitExpr(x.Fallback)
	for range x.Arms {
		e.emit(bytecode.Instruction{Op: bytecode.OpEndIf})
	}
}

func sizeOfExprs(es []ir.Expr) int {
	n := 0
	for _, e := range es {
		n += e.Typ().Size()
	}
	return n
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func unaryOp(op ir.Op) bytecode.Op {
	switch op {
	case ir.OpNeg:
		return bytecode.OpNeg
	case ir.OpBitNot:
		return bytecode.OpBitNot
	case ir.OpNot:
		return bytecode.OpNot
	}
	panic(fmt.Sprintf("generator: invalid unary ir.Op %v", op))
}

func binaryOp(op ir.Op) bytecode.Op {
	switch op {
	case ir.OpAdd:
		return bytecode.OpAdd
	case ir.OpSub:
		return bytecode.OpSub
	case ir.OpMul:
		return bytecode.OpMul
	case ir.OpDiv:
		return bytecode.OpDiv
	case ir.OpRem:
		return bytecode.OpRem
	case ir.OpBitAnd:
		return bytecode.OpBitAnd
	case ir.OpBitOr:
		return bytecode.OpBitOr
	case ir.OpBitXor:
		return bytecode.OpBitXor
	case ir.OpShl:
		return bytecode.OpShl
	case ir.OpShr:
		return bytecode.OpShr
	case ir.OpAnd:
		return bytecode.OpAnd
	case ir.OpOr:
		return bytecode.OpOr
	case ir.OpXor:
		return bytecode.OpXor
	case ir.OpEq:
		return bytecode.OpEq
	case ir.OpNe:
		return bytecode.OpNe
	case ir.OpLt:
		return bytecode.OpLt
	case ir.OpLe:
		return bytecode.OpLe
	case ir.OpGt:
		return bytecode.OpGt
	case ir.OpGe:
		return bytecode.OpGe
	}
	panic(fmt.Sprintf("generator: invalid binary ir.Op %v", op))
}
