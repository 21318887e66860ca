package bytecode

// Op tags which of spec.md §3's Instruction variants one Instruction
// encodes. Category comments mirror the grouping in spec.md §3's
// Instruction paragraph.
type Op uint8

const (
	OpNoOperation Op = iota // the "no-op" spec.md §9 notes under two spellings

	// stack
	OpPush
	OpPop
	OpCopy
	OpSlice

	// storage (place access)
	OpLoad
	OpStore
	OpLoadByIndex
	OpStoreByIndex
	OpLoadFromStorage
	OpStoreInStorage

	// arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpNeg

	// bitwise
	OpBitAnd
	OpBitOr
	OpBitXor
	OpBitNot
	OpShl
	OpShr

	// logical
	OpAnd
	OpOr
	OpXor
	OpNot

	// comparison
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	// casting
	OpCast

	// control
	OpIf
	OpElse
	OpEndIf
	OpLoopBegin
	OpLoopEnd
	OpCall
	OpReturn
	OpExit

	// diagnostic
	OpDbg
	OpRequire

	// library calls
	OpCallLibrary
)

var opNames = map[Op]string{
	OpNoOperation: "noop", OpPush: "push", OpPop: "pop", OpCopy: "copy", OpSlice: "slice",
	OpLoad: "load", OpStore: "store", OpLoadByIndex: "load_by_index", OpStoreByIndex: "store_by_index",
	OpLoadFromStorage: "load_from_storage", OpStoreInStorage: "store_in_storage",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpRem: "rem", OpNeg: "neg",
	OpBitAnd: "bit_and", OpBitOr: "bit_or", OpBitXor: "bit_xor", OpBitNot: "bit_not", OpShl: "shl", OpShr: "shr",
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpNot: "not",
	OpEq: "eq", OpNe: "ne", OpLt: "lt", OpLe: "le", OpGt: "gt", OpGe: "ge",
	OpCast: "cast",
	OpIf: "if", OpElse: "else", OpEndIf: "endif", OpLoopBegin: "loop_begin", OpLoopEnd: "loop_end",
	OpCall: "call", OpReturn: "return", OpExit: "exit",
	OpDbg: "dbg", OpRequire: "require", OpCallLibrary: "call_library",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "invalid"
}

// Instruction is spec.md §3's tagged Instruction variant, flattened into
// one struct whose fields are populated according to Op — the "tag byte
// followed by tag-specific fields" framing, realized as CBOR map keys
// instead of a hand-rolled byte layout (see lang/bytecode package doc).
// Line holds the originating token.Pos as an int (a file-set offset, not a
// line number), for disassembly and runtime error reporting.
type Instruction struct {
	Op Op `cbor:"0,keyasint"`

	// stack / place access
	Offset   int `cbor:"1,keyasint,omitempty"`
	Size     int `cbor:"2,keyasint,omitempty"`
	ElemSize int `cbor:"3,keyasint,omitempty"`
	ArrayLen int `cbor:"4,keyasint,omitempty"`

	// Push
	Value  string         `cbor:"5,keyasint,omitempty"` // decimal, possibly negative
	Type   TypeDescriptor `cbor:"6,keyasint,omitempty"`

	// control
	Address    uint64 `cbor:"7,keyasint,omitempty"` // Call target; rewritten by the optimizer
	InputSize  int    `cbor:"8,keyasint,omitempty"`
	OutputSize int    `cbor:"9,keyasint,omitempty"`
	Count      int64  `cbor:"10,keyasint,omitempty"` // LoopBegin iteration count

	// diagnostics / library
	Message    string           `cbor:"11,keyasint,omitempty"`
	Format     string           `cbor:"12,keyasint,omitempty"`
	ArgTypes   []TypeDescriptor `cbor:"13,keyasint,omitempty"`
	LibraryID  string           `cbor:"14,keyasint,omitempty"`

	// storage
	StorageField string `cbor:"15,keyasint,omitempty"`

	Line int `cbor:"16,keyasint,omitempty"`

	// Flag is a small per-Op boolean/enum operand with no dedicated field:
	// LoopBegin's induction direction (0 = up, 1 = down).
	Flag int `cbor:"17,keyasint,omitempty"`
}
