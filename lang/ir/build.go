package ir

import (
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/types"
)

// The New* constructors are the only way lang/semantic builds IR nodes from
// outside this package, since the embedded base struct is unexported.

func NewLoad(pos token.Pos, p *Place) *LoadExpr {
	return &LoadExpr{base: base{pos, p.Typ}, Place: p}
}

func NewLoadIndex(pos token.Pos, p *Place, index Expr, elemSize, arrayLen int, elemType types.Type) *LoadIndexExpr {
	return &LoadIndexExpr{base: base{pos, elemType}, Place: p, Index: index, ElemSize: elemSize, ArrayLen: arrayLen}
}

func NewUnary(pos token.Pos, op Op, x Expr, result types.Type) *UnaryExpr {
	return &UnaryExpr{base: base{pos, result}, Op: op, X: x}
}

func NewBinary(pos token.Pos, op Op, x, y Expr, result types.Type) *BinaryExpr {
	return &BinaryExpr{base: base{pos, result}, Op: op, X: x, Y: y}
}

func NewCast(pos token.Pos, x Expr, target types.Type) *CastExpr {
	return &CastExpr{base: base{pos, target}, X: x}
}

func NewCall(pos token.Pos, callee uint64, args []Expr, result types.Type) *CallExpr {
	return &CallExpr{base: base{pos, result}, Callee: callee, Args: args}
}

func NewCallLibrary(pos token.Pos, id string, args []Expr, inSize int, result types.Type) *CallLibraryExpr {
	return &CallLibraryExpr{base: base{pos, result}, ID: id, Args: args, InSize: inSize}
}

// NewMapCallLibrary lowers one of the MTreeMap primitives (get, insert,
// remove, contains) addressed directly at a named contract storage field.
func NewMapCallLibrary(pos token.Pos, id, storageField string, args []Expr, inSize int, result types.Type) *CallLibraryExpr {
	return &CallLibraryExpr{base: base{pos, result}, ID: id, Args: args, InSize: inSize, StorageField: storageField}
}

func NewConditional(pos token.Pos, cond, then, els Expr, result types.Type) *ConditionalExpr {
	return &ConditionalExpr{base: base{pos, result}, Cond: cond, Then: then, Else: els}
}

func NewLoop(pos token.Pos, slot int, indType types.Type, start, count int64, down bool, whileCond, body Expr) *LoopExpr {
	return &LoopExpr{base: base{pos, types.Unit{}}, InductionSlot: slot, IndType: indType, Start: start, Count: count, Down: down, WhileCond: whileCond, Body: body}
}

func NewMatch(pos token.Pos, slot int, scrutinee Expr, arms []MatchArm, fallback Expr, result types.Type) *MatchExpr {
	return &MatchExpr{base: base{pos, result}, ScrutineeSlot: slot, Scrutinee: scrutinee, Arms: arms, Fallback: fallback}
}

func NewStore(pos token.Pos, p *Place, index Expr, elemSize, arrayLen int, value Expr) *StoreExpr {
	return &StoreExpr{base: base{pos, types.Unit{}}, Place: p, Index: index, ElemSize: elemSize, ArrayLen: arrayLen, Value: value}
}

func NewSequence(pos token.Pos, exprs []Expr, result types.Type) *SequenceExpr {
	return &SequenceExpr{base: base{pos, result}, Exprs: exprs}
}

func NewReturn(pos token.Pos, value Expr) *ReturnExpr {
	return &ReturnExpr{base: base{pos, types.Unit{}}, Value: value}
}

func NewRequire(pos token.Pos, cond Expr, message string) *RequireExpr {
	return &RequireExpr{base: base{pos, types.Unit{}}, Cond: cond, Message: message}
}

func NewDbg(pos token.Pos, format string, args []Expr) *DbgExpr {
	return &DbgExpr{base: base{pos, types.Unit{}}, Format: format, Args: args}
}
