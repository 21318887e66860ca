package semantic

import (
	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/ir"
	"github.com/zinc-lang/zinc/lang/types"
)

// analyzeBlock lowers a Block to one SequenceExpr: every statement for
// effect, then the tail expression (or an implicit unit) for value,
// matching spec.md §4.4's "a Block's statements plus tail expression into
// one IR expression."
func (a *Analyzer) analyzeBlock(fb *funcBuilder, scope ScopeID, block *ast.Block) ir.Expr {
	var seq []ir.Expr
	for _, stmt := range block.Stmts {
		seq = append(seq, a.analyzeStmt(fb, scope, stmt))
	}

	if block.Tail != nil {
		tail := a.analyzeExpr(fb, scope, block.Tail)
		seq = append(seq, tail)
		return ir.NewSequence(block.Lbrace, seq, tail.Typ())
	}
	if len(seq) == 0 {
		return ir.NewConst(block.Lbrace, types.NewConstant(types.Unit{}, 0))
	}
	return ir.NewSequence(block.Lbrace, seq, types.Unit{})
}

func (a *Analyzer) analyzeStmt(fb *funcBuilder, scope ScopeID, stmt ast.Stmt) ir.Expr {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return a.analyzeLet(fb, scope, s)
	case *ast.ForStmt:
		return a.analyzeFor(fb, scope, s)
	case *ast.ExprStmt:
		return a.analyzeExpr(fb, scope, s.X)
	}
	pos, _ := stmt.Span()
	return unitConst(pos)
}

// analyzeLet lowers "let [mut] name[: Type] = value;" to a Store into a
// freshly allocated frame slot, declaring name in scope afterward so the
// value expression itself cannot observe the new binding (shadowing an
// outer "name" in its own initializer is not allowed). An integer literal
// initializer takes the declared integer or field type when its value fits
// that type.
func (a *Analyzer) analyzeLet(fb *funcBuilder, scope ScopeID, s *ast.LetStmt) ir.Expr {
	value := a.analyzeExpr(fb, scope, s.Value)
	declType := value.Typ()
	if s.Type != nil {
		declType = a.resolveType(scope, s.Type)
		if lit, isLit := s.Value.(*ast.Literal); isLit {
			if c, ok := a.literalConstant(lit); ok {
				_, litInt := c.Typ.(types.Integer)
				switch declType.(type) {
				case types.Integer, types.Field:
					if retyped := (types.Constant{Typ: declType, Int: c.Int}); litInt && retyped.InRange() {
						value = ir.NewConst(lit.TokPos, retyped)
					}
				}
			}
		}
		if !declType.Equal(value.Typ()) {
			a.errorf(s.Eq, KindAssignmentInvalidType, "cannot assign %s to declared type %s", value.Typ(), declType)
		}
	}
	slot := fb.newSlot(declType.Size())
	a.arena.declareVariable(scope, s.Name.Name, &variable{Mutable: s.Mut.IsValid(), Slot: slot, Typ: declType})
	place := &ir.Place{FrameSlot: slot, Offset: 0, Size: declType.Size(), Typ: declType}
	return ir.NewStore(s.LetPos, place, nil, 0, 0, value)
}

// analyzeFor lowers "for name in lo..hi [while cond] { body }" to a LoopExpr.
// Both bounds must be compile-time constants (spec.md §4.3
// LoopBoundsExpectedConstantRangeExpression); lo > hi iterates downward
// (spec.md §9's Open Question decision) rather than
// producing an empty loop.
func (a *Analyzer) analyzeFor(fb *funcBuilder, scope ScopeID, s *ast.ForStmt) ir.Expr {
	re, ok := s.Iter.(*ast.RangeExpr)
	if !ok || re.Lo == nil || re.Hi == nil {
		pos, _ := s.Iter.Span()
		a.errorf(pos, KindLoopBoundsExpectedConstantRangeExpr, "for-loop iterator must be a bounded range expression")
		return unitConst(s.ForPos)
	}
	loC := a.evalConstExpr(scope, re.Lo)
	hiC := a.evalConstExpr(scope, re.Hi)
	if !loC.Typ.Equal(hiC.Typ) {
		pos, _ := re.Span()
		a.errorf(pos, KindBinaryOperandTypeMismatch, "range bounds have mismatched types %s and %s", loC.Typ, hiC.Typ)
	}
	lo, hi := loC.Int.Int64(), hiC.Int.Int64()

	down := lo > hi
	count := hi - lo
	if down {
		count = lo - hi
	}
	if re.Inclusive {
		count++
	}
	if count < 0 {
		count = 0
	}

	loopScope := a.arena.new(scope)
	slot := fb.newSlot(1)
	a.arena.declareVariable(loopScope, s.Name.Name, &variable{Mutable: false, Slot: slot, Typ: loC.Typ})

	var whileCond ir.Expr
	if s.WhileCond != nil {
		whileCond = a.analyzeExpr(fb, loopScope, s.WhileCond)
		if _, ok := whileCond.Typ().(types.Bool); !ok {
			a.errorf(s.WhilePos, KindLoopWhileExpectedBooleanCondition, "while condition must be bool, got %s", whileCond.Typ())
		}
	}

	bodyScope := a.arena.new(loopScope)
	body := a.analyzeBlock(fb, bodyScope, s.Body)
	return ir.NewLoop(s.ForPos, slot, loC.Typ, lo, count, down, whileCond, body)
}
