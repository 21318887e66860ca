package semantic

import (
	"math/big"
	"strings"

	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/ir"
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/types"
)

func unitConst(pos token.Pos) ir.Expr {
	return ir.NewConst(pos, types.NewConstant(types.Unit{}, 0))
}

// analyzeExpr lowers one ast.Expr to its ir.Expr, spec.md §4.4's expression
// emission. Every branch returns a non-nil, correctly-typed ir.Expr even
// after reporting an error, so callers never need a nil check.
func (a *Analyzer) analyzeExpr(fb *funcBuilder, scope ScopeID, e ast.Expr) ir.Expr {
	switch x := e.(type) {
	case *ast.Literal:
		c, ok := a.literalConstant(x)
		if !ok {
			a.errorf(x.TokPos, KindExpressionNonConstantElement, "invalid literal")
			return unitConst(x.TokPos)
		}
		return ir.NewConst(x.TokPos, c)

	case *ast.Ident:
		pos, _ := x.Span()
		return a.analyzeName(scope, pos, x.Name)

	case *ast.PathExpr:
		return a.analyzePathValue(fb, scope, x)

	case *ast.ParenExpr:
		return a.analyzeExpr(fb, scope, x.X)

	case *ast.TupleExpr:
		return a.analyzeTupleExpr(fb, scope, x)

	case *ast.ArrayExpr:
		return a.analyzeArrayExpr(fb, scope, x)

	case *ast.StructExpr:
		return a.analyzeStructExpr(fb, scope, x)

	case *ast.FieldExpr, *ast.TupleIndexExpr, *ast.IndexExpr:
		place, idx, elemType, elemSize, arrayLen, ok := a.resolvePlace(fb, scope, e)
		pos, _ := e.Span()
		if !ok {
			return unitConst(pos)
		}
		return placeLoad(pos, place, idx, elemType, elemSize, arrayLen)

	case *ast.CallExpr:
		return a.analyzeCall(fb, scope, x)

	case *ast.UnaryExpr:
		return a.analyzeUnary(fb, scope, x)

	case *ast.BinaryExpr:
		return a.analyzeBinary(fb, scope, x)

	case *ast.AssignExpr:
		return a.analyzeAssign(fb, scope, x)

	case *ast.CastExpr:
		return a.analyzeCast(fb, scope, x)

	case *ast.BlockExpr:
		blockScope := a.arena.new(scope)
		return a.analyzeBlock(fb, blockScope, x.Block)

	case *ast.IfExpr:
		return a.analyzeIf(fb, scope, x)

	case *ast.MatchExpr:
		return a.analyzeMatch(fb, scope, x)

	case *ast.ReturnExpr:
		var val ir.Expr
		if x.Value != nil {
			val = a.analyzeExpr(fb, scope, x.Value)
		}
		return ir.NewReturn(x.ReturnPos, val)

	case *ast.RangeExpr:
		pos, _ := x.Span()
		a.errorf(pos, KindLoopBoundsExpectedConstantRangeExpr, "a range expression is only valid as a for-loop's iterator")
		return unitConst(pos)
	}

	pos, _ := e.Span()
	a.errorf(pos, KindUndeclaredItem, "unsupported expression")
	return unitConst(pos)
}

// analyzeName resolves a bare single-segment name in value position: a
// local variable (including "self"), a local constant binding, or a
// module-level const item.
func (a *Analyzer) analyzeName(scope ScopeID, pos token.Pos, name string) ir.Expr {
	if v, ok := a.arena.lookupVariable(scope, name); ok {
		return ir.NewLoad(pos, &ir.Place{FrameSlot: v.Slot, Offset: 0, Size: v.Typ.Size(), Typ: v.Typ})
	}
	if c, ok := a.arena.lookupConstant(scope, name); ok {
		return ir.NewConst(pos, c)
	}
	if stub, stubScope, ok := a.arena.lookupItem(scope, name); ok && stub.kind == "const" {
		return ir.NewConst(pos, a.resolveConstItem(stubScope, stub))
	}
	a.errorHint(pos, KindUndeclaredItem, a.suggest(scope, name), "undeclared name %q", name)
	return unitConst(pos)
}

func pathString(pe *ast.PathExpr) string {
	parts := make([]string, len(pe.Segments))
	for i, s := range pe.Segments {
		parts[i] = s.Name
	}
	return strings.Join(parts, "::")
}

// analyzePathValue resolves a (possibly multi-segment) PathExpr used as a
// value: a bare name, or "EnumType::Variant" naming a unit variant.
// Associated constants declared inside an impl block are outside spec.md's
// scope (impl blocks carry only methods), so any other two-segment path is
// an error.
func (a *Analyzer) analyzePathValue(fb *funcBuilder, scope ScopeID, pe *ast.PathExpr) ir.Expr {
	pos, _ := pe.Span()
	if len(pe.Segments) == 1 && pe.Generics == nil {
		return a.analyzeName(scope, pos, pe.Segments[0].Name)
	}
	if len(pe.Segments) == 2 {
		typeName, member := pe.Segments[0].Name, pe.Segments[1].Name
		if stub, stubScope, ok := a.arena.lookupItem(scope, typeName); ok && stub.kind == "enum" {
			et := a.resolveEnumType(stubScope, stub).(*types.Enum)
			if disc, found := et.Discriminant(member); found {
				return a.buildEnumUnitValue(fb, pos, et, disc)
			}
		}
	}
	a.errorf(pos, KindUndeclaredItem, "undeclared path %q", pathString(pe))
	return unitConst(pos)
}

// buildEnumUnitValue materializes a unit variant reference as (discriminant,
// zero-filled payload) so its size always matches et.Size(), even when
// sibling variants of et carry fields.
func (a *Analyzer) buildEnumUnitValue(fb *funcBuilder, pos token.Pos, et *types.Enum, disc int64) ir.Expr {
	parts := []ir.Expr{ir.NewConst(pos, types.Constant{Typ: types.Field{}, Int: big.NewInt(disc)})}
	for i := 1; i < et.Size(); i++ {
		parts = append(parts, ir.NewConst(pos, types.Constant{Typ: types.Field{}, Int: big.NewInt(0)}))
	}
	return a.buildAggregate(fb, pos, et, parts)
}

// buildAggregate materializes a composite value (array/tuple/struct/enum)
// into a fresh frame slot via one Store per element followed by a Load of
// the whole range, wrapped in a Sequence — the only way to construct a
// composite value given lang/ir has no dedicated "construct" node.
func (a *Analyzer) buildAggregate(fb *funcBuilder, pos token.Pos, typ types.Type, parts []ir.Expr) ir.Expr {
	size := typ.Size()
	slot := fb.newSlot(size)
	place := &ir.Place{FrameSlot: slot, Offset: 0, Size: size, Typ: typ}
	seq := make([]ir.Expr, 0, len(parts)+1)
	offset := 0
	for _, part := range parts {
		sz := part.Typ().Size()
		elemPlace := &ir.Place{FrameSlot: slot, Offset: offset, Size: sz, Typ: part.Typ()}
		seq = append(seq, ir.NewStore(pos, elemPlace, nil, 0, 0, part))
		offset += sz
	}
	seq = append(seq, ir.NewLoad(pos, place))
	return ir.NewSequence(pos, seq, typ)
}

// zeroFill builds a recursively zero-valued expression of type t, used to
// pad a struct literal's missing fields (reported separately as an error)
// and an enum unit variant's unused payload slots.
func (a *Analyzer) zeroFill(fb *funcBuilder, pos token.Pos, t types.Type) ir.Expr {
	switch tt := t.(type) {
	case types.Array:
		elem := a.zeroFill(fb, pos, tt.Elem)
		parts := make([]ir.Expr, tt.Len)
		for i := range parts {
			parts[i] = elem
		}
		return a.buildAggregate(fb, pos, t, parts)
	case types.Tuple:
		parts := make([]ir.Expr, len(tt.Elems))
		for i, e := range tt.Elems {
			parts[i] = a.zeroFill(fb, pos, e)
		}
		return a.buildAggregate(fb, pos, t, parts)
	case *types.Struct:
		parts := make([]ir.Expr, len(tt.Fields))
		for i, f := range tt.Fields {
			parts[i] = a.zeroFill(fb, pos, f.Type)
		}
		return a.buildAggregate(fb, pos, t, parts)
	default:
		return ir.NewConst(pos, types.Constant{Typ: t, Int: big.NewInt(0)})
	}
}

func (a *Analyzer) analyzeTupleExpr(fb *funcBuilder, scope ScopeID, x *ast.TupleExpr) ir.Expr {
	pos, _ := x.Span()
	if len(x.Elems) == 0 {
		return unitConst(pos)
	}
	parts := make([]ir.Expr, len(x.Elems))
	elems := make([]types.Type, len(x.Elems))
	for i, el := range x.Elems {
		parts[i] = a.analyzeExpr(fb, scope, el)
		elems[i] = parts[i].Typ()
	}
	return a.buildAggregate(fb, pos, types.Tuple{Elems: elems}, parts)
}

func (a *Analyzer) analyzeArrayExpr(fb *funcBuilder, scope ScopeID, x *ast.ArrayExpr) ir.Expr {
	pos, _ := x.Span()
	if x.Count != nil {
		val := a.analyzeExpr(fb, scope, x.Elems[0])
		c := a.evalConstExpr(scope, x.Count)
		n := int(c.Int.Int64())
		typ := types.Array{Elem: val.Typ(), Len: n}
		parts := make([]ir.Expr, n)
		for i := range parts {
			parts[i] = val
		}
		return a.buildAggregate(fb, pos, typ, parts)
	}
	parts := make([]ir.Expr, len(x.Elems))
	var elemType types.Type
	for i, el := range x.Elems {
		parts[i] = a.analyzeExpr(fb, scope, el)
		if i == 0 {
			elemType = parts[i].Typ()
		} else if !elemType.Equal(parts[i].Typ()) {
			p, _ := el.Span()
			a.errorf(p, KindAssignmentInvalidType, "array element %d has type %s, expected %s", i, parts[i].Typ(), elemType)
		}
	}
	if elemType == nil {
		elemType = types.Unit{}
	}
	return a.buildAggregate(fb, pos, types.Array{Elem: elemType, Len: len(parts)}, parts)
}

func (a *Analyzer) analyzeStructExpr(fb *funcBuilder, scope ScopeID, x *ast.StructExpr) ir.Expr {
	pos, _ := x.Span()
	name := x.Path.Segments[len(x.Path.Segments)-1].Name
	stub, stubScope, ok := a.arena.lookupItem(scope, name)
	if !ok || stub.kind != "struct" {
		a.errorHint(pos, KindUndeclaredItem, a.suggest(scope, name), "undeclared struct %q", name)
		return unitConst(pos)
	}
	st := a.resolveStructType(stubScope, stub).(*types.Struct)

	parts := make([]ir.Expr, len(st.Fields))
	for _, finit := range x.Fields {
		idx := -1
		for i, f := range st.Fields {
			if f.Name == finit.Name.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			fp, _ := finit.Span()
			a.errorHint(fp, KindUndeclaredItem, a.suggest(scope, finit.Name.Name), "%s has no field %q", st.Name, finit.Name.Name)
			continue
		}
		valExpr := finit.Value
		if valExpr == nil {
			valExpr = finit.Name
		}
		v := a.analyzeExpr(fb, scope, valExpr)
		if !st.Fields[idx].Type.Equal(v.Typ()) {
			fp, _ := finit.Span()
			a.errorf(fp, KindAssignmentInvalidType, "field %q has type %s, expected %s", finit.Name.Name, v.Typ(), st.Fields[idx].Type)
		}
		parts[idx] = v
	}
	for i, p := range parts {
		if p == nil {
			a.errorf(pos, KindFunctionArgumentCount, "missing field %q in struct literal", st.Fields[i].Name)
			parts[i] = a.zeroFill(fb, pos, st.Fields[i].Type)
		}
	}
	return a.buildAggregate(fb, pos, st, parts)
}

func (a *Analyzer) analyzeUnary(fb *funcBuilder, scope ScopeID, x *ast.UnaryExpr) ir.Expr {
	xExpr := a.analyzeExpr(fb, scope, x.X)
	switch x.Op {
	case token.MINUS:
		return ir.NewUnary(x.OpPos, ir.OpNeg, xExpr, xExpr.Typ())
	case token.TILDE:
		return ir.NewUnary(x.OpPos, ir.OpBitNot, xExpr, xExpr.Typ())
	case token.BANG:
		return ir.NewUnary(x.OpPos, ir.OpNot, xExpr, types.Bool{})
	}
	a.errorf(x.OpPos, KindBinaryOperandTypeMismatch, "unsupported unary operator %s", x.Op)
	return xExpr
}

func tokenToOp(tok token.Token) (ir.Op, bool) {
	switch tok {
	case token.PLUS:
		return ir.OpAdd, true
	case token.MINUS:
		return ir.OpSub, true
	case token.STAR:
		return ir.OpMul, true
	case token.SLASH:
		return ir.OpDiv, true
	case token.PERCENT:
		return ir.OpRem, true
	case token.AMPERSAND:
		return ir.OpBitAnd, true
	case token.PIPE:
		return ir.OpBitOr, true
	case token.CIRCUMFLEX:
		return ir.OpBitXor, true
	case token.LTLT:
		return ir.OpShl, true
	case token.GTGT:
		return ir.OpShr, true
	case token.AMPAMP:
		return ir.OpAnd, true
	case token.PIPEPIPE:
		return ir.OpOr, true
	case token.CIRCCIRC:
		return ir.OpXor, true
	case token.EQEQ:
		return ir.OpEq, true
	case token.NEQ:
		return ir.OpNe, true
	case token.LT:
		return ir.OpLt, true
	case token.LE:
		return ir.OpLe, true
	case token.GT:
		return ir.OpGt, true
	case token.GE:
		return ir.OpGe, true
	}
	return ir.OpInvalid, false
}

func (a *Analyzer) analyzeBinary(fb *funcBuilder, scope ScopeID, x *ast.BinaryExpr) ir.Expr {
	lhs := a.analyzeExpr(fb, scope, x.X)
	rhs := a.analyzeExpr(fb, scope, x.Y)
	op, ok := tokenToOp(x.Op)
	if !ok {
		a.errorf(x.OpPos, KindBinaryOperandTypeMismatch, "unsupported operator %s", x.Op)
		return unitConst(x.OpPos)
	}
	if !lhs.Typ().Equal(rhs.Typ()) {
		a.errorf(x.OpPos, KindBinaryOperandTypeMismatch, "mismatched operand types %s and %s", lhs.Typ(), rhs.Typ())
	}
	result := lhs.Typ()
	if op.IsComparison() {
		result = types.Bool{}
	}
	return ir.NewBinary(x.OpPos, op, lhs, rhs, result)
}

func (a *Analyzer) analyzeCast(fb *funcBuilder, scope ScopeID, x *ast.CastExpr) ir.Expr {
	xExpr := a.analyzeExpr(fb, scope, x.X)
	target := a.resolveType(scope, x.Type)
	return ir.NewCast(x.AsPos, xExpr, target)
}

func (a *Analyzer) analyzeIf(fb *funcBuilder, scope ScopeID, x *ast.IfExpr) ir.Expr {
	cond := a.analyzeExpr(fb, scope, x.Cond)
	if _, ok := cond.Typ().(types.Bool); !ok {
		a.errorf(x.IfPos, KindConditionalExpectedBooleanCondition, "if condition must be bool, got %s", cond.Typ())
	}
	thenScope := a.arena.new(scope)
	then := a.analyzeBlock(fb, thenScope, x.Then)

	var els ir.Expr
	resultType := then.Typ()
	if x.Else != nil {
		els = a.analyzeExpr(fb, scope, x.Else)
		if !then.Typ().Equal(els.Typ()) {
			p1, _ := x.Then.Span()
			p2, _ := x.Else.Span()
			a.errorAt2(p1, p2, KindConditionalBranchTypesMismatch, "if/else branches have different types: %s vs %s", then.Typ(), els.Typ())
		}
	} else if _, isUnit := then.Typ().(types.Unit); !isUnit {
		a.errorf(x.IfPos, KindConditionalBranchTypesMismatch, "if without else must have a unit-typed then-branch, got %s", then.Typ())
		resultType = types.Unit{}
	}
	return ir.NewConditional(x.IfPos, cond, then, els, resultType)
}

func (a *Analyzer) analyzeMatch(fb *funcBuilder, scope ScopeID, x *ast.MatchExpr) ir.Expr {
	scrut := a.analyzeExpr(fb, scope, x.Scrutinee)
	slot := fb.newSlot(scrut.Typ().Size())

	var arms []ir.MatchArm
	var fallback ir.Expr
	var resultType types.Type

	addArm := func(value types.Constant, body ir.Expr, at ast.Node) {
		arms = append(arms, ir.MatchArm{Value: value, Body: body})
		if resultType == nil {
			resultType = body.Typ()
		} else if !resultType.Equal(body.Typ()) {
			p, _ := at.Span()
			a.errorf(p, KindConditionalBranchTypesMismatch, "match arm has type %s, expected %s", body.Typ(), resultType)
		}
	}

	for _, arm := range x.Arms {
		armScope := a.arena.new(scope)
		switch pat := arm.Pattern.(type) {
		case *ast.LiteralPattern:
			c, ok := a.literalConstant(pat.Lit)
			body := a.analyzeExpr(fb, armScope, arm.Body)
			if ok {
				addArm(c, body, arm)
			}
		case *ast.PathPattern:
			c, ok := a.tryConstExpr(armScope, pat.Path)
			body := a.analyzeExpr(fb, armScope, arm.Body)
			if !ok {
				p, _ := pat.Span()
				a.errorf(p, KindExpressionNonConstantElement, "match pattern %q is not a compile-time constant", pathString(pat.Path))
				continue
			}
			addArm(c, body, arm)
		case *ast.OrPattern:
			body := a.analyzeExpr(fb, armScope, arm.Body)
			for _, alt := range pat.Alts {
				switch altPat := alt.(type) {
				case *ast.LiteralPattern:
					if c, ok := a.literalConstant(altPat.Lit); ok {
						addArm(c, body, arm)
					}
				case *ast.PathPattern:
					if c, ok := a.tryConstExpr(armScope, altPat.Path); ok {
						addArm(c, body, arm)
					}
				default:
					p, _ := alt.Span()
					a.errorf(p, KindExpressionNonConstantElement, "only literal or constant-path alternatives are allowed in an or-pattern")
				}
			}
		case *ast.BindingPattern:
			a.arena.declareVariable(armScope, pat.Name.Name, &variable{Mutable: false, Slot: slot, Typ: scrut.Typ()})
			body := a.analyzeExpr(fb, armScope, arm.Body)
			if fallback == nil {
				a.checkArmType(&resultType, body, arm)
				fallback = body
			}
		case *ast.WildcardPattern:
			body := a.analyzeExpr(fb, armScope, arm.Body)
			if fallback == nil {
				a.checkArmType(&resultType, body, arm)
				fallback = body
			}
		}
	}

	if fallback == nil {
		pos, _ := x.Span()
		a.errorf(pos, KindConditionalBranchTypesMismatch, "match requires a wildcard or binding arm to cover every other value")
		if resultType == nil {
			resultType = types.Unit{}
		}
		fallback = ir.NewConst(pos, types.Constant{Typ: resultType, Int: big.NewInt(0)})
	}
	if resultType == nil {
		resultType = types.Unit{}
	}
	return ir.NewMatch(x.MatchPos, slot, scrut, arms, fallback, resultType)
}

func (a *Analyzer) checkArmType(resultType *types.Type, body ir.Expr, at ast.Node) {
	if *resultType == nil {
		*resultType = body.Typ()
		return
	}
	if !(*resultType).Equal(body.Typ()) {
		p, _ := at.Span()
		a.errorf(p, KindConditionalBranchTypesMismatch, "match arm has type %s, expected %s", body.Typ(), *resultType)
	}
}

func (a *Analyzer) analyzeAssign(fb *funcBuilder, scope ScopeID, x *ast.AssignExpr) ir.Expr {
	place, idx, elemType, elemSize, arrayLen, ok := a.resolvePlace(fb, scope, x.Lhs)
	if !ok {
		return unitConst(x.OpPos)
	}
	if !a.placeIsMutable(scope, x.Lhs) {
		p, _ := x.Lhs.Span()
		a.errorf(p, KindMutatingImmutable, "cannot assign to an immutable binding")
	}

	rhs := a.analyzeExpr(fb, scope, x.Rhs)
	if x.Op != token.EQ {
		op, _ := compoundOp(x.Op)
		cur := placeLoad(x.OpPos, place, idx, elemType, elemSize, arrayLen)
		rhs = ir.NewBinary(x.OpPos, op, cur, rhs, elemType)
	} else if !elemType.Equal(rhs.Typ()) {
		a.errorf(x.OpPos, KindAssignmentInvalidType, "cannot assign %s to %s", rhs.Typ(), elemType)
	}
	return ir.NewStore(x.OpPos, place, idx, elemSize, arrayLen, rhs)
}
