package semantic

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/token"
	"github.com/zinc-lang/zinc/lang/types"
)

// evalConstExpr implements spec.md §4.3 "Constant expressions are evaluated
// now via a fold that requires every subexpression to be a constant;
// non-constant operands produce ExpressionNonConstantElement." It always
// returns a usable zero Constant on error so callers (array sizes, loop
// bounds) can keep analyzing without a second, cascading diagnostic.
func (a *Analyzer) evalConstExpr(scope ScopeID, e ast.Expr) types.Constant {
	c, ok := a.tryConstExpr(scope, e)
	if !ok {
		pos, _ := e.Span()
		a.errorf(pos, KindExpressionNonConstantElement, "expression is not a compile-time constant")
		return types.NewConstant(types.Field{}, 0)
	}
	return c
}

func (a *Analyzer) tryConstExpr(scope ScopeID, e ast.Expr) (types.Constant, bool) {
	switch x := e.(type) {
	case *ast.Literal:
		return a.literalConstant(x)

	case *ast.ParenExpr:
		return a.tryConstExpr(scope, x.X)

	case *ast.PathExpr:
		if len(x.Segments) == 1 && x.Generics == nil {
			if c, ok := a.arena.lookupConstant(scope, x.Segments[0].Name); ok {
				return c, true
			}
			if stub, stubScope, ok := a.arena.lookupItem(scope, x.Segments[0].Name); ok && stub.kind == "const" {
				return a.resolveConstItem(stubScope, stub), true
			}
		}
		return types.Constant{}, false

	case *ast.UnaryExpr:
		v, ok := a.tryConstExpr(scope, x.X)
		if !ok {
			return types.Constant{}, false
		}
		switch x.Op {
		case token.MINUS:
			return types.Constant{Typ: v.Typ, Int: new(big.Int).Neg(v.Int)}, true
		case token.TILDE:
			return types.Constant{Typ: v.Typ, Int: new(big.Int).Not(v.Int)}, true
		case token.BANG:
			return types.Constant{Typ: v.Typ, Int: big.NewInt(1 - v.Int.Sign())}, true
		}

	case *ast.BinaryExpr:
		lv, lok := a.tryConstExpr(scope, x.X)
		rv, rok := a.tryConstExpr(scope, x.Y)
		if !lok || !rok {
			return types.Constant{}, false
		}
		return a.foldBinary(x.Op, lv, rv)

	case *ast.CastExpr:
		v, ok := a.tryConstExpr(scope, x.X)
		if !ok {
			return types.Constant{}, false
		}
		target := a.resolveType(scope, x.Type)
		return types.Constant{Typ: target, Int: new(big.Int).Set(v.Int)}, true
	}
	return types.Constant{}, false
}

func (a *Analyzer) resolveConstItem(scope ScopeID, stub *itemStub) types.Constant {
	if stub.resolved {
		return stub.constant
	}
	ci := stub.decl.(*ast.ConstItem)
	stub.resolved = true // guard against self-reference before evaluating Value
	stub.constant = a.evalConstExpr(scope, ci.Value)
	if ci.Type != nil {
		stub.constant.Typ = a.resolveType(scope, ci.Type)
	}
	return stub.constant
}

func (a *Analyzer) foldBinary(op token.Token, l, r types.Constant) (types.Constant, bool) {
	z := new(big.Int)
	switch op {
	case token.PLUS:
		return types.Constant{Typ: l.Typ, Int: z.Add(l.Int, r.Int)}, true
	case token.MINUS:
		return types.Constant{Typ: l.Typ, Int: z.Sub(l.Int, r.Int)}, true
	case token.STAR:
		return types.Constant{Typ: l.Typ, Int: z.Mul(l.Int, r.Int)}, true
	case token.SLASH:
		if r.Int.Sign() == 0 {
			return types.Constant{}, false
		}
		return types.Constant{Typ: l.Typ, Int: z.Div(l.Int, r.Int)}, true
	case token.PERCENT:
		if r.Int.Sign() == 0 {
			return types.Constant{}, false
		}
		return types.Constant{Typ: l.Typ, Int: z.Mod(l.Int, r.Int)}, true
	case token.AMPERSAND, token.AMPAMP:
		return types.Constant{Typ: l.Typ, Int: z.And(l.Int, r.Int)}, true
	case token.PIPE, token.PIPEPIPE:
		return types.Constant{Typ: l.Typ, Int: z.Or(l.Int, r.Int)}, true
	case token.CIRCUMFLEX, token.CIRCCIRC:
		return types.Constant{Typ: l.Typ, Int: z.Xor(l.Int, r.Int)}, true
	case token.LTLT:
		return types.Constant{Typ: l.Typ, Int: z.Lsh(l.Int, uint(r.Int.Int64()))}, true
	case token.GTGT:
		return types.Constant{Typ: l.Typ, Int: z.Rsh(l.Int, uint(r.Int.Int64()))}, true
	case token.EQEQ:
		return types.NewConstant(types.Bool{}, boolToInt(l.Int.Cmp(r.Int) == 0)), true
	case token.NEQ:
		return types.NewConstant(types.Bool{}, boolToInt(l.Int.Cmp(r.Int) != 0)), true
	case token.LT:
		return types.NewConstant(types.Bool{}, boolToInt(l.Int.Cmp(r.Int) < 0)), true
	case token.LE:
		return types.NewConstant(types.Bool{}, boolToInt(l.Int.Cmp(r.Int) <= 0)), true
	case token.GT:
		return types.NewConstant(types.Bool{}, boolToInt(l.Int.Cmp(r.Int) > 0)), true
	case token.GE:
		return types.NewConstant(types.Bool{}, boolToInt(l.Int.Cmp(r.Int) >= 0)), true
	}
	return types.Constant{}, false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// literalConstant decodes an *ast.Literal into a types.Constant, applying
// spec.md §8's literal-typing invariant for integers (smallest u{N} whose
// bit width contains the value, promoting to field past 248 bits) and
// rejecting literals needing more than 254 bits.
func (a *Analyzer) literalConstant(lit *ast.Literal) (types.Constant, bool) {
	switch lit.Tok {
	case token.TRUE, token.FALSE:
		return types.NewConstant(types.Bool{}, boolToInt(lit.Tok == token.TRUE)), true

	case token.INT_BINARY:
		return parseRadixLiteral(lit.Str, 2)
	case token.INT_OCTAL:
		return parseRadixLiteral(lit.Str, 8)
	case token.INT_HEXADECIMAL:
		return parseRadixLiteral(lit.Str, 16)

	case token.INT_DECIMAL:
		return decimalLiteralConstant(lit)
	}
	return types.Constant{}, false
}

func parseRadixLiteral(digits string, base int) (types.Constant, bool) {
	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return types.Constant{}, false
	}
	t, fits := types.FitsBits(v.BitLen())
	if !fits {
		return types.Constant{}, false
	}
	return types.Constant{Typ: t, Int: v}, true
}

// decimalLiteralConstant interprets an optional ".frac" and "E exponent"
// part (preserved verbatim in Raw by the lexer, spec.md §4.1) as scaling an
// integer literal: Zinc has no float type, so "1.5e2" denotes the integer
// 150, and a fractional part that does not divide out exactly is rejected
// as not representable.
func decimalLiteralConstant(lit *ast.Literal) (types.Constant, bool) {
	text := strings.ReplaceAll(lit.Raw, "_", "")

	expPart := ""
	if i := strings.IndexAny(text, "eE"); i >= 0 {
		expPart, text = text[i+1:], text[:i]
	}
	fracPart := ""
	if i := strings.IndexByte(text, '.'); i >= 0 {
		fracPart, text = text[i+1:], text[:i]
	}

	whole, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return types.Constant{}, false
	}

	exp := 0
	if expPart != "" {
		e, err := strconv.Atoi(expPart)
		if err != nil {
			return types.Constant{}, false
		}
		exp = e
	}

	if fracPart != "" {
		fracDigits := len(fracPart)
		frac, ok := new(big.Int).SetString(fracPart, 10)
		if !ok {
			return types.Constant{}, false
		}
		whole = new(big.Int).Add(new(big.Int).Mul(whole, pow10(fracDigits)), frac)
		exp -= fracDigits
	}

	switch {
	case exp > 0:
		whole = new(big.Int).Mul(whole, pow10(exp))
	case exp < 0:
		scaled := new(big.Int).Abs(whole)
		divisor := pow10(-exp)
		rem := new(big.Int)
		q, r := new(big.Int).QuoRem(scaled, divisor, rem)
		if r.Sign() != 0 {
			return types.Constant{}, false
		}
		if whole.Sign() < 0 {
			q.Neg(q)
		}
		whole = q
	}

	t, fits := types.FitsBits(whole.BitLen())
	if !fits {
		return types.Constant{}, false
	}
	return types.Constant{Typ: t, Int: whole}, true
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
