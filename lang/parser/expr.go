package parser

import (
	"strconv"

	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/token"
)

// parseExpr parses a full expression, including assignment and range,
// spec.md §4.2's lowest-precedence productions.
func (p *parser) parseExpr() ast.Expr {
	lhs := p.parseRange()
	if p.tok.IsAssignOp() {
		opPos, op := p.pos(), p.tok
		p.advance()
		rhs := p.parseExpr()
		return &ast.AssignExpr{Lhs: lhs, OpPos: opPos, Op: op, Rhs: rhs}
	}
	return lhs
}

// parseCondExpr parses an expression in a position where "{" must not be
// mistaken for the start of a StructExpr (if/while/for conditions, match
// scrutinee).
func (p *parser) parseCondExpr() ast.Expr {
	save := p.noStructLit
	p.noStructLit = true
	e := p.parseExpr()
	p.noStructLit = save
	return e
}

func (p *parser) parseRange() ast.Expr {
	var lo ast.Expr
	if p.tok != token.DOTDOT && p.tok != token.DOTDOTEQ {
		lo = p.parseBinary(1)
	}
	if p.tok == token.DOTDOT || p.tok == token.DOTDOTEQ {
		opPos, inclusive := p.pos(), p.tok == token.DOTDOTEQ
		p.advance()
		var hi ast.Expr
		if startsExpr(p.tok) {
			hi = p.parseBinary(1)
		}
		return &ast.RangeExpr{Lo: lo, OpPos: opPos, Inclusive: inclusive, Hi: hi}
	}
	return lo
}

func startsExpr(tok token.Token) bool {
	switch tok {
	case token.SEMI, token.RBRACE, token.RPAREN, token.RBRACK, token.COMMA, token.EOF, token.LBRACE:
		return false
	}
	return true
}

// parseBinary implements precedence climbing over token.BinaryPrecedence.
func (p *parser) parseBinary(minPrec int) ast.Expr {
	lhs := p.parseUnary()
	for {
		prec := p.tok.BinaryPrecedence()
		if prec < minPrec || prec == 0 {
			return lhs
		}
		opPos, op := p.pos(), p.tok
		p.advance()
		rhs := p.parseBinary(prec + 1)
		lhs = &ast.BinaryExpr{X: lhs, OpPos: opPos, Op: op, Y: rhs}
	}
}

func (p *parser) parseUnary() ast.Expr {
	if p.tok.IsUnaryOp() {
		opPos, op := p.pos(), p.tok
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{OpPos: opPos, Op: op, X: x}
	}
	return p.parseCast()
}

func (p *parser) parseCast() ast.Expr {
	x := p.parsePostfix()
	for p.tok == token.AS {
		asPos := p.pos()
		p.advance()
		x = &ast.CastExpr{X: x, AsPos: asPos, Type: p.parseType()}
	}
	return x
}

func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.tok {
		case token.DOT:
			dot := p.pos()
			p.advance()
			if p.tok == token.INT_DECIMAL {
				idxPos, raw := p.pos(), p.val.Raw
				p.advance()
				n, _ := strconv.Atoi(raw)
				x = &ast.TupleIndexExpr{Recv: x, Dot: dot, Index: n, IdxPos: idxPos}
				continue
			}
			name := p.parseIdent()
			if p.tok == token.LPAREN {
				x = p.parseCallArgs(&ast.FieldExpr{Recv: x, Dot: dot, Name: name})
				continue
			}
			x = &ast.FieldExpr{Recv: x, Dot: dot, Name: name}
		case token.LBRACK:
			lbrack := p.pos()
			p.advance()
			idx := p.parseExpr()
			rbrack := p.expect(token.RBRACK)
			x = &ast.IndexExpr{Recv: x, Lbrack: lbrack, Index: idx, Rbrack: rbrack}
		case token.LPAREN:
			x = p.parseCallArgs(x)
		case token.BANG:
			// "name!(args...)" is macro-style call sugar for the
			// diagnostic intrinsics (spec.md §4.3's "dbg!"); it lowers to
			// an ordinary CallExpr, the "!" carrying no separate meaning.
			bang := p.pos()
			p.advance()
			if p.tok != token.LPAREN {
				p.errorf(bang, "expected '(' after '!'")
				return x
			}
			x = p.parseCallArgs(x)
		default:
			return x
		}
	}
}

func (p *parser) parseCallArgs(callee ast.Expr) *ast.CallExpr {
	lparen := p.expect(token.LPAREN)
	call := &ast.CallExpr{Callee: callee, Lparen: lparen}
	for p.tok != token.RPAREN && p.tok != token.EOF {
		call.Args = append(call.Args, p.parseExpr())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	call.Rparen = p.expect(token.RPAREN)
	return call
}

func (p *parser) parsePrimary() ast.Expr {
	switch p.tok {
	case token.INT_BINARY, token.INT_OCTAL, token.INT_DECIMAL, token.INT_HEXADECIMAL, token.STRING:
		lit := &ast.Literal{TokPos: p.pos(), Tok: p.tok, Raw: p.val.Raw, Str: p.val.Str}
		p.advance()
		return lit
	case token.TRUE, token.FALSE:
		lit := &ast.Literal{TokPos: p.pos(), Tok: p.tok, Raw: p.val.Raw}
		p.advance()
		return lit
	case token.LPAREN:
		return p.parseParenOrTuple()
	case token.LBRACK:
		return p.parseArrayExpr()
	case token.IF:
		return p.parseIfExpr()
	case token.MATCH:
		return p.parseMatchExpr()
	case token.RETURN:
		returnPos := p.pos()
		p.advance()
		ret := &ast.ReturnExpr{ReturnPos: returnPos}
		if startsExpr(p.tok) {
			ret.Value = p.parseExpr()
		}
		return ret
	case token.LBRACE:
		return &ast.BlockExpr{Block: p.parseBlock()}
	case token.IDENT, token.SELF_VALUE, token.SELF_TYPE, token.BOOL_TYPE, token.FIELD_TYPE, token.CONTRACT:
		return p.parsePathOrStruct()
	default:
		p.errorf(p.pos(), "expected expression, found %s", p.tok)
		pos := p.pos()
		p.advance()
		return &ast.Literal{TokPos: pos, Tok: token.ILLEGAL, Raw: ""}
	}
}

func (p *parser) parseParenOrTuple() ast.Expr {
	lparen := p.expect(token.LPAREN)
	if _, ok := p.accept(token.RPAREN); ok {
		return &ast.TupleExpr{Lparen: lparen, Rparen: lparen + 1}
	}
	first := p.parseExpr()
	if _, ok := p.accept(token.COMMA); !ok {
		rparen := p.expect(token.RPAREN)
		return &ast.ParenExpr{Lparen: lparen, X: first, Rparen: rparen}
	}
	tup := &ast.TupleExpr{Lparen: lparen, Elems: []ast.Expr{first}}
	for p.tok != token.RPAREN && p.tok != token.EOF {
		tup.Elems = append(tup.Elems, p.parseExpr())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	tup.Rparen = p.expect(token.RPAREN)
	return tup
}

func (p *parser) parseArrayExpr() *ast.ArrayExpr {
	lbrack := p.expect(token.LBRACK)
	arr := &ast.ArrayExpr{Lbrack: lbrack}
	if _, ok := p.accept(token.RBRACK); ok {
		arr.Rbrack = p.pos()
		return arr
	}
	first := p.parseExpr()
	if semi, ok := p.accept(token.SEMI); ok {
		arr.Elems = []ast.Expr{first}
		arr.Semi = semi
		arr.Count = p.parseExpr()
		arr.Rbrack = p.expect(token.RBRACK)
		return arr
	}
	arr.Elems = append(arr.Elems, first)
	for {
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		if p.tok == token.RBRACK {
			break
		}
		arr.Elems = append(arr.Elems, p.parseExpr())
	}
	arr.Rbrack = p.expect(token.RBRACK)
	return arr
}

// parsePathOrStruct parses a path expression, optionally followed by a
// struct literal body unless p.noStructLit suppresses it.
func (p *parser) parsePathOrStruct() ast.Expr {
	path := p.parsePathExpr()
	if p.noStructLit || p.tok != token.LBRACE {
		return path
	}
	return p.parseStructExpr(path)
}

func (p *parser) parsePathExpr() *ast.PathExpr {
	pe := &ast.PathExpr{}
	pe.Segments = append(pe.Segments, p.parseSelfAwareIdent())
	for p.tok == token.COLONCOLON {
		pe.Colons = append(pe.Colons, p.pos())
		p.advance()
		if lt, ok := p.accept(token.LT); ok {
			pe.Lt = lt
			for p.tok != token.GT && p.tok != token.EOF {
				pe.Generics = append(pe.Generics, p.parseType())
				if _, ok := p.accept(token.COMMA); !ok {
					break
				}
			}
			pe.Gt = p.expect(token.GT)
			continue
		}
		pe.Segments = append(pe.Segments, p.parseSelfAwareIdent())
	}
	return pe
}

// parseSelfAwareIdent accepts "self" and "Self" as identifiers in path
// position, alongside ordinary names.
func (p *parser) parseSelfAwareIdent() *ast.Ident {
	switch p.tok {
	case token.SELF_VALUE, token.SELF_TYPE, token.BOOL_TYPE, token.FIELD_TYPE, token.CONTRACT:
		pos, name := p.pos(), p.val.Raw
		p.advance()
		return &ast.Ident{Start: pos, Name: name}
	default:
		return p.parseIdent()
	}
}

func (p *parser) parseStructExpr(path *ast.PathExpr) *ast.StructExpr {
	lbrace := p.expect(token.LBRACE)
	se := &ast.StructExpr{Path: path, Lbrace: lbrace}
	for p.tok != token.RBRACE && p.tok != token.EOF {
		name := p.parseIdent()
		field := &ast.StructFieldInit{Name: name}
		if colon, ok := p.accept(token.COLON); ok {
			field.Colon = colon
			field.Value = p.parseExpr()
		}
		se.Fields = append(se.Fields, field)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	se.Rbrace = p.expect(token.RBRACE)
	return se
}

func (p *parser) parseIfExpr() *ast.IfExpr {
	ifPos := p.expect(token.IF)
	ie := &ast.IfExpr{IfPos: ifPos, Cond: p.parseCondExpr()}
	ie.Then = p.parseBlock()
	if _, ok := p.accept(token.ELSE); ok {
		if p.tok == token.IF {
			ie.Else = p.parseIfExpr()
		} else {
			ie.Else = &ast.BlockExpr{Block: p.parseBlock()}
		}
	}
	return ie
}

func (p *parser) parseMatchExpr() *ast.MatchExpr {
	matchPos := p.expect(token.MATCH)
	me := &ast.MatchExpr{MatchPos: matchPos, Scrutinee: p.parseCondExpr()}
	me.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		arm := &ast.MatchArm{Pattern: p.parsePattern()}
		arm.Arrow = p.expect(token.FATARROW)
		arm.Body = p.parseExpr()
		me.Arms = append(me.Arms, arm)
		if _, ok := p.accept(token.COMMA); !ok {
			if p.tok != token.RBRACE {
				continue // block-bodied arms may omit the comma
			}
			break
		}
	}
	me.Rbrace = p.expect(token.RBRACE)
	return me
}
