package parser

import (
	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/token"
)

func (p *parser) parseType() ast.TypeExpr {
	switch p.tok {
	case token.LPAREN:
		return p.parseTupleType()
	case token.LBRACK:
		return p.parseArrayType()
	default:
		return p.parsePathType()
	}
}

func (p *parser) parseTupleType() *ast.TupleType {
	lparen := p.expect(token.LPAREN)
	tt := &ast.TupleType{Lparen: lparen}
	for p.tok != token.RPAREN && p.tok != token.EOF {
		tt.Elems = append(tt.Elems, p.parseType())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	tt.Rparen = p.expect(token.RPAREN)
	return tt
}

func (p *parser) parseArrayType() *ast.ArrayType {
	lbrack := p.expect(token.LBRACK)
	at := &ast.ArrayType{Lbrack: lbrack, Elem: p.parseType()}
	at.Semi = p.expect(token.SEMI)
	at.Size = p.parseExpr()
	at.Rbrack = p.expect(token.RBRACK)
	return at
}

func (p *parser) parsePathType() *ast.PathType {
	pt := &ast.PathType{}
	pt.Segments = append(pt.Segments, p.parseSelfAwareIdent())
	for p.tok == token.COLONCOLON {
		pt.Colons = append(pt.Colons, p.pos())
		p.advance()
		pt.Segments = append(pt.Segments, p.parseIdent())
	}
	if lt, ok := p.accept(token.LT); ok {
		pt.Lt = lt
		for p.tok != token.GT && p.tok != token.EOF {
			pt.Generics = append(pt.Generics, p.parseType())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		pt.Gt = p.expect(token.GT)
	}
	return pt
}
