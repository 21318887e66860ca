package parser

import (
	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/token"
)

// blockLikeExpr reports whether e's concrete syntax ends in "}", so that an
// expression-statement built from it needs no trailing ";" (Rust's rule for
// if/match/block/loop expressions used in statement position).
func blockLikeExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BlockExpr, *ast.IfExpr, *ast.MatchExpr:
		return true
	}
	return false
}

func (p *parser) parseBlock() *ast.Block {
	lbrace := p.expect(token.LBRACE)
	b := &ast.Block{Lbrace: lbrace}

	for p.tok != token.RBRACE && p.tok != token.EOF {
		switch p.tok {
		case token.LET:
			b.Stmts = append(b.Stmts, p.parseLet())
			continue
		case token.FOR:
			b.Stmts = append(b.Stmts, p.parseFor())
			continue
		}

		e := p.parseExpr()
		if semi, ok := p.accept(token.SEMI); ok {
			b.Stmts = append(b.Stmts, &ast.ExprStmt{X: e, Semi: semi})
			continue
		}
		if p.tok == token.RBRACE {
			b.Tail = e
			break
		}
		if blockLikeExpr(e) {
			b.Stmts = append(b.Stmts, &ast.ExprStmt{X: e})
			continue
		}
		p.errorf(p.pos(), "expected ';', found %s", p.tok)
		b.Stmts = append(b.Stmts, &ast.ExprStmt{X: e})
	}

	b.Rbrace = p.expect(token.RBRACE)
	return b
}

func (p *parser) parseLet() *ast.LetStmt {
	letPos := p.expect(token.LET)
	s := &ast.LetStmt{LetPos: letPos}
	if mut, ok := p.accept(token.MUT); ok {
		s.Mut = mut
	}
	s.Name = p.parseIdent()
	if _, ok := p.accept(token.COLON); ok {
		s.Type = p.parseType()
	}
	s.Eq = p.expect(token.EQ)
	s.Value = p.parseExpr()
	s.Semi = p.expect(token.SEMI)
	return s
}

func (p *parser) parseFor() *ast.ForStmt {
	forPos := p.expect(token.FOR)
	s := &ast.ForStmt{ForPos: forPos, Name: p.parseIdent()}
	s.InPos = p.expect(token.IN)
	s.Iter = p.parseCondExpr()
	if whilePos, ok := p.accept(token.WHILE); ok {
		s.WhilePos = whilePos
		s.WhileCond = p.parseCondExpr()
	}
	s.Body = p.parseBlock()
	return s
}

