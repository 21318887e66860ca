package parser

import (
	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/token"
)

func (p *parser) parsePattern() ast.Pattern {
	first := p.parsePatternPrimary()
	if p.tok != token.PIPE {
		return first
	}
	or := &ast.OrPattern{Alts: []ast.Pattern{first}}
	for {
		if _, ok := p.accept(token.PIPE); !ok {
			break
		}
		or.Alts = append(or.Alts, p.parsePatternPrimary())
	}
	return or
}

func (p *parser) parsePatternPrimary() ast.Pattern {
	switch p.tok {
	case token.UNDERSCORE:
		pos := p.pos()
		p.advance()
		return &ast.WildcardPattern{Underscore: pos}
	case token.INT_BINARY, token.INT_OCTAL, token.INT_DECIMAL, token.INT_HEXADECIMAL, token.TRUE, token.FALSE:
		lit := &ast.Literal{TokPos: p.pos(), Tok: p.tok, Raw: p.val.Raw}
		p.advance()
		return &ast.LiteralPattern{Lit: lit}
	case token.MINUS:
		// negative integer literal pattern, e.g. "-1 => ...".
		minusPos := p.pos()
		p.advance()
		raw, tok := p.val.Raw, p.tok
		p.advance()
		lit := &ast.Literal{TokPos: minusPos, Tok: tok, Raw: "-" + raw}
		return &ast.LiteralPattern{Lit: lit}
	default:
		path := p.parsePathExpr()
		if len(path.Segments) == 1 && path.Generics == nil {
			return &ast.BindingPattern{Name: path.Segments[0]}
		}
		return &ast.PathPattern{Path: path}
	}
}
