package parser

import (
	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/token"
)

func (p *parser) parseModule(name string) *ast.Module {
	mod := &ast.Module{Name: name}
	for p.tok != token.EOF {
		it := p.parseItem()
		if it != nil {
			mod.Items = append(mod.Items, it)
		}
	}
	mod.EOF = p.pos()
	return mod
}

func (p *parser) parseItem() ast.Item {
	pub, _ := p.accept(token.PUB)

	switch p.tok {
	case token.USE:
		return p.parseUse()
	case token.MOD:
		return p.parseModItem(pub)
	case token.CONST:
		return p.parseConst(pub)
	case token.TYPE:
		return p.parseTypeAlias(pub)
	case token.STRUCT:
		return p.parseStruct(pub)
	case token.ENUM:
		return p.parseEnum(pub)
	case token.FN:
		return p.parseFn(pub)
	case token.IMPL:
		return p.parseImpl()
	case token.CONTRACT:
		return p.parseContract(pub)
	default:
		p.errorf(p.pos(), "expected an item, found %s", p.tok)
		p.syncToItem()
		return nil
	}
}

func (p *parser) parseUse() *ast.UseItem {
	usePos := p.expect(token.USE)
	it := &ast.UseItem{UsePos: usePos}
	it.Segments = append(it.Segments, p.parseIdent())
	for p.tok == token.COLONCOLON {
		it.Colons = append(it.Colons, p.pos())
		p.advance()
		it.Segments = append(it.Segments, p.parseIdent())
	}
	it.Semi = p.expect(token.SEMI)
	return it
}

func (p *parser) parseModItem(pub token.Pos) *ast.ModItem {
	modPos := p.expect(token.MOD)
	it := &ast.ModItem{ModPos: modPos, Pub: pub, Name: p.parseIdent()}
	it.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if sub := p.parseItem(); sub != nil {
			it.Items = append(it.Items, sub)
		}
	}
	it.Rbrace = p.expect(token.RBRACE)
	return it
}

func (p *parser) parseConst(pub token.Pos) *ast.ConstItem {
	constPos := p.expect(token.CONST)
	it := &ast.ConstItem{ConstPos: constPos, Pub: pub, Name: p.parseIdent()}
	it.Colon = p.expect(token.COLON)
	it.Type = p.parseType()
	it.Eq = p.expect(token.EQ)
	it.Value = p.parseExpr()
	it.Semi = p.expect(token.SEMI)
	return it
}

func (p *parser) parseTypeAlias(pub token.Pos) *ast.TypeAliasItem {
	typePos := p.expect(token.TYPE)
	it := &ast.TypeAliasItem{TypePos: typePos, Pub: pub, Name: p.parseIdent()}
	it.Eq = p.expect(token.EQ)
	it.Type = p.parseType()
	it.Semi = p.expect(token.SEMI)
	return it
}

func (p *parser) parseGenerics() []*ast.Ident {
	if _, ok := p.accept(token.LT); !ok {
		return nil
	}
	var gens []*ast.Ident
	for p.tok != token.GT && p.tok != token.EOF {
		gens = append(gens, p.parseIdent())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.GT)
	return gens
}

func (p *parser) parseStruct(pub token.Pos) *ast.StructItem {
	structPos := p.expect(token.STRUCT)
	it := &ast.StructItem{StructPos: structPos, Pub: pub, Name: p.parseIdent()}
	it.Generics = p.parseGenerics()
	it.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		fpub, _ := p.accept(token.PUB)
		f := &ast.StructField{Pub: fpub, Name: p.parseIdent()}
		f.Colon = p.expect(token.COLON)
		f.Type = p.parseType()
		it.Fields = append(it.Fields, f)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	it.Rbrace = p.expect(token.RBRACE)
	return it
}

func (p *parser) parseEnum(pub token.Pos) *ast.EnumItem {
	enumPos := p.expect(token.ENUM)
	it := &ast.EnumItem{EnumPos: enumPos, Pub: pub, Name: p.parseIdent()}
	it.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		ev := &ast.EnumVariant{Name: p.parseIdent()}
		if lparen, ok := p.accept(token.LPAREN); ok {
			ev.Lparen = lparen
			for p.tok != token.RPAREN && p.tok != token.EOF {
				ev.Fields = append(ev.Fields, p.parseType())
				if _, ok := p.accept(token.COMMA); !ok {
					break
				}
			}
			ev.Rparen = p.expect(token.RPAREN)
		}
		it.Variants = append(it.Variants, ev)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	it.Rbrace = p.expect(token.RBRACE)
	return it
}

func (p *parser) parseFn(pub token.Pos) *ast.FnItem {
	fnPos := p.expect(token.FN)
	it := &ast.FnItem{FnPos: fnPos, Pub: pub, Name: p.parseIdent()}
	it.Generics = p.parseGenerics()
	it.Lparen = p.expect(token.LPAREN)
	for p.tok != token.RPAREN && p.tok != token.EOF {
		if selfPos, ok := p.accept(token.SELF_VALUE); ok {
			it.Params = append(it.Params, &ast.Param{SelfPos: selfPos})
		} else {
			param := &ast.Param{Name: p.parseIdent()}
			p.expect(token.COLON)
			param.Type = p.parseType()
			it.Params = append(it.Params, param)
		}
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	it.Rparen = p.expect(token.RPAREN)
	if arrow, ok := p.accept(token.ARROW); ok {
		it.Arrow = arrow
		it.RetType = p.parseType()
	}
	it.Body = p.parseBlock()
	return it
}

// parseContract parses "contract Name { storage fields..., fn methods... }"
// (spec.md §3's contract type): field declarations ("name: Type") and
// method declarations ("[pub] fn ...") may be interleaved, since the
// concrete grammar gives no other way to tell a field shorthand from a
// zero-argument method.
func (p *parser) parseContract(pub token.Pos) *ast.ContractItem {
	contractPos := p.expect(token.CONTRACT)
	it := &ast.ContractItem{ContractPos: contractPos, Pub: pub, Name: p.parseIdent()}
	it.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		fieldPub, _ := p.accept(token.PUB)
		if p.tok == token.FN {
			it.Methods = append(it.Methods, p.parseFn(fieldPub))
			continue
		}
		f := &ast.StructField{Pub: fieldPub, Name: p.parseIdent()}
		f.Colon = p.expect(token.COLON)
		f.Type = p.parseType()
		it.Storage = append(it.Storage, f)
		if _, ok := p.accept(token.COMMA); !ok {
			continue
		}
	}
	it.Rbrace = p.expect(token.RBRACE)
	return it
}

func (p *parser) parseImpl() *ast.ImplItem {
	implPos := p.expect(token.IMPL)
	it := &ast.ImplItem{ImplPos: implPos, Target: p.parseType()}
	it.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		fnPub, _ := p.accept(token.PUB)
		it.Methods = append(it.Methods, p.parseFn(fnPub))
	}
	it.Rbrace = p.expect(token.RBRACE)
	return it
}
