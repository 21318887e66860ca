// Package parser turns a token stream from lang/lexer into the lang/ast
// syntax tree, adapted from the teacher's lang/parser package: a single
// parser struct holding one token of lookahead plus an accumulated
// token.ErrorList, with recursive-descent methods per grammar production
// and a precedence-climbing expression parser (spec.md §4.1's "operator
// precedence table drives a precedence-climbing expression parser").
package parser

import (
	"fmt"
	"os"

	"github.com/zinc-lang/zinc/lang/ast"
	"github.com/zinc-lang/zinc/lang/lexer"
	"github.com/zinc-lang/zinc/lang/token"
)

// ParseFiles parses each file into its own *ast.Module, sharing one
// FileSet. The returned error, if non-nil, is a *token.ErrorList.
func ParseFiles(files ...string) (*token.FileSet, []*ast.Module, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	var p parser
	fs := token.NewFileSet()
	mods := make([]*ast.Module, 0, len(files))

	for _, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			p.errors.Add(token.Position{Filename: file}, err.Error())
			continue
		}
		p.init(fs, file, b)
		mods = append(mods, p.parseModule(file))
	}
	p.errors.Sort()
	return fs, mods, p.errors.Err()
}

// ParseModule parses a single module from src, registering it with fset
// under filename.
func ParseModule(fset *token.FileSet, filename string, src []byte) (*ast.Module, error) {
	var p parser
	p.init(fset, filename, src)
	mod := p.parseModule(filename)
	return mod, p.errors.Err()
}

type parser struct {
	lx     lexer.Lexer
	errors token.ErrorList
	file   *token.File

	tok token.Token
	val lexer.Value

	// noStructLit suppresses parsing a bare "Path { ... }" as a StructExpr,
	// needed while parsing the condition of if/while/for and the scrutinee
	// of match, where "{" instead opens the body/arms block (the same
	// ambiguity Rust's grammar resolves the same way).
	noStructLit bool
}

func (p *parser) init(fset *token.FileSet, filename string, src []byte) {
	p.file = fset.AddFile(filename, -1, len(src))
	p.lx.Init(p.file, src, p.errors.Add)
	p.advance()
}

func (p *parser) advance() {
	p.tok, p.val = p.lx.Scan()
	for p.tok == token.COMMENT {
		p.tok, p.val = p.lx.Scan()
	}
}

func (p *parser) pos() token.Pos { return p.val.Pos }

func (p *parser) errorf(pos token.Pos, format string, args ...any) {
	p.errors.Add(p.file.Position(pos), fmt.Sprintf(format, args...))
}

// expect consumes the current token if it matches tok, recording an error
// and leaving the token stream unconsumed otherwise, so callers can keep
// parsing on a best-effort basis and accumulate more than one error per
// module before reporting, mirroring token.ErrorList's sort-once-at-the-end
// model.
func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.pos()
	if p.tok != tok {
		p.errorf(pos, "expected %s, found %s", tok, p.tok)
		return pos
	}
	p.advance()
	return pos
}

func (p *parser) accept(tok token.Token) (token.Pos, bool) {
	if p.tok != tok {
		return token.NoPos, false
	}
	pos := p.pos()
	p.advance()
	return pos, true
}

func (p *parser) parseIdent() *ast.Ident {
	pos, name := p.pos(), p.val.Raw
	if p.tok != token.IDENT {
		p.errorf(pos, "expected identifier, found %s", p.tok)
		p.advance()
		return &ast.Ident{Start: pos, Name: "_error_"}
	}
	p.advance()
	return &ast.Ident{Start: pos, Name: name}
}

// syncToItem skips tokens until one that plausibly starts a new item, used
// for error recovery after a malformed item so one mistake doesn't cascade
// into spurious follow-on errors for the rest of the module.
func (p *parser) syncToItem() {
	for {
		switch p.tok {
		case token.EOF, token.USE, token.MOD, token.CONST, token.TYPE,
			token.STRUCT, token.ENUM, token.FN, token.IMPL, token.PUB, token.CONTRACT:
			return
		}
		p.advance()
	}
}
