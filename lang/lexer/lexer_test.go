package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zinc-lang/zinc/lang/lexer"
	"github.com/zinc-lang/zinc/lang/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := token.NewFileSet()
	f := fs.AddFile("test.zn", -1, len(src))

	var errs token.ErrorList
	var lx lexer.Lexer
	lx.Init(f, []byte(src), errs.Add)

	var toks []token.Token
	for {
		tok, _ := lx.Scan()
		if tok == token.COMMENT {
			continue
		}
		toks = append(toks, tok)
		if tok == token.EOF {
			break
		}
	}
	require.NoError(t, errs.Err())
	return toks
}

func TestScanKeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "let mut x: u8 = 1;")
	require.Equal(t, []token.Token{
		token.LET, token.MUT, token.IDENT, token.COLON, token.IDENT,
		token.EQ, token.INT_DECIMAL, token.SEMI, token.EOF,
	}, toks)
}

func TestScanCompoundOperators(t *testing.T) {
	toks := scanAll(t, "a += b && c == d..=e")
	require.Equal(t, []token.Token{
		token.IDENT, token.PLUSEQ, token.IDENT, token.AMPAMP, token.IDENT,
		token.EQEQ, token.IDENT, token.DOTDOTEQ, token.IDENT, token.EOF,
	}, toks)
}

func TestScanNumberLiterals(t *testing.T) {
	toks := scanAll(t, "0b1010 0o17 0xFF 42 3.14e10")
	require.Equal(t, []token.Token{
		token.INT_BINARY, token.INT_OCTAL, token.INT_HEXADECIMAL,
		token.INT_DECIMAL, token.INT_DECIMAL, token.EOF,
	}, toks)
}

func TestScanStringLiteral(t *testing.T) {
	fs := token.NewFileSet()
	src := `"hello\nworld"`
	f := fs.AddFile("test.zn", -1, len(src))

	var errs token.ErrorList
	var lx lexer.Lexer
	lx.Init(f, []byte(src), errs.Add)

	tok, val := lx.Scan()
	require.Equal(t, token.STRING, tok)
	require.Equal(t, "hello\nworld", val.Str)
	require.NoError(t, errs.Err())
}

func TestScanIllegalCharacter(t *testing.T) {
	fs := token.NewFileSet()
	src := "let x = `"
	f := fs.AddFile("test.zn", -1, len(src))

	var errs token.ErrorList
	var lx lexer.Lexer
	lx.Init(f, []byte(src), errs.Add)

	for {
		tok, _ := lx.Scan()
		if tok == token.EOF {
			break
		}
	}
	require.Error(t, errs.Err())
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := token.NewFileSet()
	src := "a b c"
	f := fs.AddFile("test.zn", -1, len(src))

	var errs token.ErrorList
	var lx lexer.Lexer
	lx.Init(f, []byte(src), errs.Add)

	tok, _ := lx.Peek(1)
	require.Equal(t, token.IDENT, tok) // "b"

	first, _ := lx.Scan()
	require.Equal(t, token.IDENT, first) // "a", unaffected by the peek
	second, _ := lx.Scan()
	require.Equal(t, token.IDENT, second) // "b"
}
