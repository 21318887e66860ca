package lexer

import "github.com/zinc-lang/zinc/lang/token"

// comment implements spec.md §4.1's comment sub-parser: "//" line comments
// terminate at a newline or EOF; "/* ... */" block comments do not nest and
// require a terminating "*/", reporting the opening location if missing.
func (l *Lexer) comment(pos token.Pos, start int) (token.Token, Value) {
	l.advance() // consume the first '/'
	if l.cur == '/' {
		l.advance()
		for l.cur != '\n' && l.cur != -1 {
			l.advance()
		}
		return token.COMMENT, Value{Raw: string(l.src[start:l.off]), Pos: pos}
	}

	// block comment
	openPos := pos
	l.advance() // consume '*'
	for {
		if l.cur == -1 {
			l.errorRange(openPos, l.off, "unterminated block comment")
			break
		}
		if l.cur == '*' && l.peekByte() == '/' {
			l.advance()
			l.advance()
			break
		}
		l.advance()
	}
	return token.COMMENT, Value{Raw: string(l.src[start:l.off]), Pos: pos}
}
