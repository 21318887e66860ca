package lexer

import (
	"strings"

	"github.com/zinc-lang/zinc/lang/token"
)

// string implements spec.md §4.1's string sub-parser: double-quoted,
// backslash escapes the next character (including a literal newline).
// strings are compile-time only (spec.md §4.3) and so carry just their
// decoded text; they never reach the generator.
func (l *Lexer) string(pos token.Pos, start int) (token.Token, Value) {
	openPos := pos
	l.advance() // consume opening '"'

	var sb strings.Builder
	for {
		if l.cur == -1 {
			l.errorRange(openPos, l.off, "unterminated double-quote string")
			break
		}
		if l.cur == '"' {
			l.advance()
			break
		}
		if l.cur == '\\' {
			l.advance()
			if l.cur == -1 {
				l.errorRange(openPos, l.off, "unterminated double-quote string")
				break
			}
			sb.WriteRune(escapeRune(l.cur))
			l.advance()
			continue
		}
		sb.WriteRune(l.cur)
		l.advance()
	}

	raw := string(l.src[start:l.off])
	return token.STRING, Value{Raw: raw, Pos: pos, Str: sb.String()}
}

func escapeRune(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return r
	}
}

func (l *Lexer) errorRange(start token.Pos, endOff int, msg string) {
	startPos := l.file.Position(start)
	endPos := l.file.Position(l.file.Pos(endOff))
	if l.err != nil {
		l.err(startPos, msg+" (opened at "+startPos.String()+", reached end at "+endPos.String()+")")
	}
}
