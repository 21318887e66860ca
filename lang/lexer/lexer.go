// Package lexer turns Zinc source bytes into a stream of tokens with source
// locations (spec.md §4.1). It is a close adaptation of the teacher's
// lang/scanner package: a single master loop dispatching to one sub-parser
// per lexeme family (word, number, string, comment, symbol), sharing the
// same byte-offset/rune-advance bookkeeping, but tokenizing Zinc's
// Rust-flavored grammar instead of a Starlark-like one.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/zinc-lang/zinc/lang/token"
)

// Value carries everything the parser needs about one token besides its
// Token kind: the exact source text, its starting position, and (for
// literals) the decoded payload. This is spec.md §3's Lexeme, specialized
// per-variant via the optional fields.
type Value struct {
	Raw string     // exact source text of the lexeme
	Pos token.Pos  // starting position
	Str string      // decoded payload for STRING, or the literal's integer/decimal text for INT_*
	Exp string      // exponent text for decimal literals with an 'E' part, "" otherwise
	Frac string      // fractional-part text for decimal literals with a '.' part, "" otherwise
	Bool bool        // decoded value for TRUE/FALSE
}

// Lexer tokenizes a single source file for the parser to consume. It
// exposes a pull interface (Scan) plus a small lookahead buffer so the
// parser never needs to re-lex.
type Lexer struct {
	file *token.File
	src  []byte
	err  func(token.Position, string)

	cur  rune // current rune, -1 at EOF
	off  int  // byte offset of cur
	roff int  // byte offset just after cur

	// lookahead buffer of already-produced tokens, oldest first.
	buffered []bufTok
}

type bufTok struct {
	tok token.Token
	val Value
}

// Init (re)initializes the lexer to tokenize file, whose source is src.
// errHandler, if non-nil, is called for every lexical error encountered;
// Scan keeps making progress and returns token.ILLEGAL for the offending
// lexeme rather than aborting, so that later passes may accumulate multiple
// lexical errors in one sweep if they so choose (though spec.md §7 has the
// compiler abort a file's compilation at the first error it sees).
func (l *Lexer) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("lexer.Init: file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	l.file = file
	l.src = src
	l.err = errHandler
	l.off = 0
	l.roff = 0
	l.cur = ' '
	l.buffered = l.buffered[:0]
	l.advance()
}

func (l *Lexer) error(off int, format string, args ...any) {
	if l.err != nil {
		msg := format
		if len(args) > 0 {
			msg = fmt.Sprintf(format, args...)
		}
		l.err(l.file.Position(l.file.Pos(off)), msg)
	}
}

func (l *Lexer) advance() {
	if l.roff >= len(l.src) {
		l.off = len(l.src)
		if l.cur == '\n' {
			l.file.AddLine(l.off)
		}
		l.cur = -1
		return
	}
	l.off = l.roff
	if l.cur == '\n' {
		l.file.AddLine(l.off)
	}

	r, w := rune(l.src[l.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(l.src[l.roff:])
		if r == utf8.RuneError && w == 1 {
			l.error(l.off, "illegal UTF-8 encoding")
		}
	}
	l.roff += w
	l.cur = r
}

func (l *Lexer) peekByte() byte {
	if l.roff < len(l.src) {
		return l.src[l.roff]
	}
	return 0
}

func (l *Lexer) advanceIf(matches ...byte) bool {
	for _, m := range matches {
		if l.cur == rune(m) {
			l.advance()
			return true
		}
	}
	return false
}

func (l *Lexer) skipWhitespace() {
	for l.cur == ' ' || l.cur == '\t' || l.cur == '\n' || l.cur == '\r' {
		l.advance()
	}
}

func isLetter(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' ||
		r >= utf8.RuneSelf && unicode.IsLetter(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// Scan returns the next token, skipping whitespace. Comments are returned
// as token.COMMENT tokens; the parser discards them.
func (l *Lexer) Scan() (token.Token, Value) {
	if len(l.buffered) > 0 {
		bt := l.buffered[0]
		l.buffered = l.buffered[1:]
		return bt.tok, bt.val
	}
	return l.scanOne()
}

// Peek returns the n-th token ahead (0 = the next token to be returned by
// Scan) without consuming it, buffering as needed. This is the lookahead
// mechanism spec.md §4.1 calls for.
func (l *Lexer) Peek(n int) (token.Token, Value) {
	for len(l.buffered) <= n {
		tok, val := l.scanOne()
		l.buffered = append(l.buffered, bufTok{tok, val})
	}
	return l.buffered[n].tok, l.buffered[n].val
}

func (l *Lexer) scanOne() (token.Token, Value) {
	l.skipWhitespace()
	pos := l.file.Pos(l.off)
	start := l.off

	switch cur := l.cur; {
	case isLetter(cur):
		return l.word(pos, start)
	case isDigit(cur):
		return l.number(pos, start)
	case cur == '"':
		return l.string(pos, start)
	case cur == '/' && (l.peekByte() == '/' || l.peekByte() == '*'):
		return l.comment(pos, start)
	default:
		return l.symbol(pos, start)
	}
}
