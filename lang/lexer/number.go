package lexer

import (
	"strings"

	"github.com/zinc-lang/zinc/lang/token"
)

// number implements spec.md §4.1's integer sub-parser: recognizes the
// 0b/0o/0x radix prefixes, otherwise falls back to decimal (which alone
// admits an optional .fraction and E exponent, preserved as raw text for
// the semantic analyzer to interpret — Zinc has no separate float type,
// only field/integer constants). Underscores are legal digit separators
// anywhere in the digit run and are stripped from Raw's decoded payload.
func (l *Lexer) number(pos token.Pos, start int) (token.Token, Value) {
	if l.cur == '0' {
		switch l.peekByte() {
		case 'b', 'B':
			l.advance()
			l.advance()
			return l.radixDigits(pos, start, token.INT_BINARY, isBinaryDigit)
		case 'o', 'O':
			l.advance()
			l.advance()
			return l.radixDigits(pos, start, token.INT_OCTAL, isOctalDigit)
		case 'x', 'X':
			l.advance()
			l.advance()
			return l.radixDigits(pos, start, token.INT_HEXADECIMAL, isHexDigit)
		}
	}
	return l.decimal(pos, start)
}

func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }
func isOctalDigit(r rune) bool  { return r >= '0' && r <= '7' }
func isHexDigit(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}
func isDecDigit(r rune) bool { return r >= '0' && r <= '9' }

func (l *Lexer) radixDigits(pos token.Pos, start int, tok token.Token, valid func(rune) bool) (token.Token, Value) {
	digitsStart := l.off
	for valid(l.cur) || l.cur == '_' {
		l.advance()
	}
	if l.off == digitsStart {
		l.error(l.off, "expected at least one digit in %s literal", tok)
		return token.ILLEGAL, Value{Raw: string(l.src[start:l.off]), Pos: pos}
	}
	// report (but keep scanning past) any character that looks numeric-ish
	// but is invalid for the chosen radix, e.g. '8' in an octal literal.
	if isLetter(l.cur) || isDecDigit(l.cur) {
		l.error(l.off, "invalid digit %q for %s literal", string(l.cur), tok)
		for isLetter(l.cur) || isDigit(l.cur) {
			l.advance()
		}
	}
	raw := string(l.src[start:l.off])
	digits := string(l.src[digitsStart:l.off])
	return tok, Value{Raw: raw, Pos: pos, Str: strings.ReplaceAll(digits, "_", "")}
}

func (l *Lexer) decimal(pos token.Pos, start int) (token.Token, Value) {
	for isDecDigit(l.cur) || l.cur == '_' {
		l.advance()
	}
	intPart := string(l.src[start:l.off])

	var frac, exp string
	if l.cur == '.' && isDecDigit(rune(l.peekByte())) {
		l.advance() // consume '.'
		fracStart := l.off
		for isDecDigit(l.cur) || l.cur == '_' {
			l.advance()
		}
		frac = strings.ReplaceAll(string(l.src[fracStart:l.off]), "_", "")
	}
	if l.cur == 'e' || l.cur == 'E' {
		expDigitsStartSearch := l.roff
		neg := false
		if expDigitsStartSearch < len(l.src) && (l.src[expDigitsStartSearch] == '+' || l.src[expDigitsStartSearch] == '-') {
			neg = l.src[expDigitsStartSearch] == '-'
			expDigitsStartSearch++
		}
		if expDigitsStartSearch < len(l.src) && isDecDigit(rune(l.src[expDigitsStartSearch])) {
			l.advance() // 'e'/'E'
			if l.cur == '+' || l.cur == '-' {
				l.advance()
			}
			expStart := l.off
			for isDecDigit(l.cur) || l.cur == '_' {
				l.advance()
			}
			exp = strings.ReplaceAll(string(l.src[expStart:l.off]), "_", "")
			if neg {
				exp = "-" + exp
			}
		}
	}

	raw := string(l.src[start:l.off])
	return token.INT_DECIMAL, Value{
		Raw:  raw,
		Pos:  pos,
		Str:  strings.ReplaceAll(intPart, "_", ""),
		Frac: frac,
		Exp:  exp,
	}
}
