package lexer

import (
	"strconv"
	"strings"

	"github.com/zinc-lang/zinc/lang/token"
)

// word consumes a maximal identifier-character run and classifies it,
// following spec.md §4.1's word sub-parser:
//   - exactly "_" is the underscore token;
//   - "true"/"false" become the TRUE/FALSE keyword tokens, with Value.Bool
//     set;
//   - any other keyword becomes its keyword token;
//   - otherwise it is a plain identifier. The integer-type spellings
//     u1..u248 / i1..i248 are not keywords here: they stay identifiers and
//     lang/semantic resolves them as built-in type names.
func (l *Lexer) word(pos token.Pos, start int) (token.Token, Value) {
	for isLetter(l.cur) || isDigit(l.cur) {
		l.advance()
	}
	lit := string(l.src[start:l.off])

	if lit == "_" {
		return token.UNDERSCORE, Value{Raw: lit, Pos: pos}
	}

	if lit == "true" {
		return token.TRUE, Value{Raw: lit, Pos: pos, Bool: true}
	}
	if lit == "false" {
		return token.FALSE, Value{Raw: lit, Pos: pos, Bool: false}
	}

	if tok := token.LookupKeyword(lit); tok != token.IDENT {
		return tok, Value{Raw: lit, Pos: pos}
	}

	return token.IDENT, Value{Raw: lit, Pos: pos}
}

// lookupIntegerTypeKeyword recognizes exactly the spellings u1..u248 and
// i1..i248, reporting ok for them with token.IDENT (there is no dedicated
// integer-type token); spec.md pins the valid bit-width range to [1, 248]
// inclusive for both signedness. word does not call it.
func lookupIntegerTypeKeyword(lit string) (token.Token, bool) {
	if len(lit) < 2 {
		return 0, false
	}
	var signed bool
	switch lit[0] {
	case 'u':
		signed = false
	case 'i':
		signed = true
	default:
		return 0, false
	}
	digits := lit[1:]
	if digits == "" || (digits[0] == '0' && len(digits) > 1) {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 248 {
		return 0, false
	}
	_ = signed
	return token.IDENT, true // classification only; the actual IntegerType(width, signed) is built by the parser/semantic layer from Raw, not from a dedicated Token constant.
}

// IntegerTypeName parses an identifier of the form u<N> or i<N> (N in
// [1,248]) into its bit width and signedness. It is exported so the parser
// can re-use the exact same recognition rule when building a type reference
// out of an IDENT it already consumed.
func IntegerTypeName(name string) (width int, signed, ok bool) {
	if len(name) < 2 {
		return 0, false, false
	}
	switch name[0] {
	case 'u':
		signed = false
	case 'i':
		signed = true
	default:
		return 0, false, false
	}
	digits := name[1:]
	if digits == "" || !strings.ContainsAny(digits[:1], "123456789") {
		return 0, false, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 248 {
		return 0, false, false
	}
	return n, signed, true
}
