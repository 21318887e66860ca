package ast

import "github.com/zinc-lang/zinc/lang/token"

type (
	// Literal is an integer, boolean, or string literal.
	Literal struct {
		TokPos token.Pos
		Tok    token.Token
		Raw    string // integer/string text as written, including any radix prefix
		Str    string // decoded string value, only meaningful when Tok == STRING
	}

	// PathExpr is a possibly-qualified, possibly-generic reference used in
	// value position, e.g. foo, Self::new, std::crypto::sha256.
	PathExpr struct {
		Segments []*Ident
		Colons   []token.Pos
		Generics []TypeExpr
		Lt, Gt   token.Pos
	}

	// TupleExpr is "(e0, e1, ...)"; len(Elems)==1 requires a trailing comma
	// in the concrete syntax to distinguish it from a parenthesized
	// expression, a distinction the parser enforces, not this node.
	TupleExpr struct {
		Lparen token.Pos
		Elems  []Expr
		Rparen token.Pos
	}

	// ArrayExpr is "[e0, e1, ...]" or the repeat form "[value; count]".
	ArrayExpr struct {
		Lbrack token.Pos
		Elems  []Expr
		Semi   token.Pos // valid only in repeat form
		Count  Expr      // non-nil only in repeat form
		Rbrack token.Pos
	}

	// StructFieldInit is one "name: value" or shorthand "name" entry of a
	// StructExpr literal.
	StructFieldInit struct {
		Name  *Ident
		Colon token.Pos // invalid in shorthand form
		Value Expr      // nil in shorthand form, where Name doubles as the value
	}

	// StructExpr is "Path { field: value, ... }".
	StructExpr struct {
		Path   *PathExpr
		Lbrace token.Pos
		Fields []*StructFieldInit
		Rbrace token.Pos
	}

	// FieldExpr is "recv.name", a named field access.
	FieldExpr struct {
		Recv  Expr
		Dot   token.Pos
		Name  *Ident
	}

	// TupleIndexExpr is "recv.0", a positional tuple/field access.
	TupleIndexExpr struct {
		Recv  Expr
		Dot   token.Pos
		Index int
		IdxPos token.Pos
	}

	// IndexExpr is "recv[index]", an array/map element access.
	IndexExpr struct {
		Recv   Expr
		Lbrack token.Pos
		Index  Expr
		Rbrack token.Pos
	}

	// CallExpr is "callee(args...)". Method calls of the form
	// "recv.name(args...)" parse as CallExpr{Callee: &FieldExpr{...}}.
	CallExpr struct {
		Callee Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// UnaryExpr is a prefix operator: "-", "!", "~", "&" (reference-of, used
	// only in call-site sugar for method receivers; spec.md has no
	// first-class references, so the parser rejects it outside that
	// position).
	UnaryExpr struct {
		OpPos token.Pos
		Op    token.Token
		X     Expr
	}

	// BinaryExpr is an infix operator expression built by the
	// precedence-climbing parser, including the short-circuiting
	// "&&"/"||" and the non-short-circuiting bitwise/logical "&"/"|"/"^^".
	BinaryExpr struct {
		X     Expr
		OpPos token.Pos
		Op    token.Token
		Y     Expr
	}

	// AssignExpr is "lhs = rhs" or a compound assignment like "lhs += rhs".
	// Zinc treats assignment as an expression of type unit, matching
	// spec.md §4.4.
	AssignExpr struct {
		Lhs   Expr
		OpPos token.Pos
		Op    token.Token // EQ or one of the *EQ compound operators
		Rhs   Expr
	}

	// CastExpr is "value as Type".
	CastExpr struct {
		X     Expr
		AsPos token.Pos
		Type  TypeExpr
	}

	// ParenExpr is a single parenthesized expression (not a 1-tuple).
	ParenExpr struct {
		Lparen token.Pos
		X      Expr
		Rparen token.Pos
	}

	// BlockExpr lifts a Block into expression position.
	BlockExpr struct {
		*Block
	}

	// IfExpr is "if cond { ... } else if cond { ... } else { ... }"; Else is
	// nil if there is no else clause, and may itself be an *IfExpr wrapped
	// in a BlockExpr-less chain to represent "else if".
	IfExpr struct {
		IfPos token.Pos
		Cond  Expr
		Then  *Block
		Else  Expr // nil, or *BlockExpr, or *IfExpr
	}

	// MatchArm is one "pattern => expr" or "pattern => { block }" arm.
	MatchArm struct {
		Pattern Pattern
		Arrow   token.Pos
		Body    Expr
	}

	// MatchExpr is "match scrutinee { arm, arm, ... }".
	MatchExpr struct {
		MatchPos   token.Pos
		Scrutinee  Expr
		Lbrace     token.Pos
		Arms       []*MatchArm
		Rbrace     token.Pos
	}

	// ReturnExpr is "return" or "return value", ending the enclosing
	// function with an optional value.
	ReturnExpr struct {
		ReturnPos token.Pos
		Value     Expr // nil for a bare "return"
	}

	// RangeExpr is "lo..hi" or the inclusive "lo..=hi"; either bound may be
	// omitted in the concrete grammar only where the parser's caller (a for
	// loop) supplies one.
	RangeExpr struct {
		Lo        Expr
		OpPos     token.Pos
		Inclusive bool
		Hi        Expr
	}
)

func (e *Literal) Span() (start, end token.Pos) { return e.TokPos, e.TokPos + token.Pos(len(e.Raw)) }
func (e *Literal) Walk(v Visitor)               {}
func (e *Literal) expr()                        {}

func (e *PathExpr) Span() (start, end token.Pos) {
	start, _ = e.Segments[0].Span()
	last := e.Segments[len(e.Segments)-1]
	end = last.Start + token.Pos(len(last.Name))
	if e.Generics != nil {
		end = e.Gt + 1
	}
	return start, end
}
func (e *PathExpr) Walk(v Visitor) {
	for _, s := range e.Segments {
		Walk(v, s)
	}
	for _, g := range e.Generics {
		Walk(v, g)
	}
}
func (e *PathExpr) expr() {}

func (e *TupleExpr) Span() (start, end token.Pos) { return e.Lparen, e.Rparen + 1 }
func (e *TupleExpr) Walk(v Visitor) {
	for _, el := range e.Elems {
		Walk(v, el)
	}
}
func (e *TupleExpr) expr() {}

func (e *ArrayExpr) Span() (start, end token.Pos) { return e.Lbrack, e.Rbrack + 1 }
func (e *ArrayExpr) Walk(v Visitor) {
	for _, el := range e.Elems {
		Walk(v, el)
	}
	if e.Count != nil {
		Walk(v, e.Count)
	}
}
func (e *ArrayExpr) expr() {}

func (f *StructFieldInit) Span() (start, end token.Pos) {
	start, end = f.Name.Span()
	if f.Value != nil {
		_, end = f.Value.Span()
	}
	return start, end
}
func (f *StructFieldInit) Walk(v Visitor) {
	Walk(v, f.Name)
	if f.Value != nil {
		Walk(v, f.Value)
	}
}

func (e *StructExpr) Span() (start, end token.Pos) {
	start, _ = e.Path.Span()
	return start, e.Rbrace + 1
}
func (e *StructExpr) Walk(v Visitor) {
	Walk(v, e.Path)
	for _, f := range e.Fields {
		Walk(v, f)
	}
}
func (e *StructExpr) expr() {}

func (e *FieldExpr) Span() (start, end token.Pos) {
	start, _ = e.Recv.Span()
	_, end = e.Name.Span()
	return start, end
}
func (e *FieldExpr) Walk(v Visitor) { Walk(v, e.Recv); Walk(v, e.Name) }
func (e *FieldExpr) expr()          {}

func (e *TupleIndexExpr) Span() (start, end token.Pos) {
	start, _ = e.Recv.Span()
	return start, e.IdxPos + 1
}
func (e *TupleIndexExpr) Walk(v Visitor) { Walk(v, e.Recv) }
func (e *TupleIndexExpr) expr()          {}

func (e *IndexExpr) Span() (start, end token.Pos) {
	start, _ = e.Recv.Span()
	return start, e.Rbrack + 1
}
func (e *IndexExpr) Walk(v Visitor) { Walk(v, e.Recv); Walk(v, e.Index) }
func (e *IndexExpr) expr()          {}

func (e *CallExpr) Span() (start, end token.Pos) {
	start, _ = e.Callee.Span()
	return start, e.Rparen + 1
}
func (e *CallExpr) Walk(v Visitor) {
	Walk(v, e.Callee)
	for _, a := range e.Args {
		Walk(v, a)
	}
}
func (e *CallExpr) expr() {}

func (e *UnaryExpr) Span() (start, end token.Pos) {
	_, end = e.X.Span()
	return e.OpPos, end
}
func (e *UnaryExpr) Walk(v Visitor) { Walk(v, e.X) }
func (e *UnaryExpr) expr()          {}

func (e *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = e.X.Span()
	_, end = e.Y.Span()
	return start, end
}
func (e *BinaryExpr) Walk(v Visitor) { Walk(v, e.X); Walk(v, e.Y) }
func (e *BinaryExpr) expr()          {}

func (e *AssignExpr) Span() (start, end token.Pos) {
	start, _ = e.Lhs.Span()
	_, end = e.Rhs.Span()
	return start, end
}
func (e *AssignExpr) Walk(v Visitor) { Walk(v, e.Lhs); Walk(v, e.Rhs) }
func (e *AssignExpr) expr()          {}

func (e *CastExpr) Span() (start, end token.Pos) {
	start, _ = e.X.Span()
	_, end = e.Type.Span()
	return start, end
}
func (e *CastExpr) Walk(v Visitor) { Walk(v, e.X); Walk(v, e.Type) }
func (e *CastExpr) expr()          {}

func (e *ParenExpr) Span() (start, end token.Pos) { return e.Lparen, e.Rparen + 1 }
func (e *ParenExpr) Walk(v Visitor)               { Walk(v, e.X) }
func (e *ParenExpr) expr()                        {}

func (e *BlockExpr) expr() {}

func (e *IfExpr) Span() (start, end token.Pos) {
	_, end = e.Then.Span()
	if e.Else != nil {
		_, end = e.Else.Span()
	}
	return e.IfPos, end
}
func (e *IfExpr) Walk(v Visitor) {
	Walk(v, e.Cond)
	Walk(v, e.Then)
	if e.Else != nil {
		Walk(v, e.Else)
	}
}
func (e *IfExpr) expr() {}

func (a *MatchArm) Span() (start, end token.Pos) {
	start, _ = a.Pattern.Span()
	_, end = a.Body.Span()
	return start, end
}
func (a *MatchArm) Walk(v Visitor) { Walk(v, a.Pattern); Walk(v, a.Body) }

func (e *MatchExpr) Span() (start, end token.Pos) { return e.MatchPos, e.Rbrace + 1 }
func (e *MatchExpr) Walk(v Visitor) {
	Walk(v, e.Scrutinee)
	for _, a := range e.Arms {
		Walk(v, a)
	}
}
func (e *MatchExpr) expr() {}

func (e *ReturnExpr) Span() (start, end token.Pos) {
	end = e.ReturnPos + 6
	if e.Value != nil {
		_, end = e.Value.Span()
	}
	return e.ReturnPos, end
}
func (e *ReturnExpr) Walk(v Visitor) {
	if e.Value != nil {
		Walk(v, e.Value)
	}
}
func (e *ReturnExpr) expr() {}

func (e *RangeExpr) Span() (start, end token.Pos) {
	start, end = e.OpPos, e.OpPos+2
	if e.Lo != nil {
		start, _ = e.Lo.Span()
	}
	if e.Hi != nil {
		_, end = e.Hi.Span()
	}
	return start, end
}
func (e *RangeExpr) Walk(v Visitor) {
	if e.Lo != nil {
		Walk(v, e.Lo)
	}
	if e.Hi != nil {
		Walk(v, e.Hi)
	}
}
func (e *RangeExpr) expr() {}
