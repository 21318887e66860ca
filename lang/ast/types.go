package ast

import "github.com/zinc-lang/zinc/lang/token"

// TypeExpr is implemented by every type-position syntax node (spec.md
// §4.2 "Types").
type TypeExpr interface {
	Node
	typeExpr()
}

type (
	// PathType is an identifier, possibly qualified with :: and carrying an
	// optional generic argument list, e.g. Self, u248, MTreeMap<u160, Balance>.
	PathType struct {
		Segments []*Ident
		Colons   []token.Pos // len(Segments)-1
		Generics []TypeExpr  // generic arguments, nil if none (distinct from empty <>)
		Lt, Gt   token.Pos   // valid only if Generics != nil
	}

	// TupleType is a parenthesized, comma-separated list of types,
	// including "()" for unit.
	TupleType struct {
		Lparen token.Pos
		Elems  []TypeExpr
		Rparen token.Pos
	}

	// ArrayType is "[T; N]" where N is a constant-expression.
	ArrayType struct {
		Lbrack token.Pos
		Elem   TypeExpr
		Semi   token.Pos
		Size   Expr
		Rbrack token.Pos
	}
)

func (t *PathType) Span() (start, end token.Pos) {
	start, _ = t.Segments[0].Span()
	last := t.Segments[len(t.Segments)-1]
	end = last.Start + token.Pos(len(last.Name))
	if t.Generics != nil {
		end = t.Gt + 1
	}
	return start, end
}
func (t *PathType) Walk(v Visitor) {
	for _, s := range t.Segments {
		Walk(v, s)
	}
	for _, g := range t.Generics {
		Walk(v, g)
	}
}
func (t *PathType) typeExpr() {}

func (t *TupleType) Span() (start, end token.Pos) { return t.Lparen, t.Rparen + 1 }
func (t *TupleType) Walk(v Visitor) {
	for _, e := range t.Elems {
		Walk(v, e)
	}
}
func (t *TupleType) typeExpr() {}

func (t *ArrayType) Span() (start, end token.Pos) { return t.Lbrack, t.Rbrack + 1 }
func (t *ArrayType) Walk(v Visitor) {
	Walk(v, t.Elem)
	Walk(v, t.Size)
}
func (t *ArrayType) typeExpr() {}

// Ident is a bare identifier, reused both as an expression (IdentExpr) and
// as a name-only node inside type paths, struct/enum field lists, etc.
type Ident struct {
	Start token.Pos
	Name  string
}

func (id *Ident) Span() (start, end token.Pos) { return id.Start, id.Start + token.Pos(len(id.Name)) }
func (id *Ident) Walk(v Visitor)                {}
func (id *Ident) expr()                         {}
