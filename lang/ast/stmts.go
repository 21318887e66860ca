package ast

import "github.com/zinc-lang/zinc/lang/token"

type (
	// LetStmt is "let [mut] name[: Type] = value;".
	LetStmt struct {
		LetPos token.Pos
		Mut    token.Pos // invalid if not mutable
		Name   *Ident
		Type   TypeExpr // nil if elided
		Eq     token.Pos
		Value  Expr
		Semi   token.Pos
	}

	// ForStmt is "for name in range { body }", with an optional "while cond"
	// modifier (spec.md §4.3 "Loops"): the body is still emitted for every
	// iteration of the range, but its side effects are additionally gated on
	// WhileCond when present.
	ForStmt struct {
		ForPos    token.Pos
		Name      *Ident
		InPos     token.Pos
		Iter      Expr
		WhilePos  token.Pos // invalid if there is no "while" modifier
		WhileCond Expr      // nil if there is no "while" modifier
		Body      *Block
	}

	// ExprStmt is an expression used for its side effect, terminated by
	// ";" unless it is the block's tail expression (represented instead by
	// Block.Tail, not an ExprStmt).
	ExprStmt struct {
		X    Expr
		Semi token.Pos
	}
)

func (s *LetStmt) Span() (start, end token.Pos) { return s.LetPos, s.Semi + 1 }
func (s *LetStmt) Walk(v Visitor) {
	Walk(v, s.Name)
	if s.Type != nil {
		Walk(v, s.Type)
	}
	Walk(v, s.Value)
}
func (s *LetStmt) stmt() {}

func (s *ForStmt) Span() (start, end token.Pos) {
	_, end = s.Body.Span()
	return s.ForPos, end
}
func (s *ForStmt) Walk(v Visitor) {
	Walk(v, s.Name)
	Walk(v, s.Iter)
	if s.WhileCond != nil {
		Walk(v, s.WhileCond)
	}
	Walk(v, s.Body)
}
func (s *ForStmt) stmt()          {}

func (s *ExprStmt) Span() (start, end token.Pos) {
	start, end = s.X.Span()
	if s.Semi.IsValid() {
		end = s.Semi + 1
	}
	return start, end
}
func (s *ExprStmt) Walk(v Visitor) { Walk(v, s.X) }
func (s *ExprStmt) stmt()          {}
