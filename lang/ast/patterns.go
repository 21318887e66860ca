package ast

import "github.com/zinc-lang/zinc/lang/token"

// Pattern is implemented by every match-arm pattern node (spec.md §4.4
// "match"): literal, identifier-binding, path (unit enum variant or
// constant), and wildcard.
type Pattern interface {
	Node
	pattern()
}

type (
	// WildcardPattern is the catch-all "_" arm.
	WildcardPattern struct {
		Underscore token.Pos
	}

	// LiteralPattern matches a scrutinee equal to an integer or boolean
	// literal.
	LiteralPattern struct {
		Lit *Literal
	}

	// BindingPattern binds the scrutinee to a fresh local name, e.g. the
	// "x" arm of "match v { x => ... }".
	BindingPattern struct {
		Name *Ident
	}

	// PathPattern matches a unit enum variant or a named constant, e.g.
	// "Direction::Up" or "MAX".
	PathPattern struct {
		Path *PathExpr
	}

	// OrPattern matches if any of its alternatives match, e.g.
	// "0 | 1 | 2 => ...".
	OrPattern struct {
		Alts []Pattern
	}
)

func (p *WildcardPattern) Span() (start, end token.Pos) { return p.Underscore, p.Underscore + 1 }
func (p *WildcardPattern) Walk(v Visitor)               {}
func (p *WildcardPattern) pattern()                     {}

func (p *LiteralPattern) Span() (start, end token.Pos) { return p.Lit.Span() }
func (p *LiteralPattern) Walk(v Visitor)               { Walk(v, p.Lit) }
func (p *LiteralPattern) pattern()                     {}

func (p *BindingPattern) Span() (start, end token.Pos) { return p.Name.Span() }
func (p *BindingPattern) Walk(v Visitor)               { Walk(v, p.Name) }
func (p *BindingPattern) pattern()                     {}

func (p *PathPattern) Span() (start, end token.Pos) { return p.Path.Span() }
func (p *PathPattern) Walk(v Visitor)               { Walk(v, p.Path) }
func (p *PathPattern) pattern()                     {}

func (p *OrPattern) Span() (start, end token.Pos) {
	start, _ = p.Alts[0].Span()
	_, end = p.Alts[len(p.Alts)-1].Span()
	return start, end
}
func (p *OrPattern) Walk(v Visitor) {
	for _, a := range p.Alts {
		Walk(v, a)
	}
}
func (p *OrPattern) pattern() {}
