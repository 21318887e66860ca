// Package ast defines the syntax tree produced by lang/parser: immutable
// nodes carrying source locations (spec.md §3's "immutable AST nodes with
// locations"), closely modeled on the teacher's lang/ast package (same
// Node/Expr/Stmt contract and Visitor-based Walk), but shaped for Zinc's
// Rust-flavored grammar instead of a Starlark-like one.
package ast

import "github.com/zinc-lang/zinc/lang/token"

// Node is implemented by every syntax tree node.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)
	// Walk enters each child node to implement the Visitor pattern.
	Walk(v Visitor)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmt()
}

// Item is implemented by every module-level declaration (spec.md §4.2: use,
// mod, const, type, struct, enum, fn, impl).
type Item interface {
	Node
	item()
	// ItemName returns the declared name, used by the hoisting phase of
	// lang/semantic to insert an unresolved stub before any item is
	// resolved.
	ItemName() string
}

// Module is the root of a single parsed file: a sequence of module-level
// items. spec.md §4.2 forbids top-level expressions entirely, so unlike the
// teacher's Chunk (which wraps an executable Block), Module only ever holds
// Items.
type Module struct {
	Name  string // source filename
	Items []Item
	EOF   token.Pos
}

func (m *Module) Span() (start, end token.Pos) {
	if len(m.Items) == 0 {
		return m.EOF, m.EOF
	}
	start, _ = m.Items[0].Span()
	return start, m.EOF
}

func (m *Module) Walk(v Visitor) {
	for _, it := range m.Items {
		Walk(v, it)
	}
}

// Block is a brace-delimited sequence of statements, optionally ending in a
// tail expression whose value is the block's value (Rust-style), used for
// function bodies, if/else arms, match arms and loop bodies.
type Block struct {
	Lbrace token.Pos
	Stmts  []Stmt
	Tail   Expr // nil if the block has no tail expression
	Rbrace token.Pos
}

func (b *Block) Span() (start, end token.Pos) { return b.Lbrace, b.Rbrace }
func (b *Block) Walk(v Visitor) {
	for _, s := range b.Stmts {
		Walk(v, s)
	}
	if b.Tail != nil {
		Walk(v, b.Tail)
	}
}
