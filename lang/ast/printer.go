package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/zinc-lang/zinc/lang/token"
)

// Printer pretty-prints an AST node's shape, one node per line, indented by
// nesting depth, in the style of the teacher's ast.Printer: a Visitor-driven
// walk that tracks depth itself rather than recursing by hand.
type Printer struct {
	// Output is the writer to print to.
	Output io.Writer
	// Fset resolves positions for printing; if nil, positions are omitted.
	Fset *token.FileSet
}

// Print walks n and prints one line per node.
func (p *Printer) Print(n Node) error {
	pp := &printer{w: p.Output, fset: p.Fset}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w     io.Writer
	fset  *token.FileSet
	depth int
	err   error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}
	p.depth++
	p.printNode(n, p.depth-1)
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}
	prefix := strings.Repeat(". ", indent)
	if p.fset == nil {
		_, p.err = fmt.Fprintf(p.w, "%s%T %s\n", prefix, n, describe(n))
		return
	}
	start, end := n.Span()
	_, p.err = fmt.Fprintf(p.w, "%s[%s:%s] %T %s\n",
		prefix, p.fset.Position(start), p.fset.Position(end), n, describe(n))
}

// describe returns a short inline summary for node kinds whose %T name
// alone is ambiguous (identifiers, literals, operators).
func describe(n Node) string {
	switch n := n.(type) {
	case *Ident:
		return n.Name
	case *Literal:
		return n.Raw
	case *BinaryExpr:
		return n.Op.String()
	case *UnaryExpr:
		return n.Op.String()
	case *AssignExpr:
		return n.Op.String()
	default:
		return ""
	}
}
