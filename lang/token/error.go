package token

import (
	"fmt"
	"sort"
	"strings"
)

// Error is a single diagnostic anchored at a source Position, with an
// optional second Position for "expected here / found there" and
// unterminated-token reports (spec.md §7). It implements the error
// interface so it composes with the rest of Go's error handling.
type Error struct {
	Pos      Position
	Msg      string
	OtherPos Position // zero value if there is no secondary position
}

func (e Error) Error() string {
	if e.Pos.Filename != "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// ErrorList collects diagnostics across a single lexing/parsing/analysis
// pass. The teacher's lang/scanner aliases go/scanner.ErrorList for exactly
// this purpose; Zinc keeps its own copy so that errors can carry the extra
// OtherPos field spec.md §7 requires for two-location reports.
type ErrorList []*Error

// Add appends a new single-position error.
func (l *ErrorList) Add(pos Position, msg string) {
	*l = append(*l, &Error{Pos: pos, Msg: msg})
}

// AddRange appends a new two-position error (e.g. "opened here" /
// "unterminated here", or "first branch here" / "second branch here").
func (l *ErrorList) AddRange(pos, otherPos Position, msg string) {
	*l = append(*l, &Error{Pos: pos, Msg: msg, OtherPos: otherPos})
}

// Reset empties the list.
func (l *ErrorList) Reset() { *l = (*l)[:0] }

func (l ErrorList) Len() int      { return len(l) }
func (l ErrorList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l ErrorList) Less(i, j int) bool {
	a, b := l[i].Pos, l[j].Pos
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// Sort orders the list by position, which is required before rendering
// since each file's compilation aborts at its first error (spec.md §7) but
// errors from multiple files scanned together should still read in a
// deterministic, file-then-line order.
func (l ErrorList) Sort() { sort.Sort(l) }

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (and %d more errors)", l[0], len(l)-1)
	return sb.String()
}

// Unwrap exposes the individual errors so callers can use errors.Is/As or
// range over them with errors.Join-style unwrapping.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns nil if the list is empty, and the list itself (as an error)
// otherwise. The compiler pipeline treats compilation as failed as soon as
// this is non-nil.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
