package vm

import (
	"fmt"

	"github.com/zinc-lang/zinc/lang/constraint/debugbackend"
)

// RuntimeError is the common shape of every spec.md §4.5/§7 VM runtime
// error: "require failure and UnsatisfiedConstraint are both fatal;
// Overflow and DivisionByZero are fatal; out-of-bounds is fatal" — there is
// no recovery path once Execute returns one of these, matching the
// teacher's machine package propagating a plain error up through run().
type RuntimeError struct {
	Kind    string
	Message string
}

func (e *RuntimeError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func errf(kind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// panicToRuntimeError converts a recovered panic value into the same
// RuntimeError shape every other fatal VM error already has, so a caller
// never sees a raw Go panic regardless of which backend raised it.
func panicToRuntimeError(r any) *RuntimeError {
	if uce, ok := r.(*debugbackend.UnsatisfiedConstraintError); ok {
		return errf(KindUnsatisfiedConstraint, "%s", uce.Reason)
	}
	if e, ok := r.(error); ok {
		return errf(KindUnsatisfiedConstraint, "%s", e.Error())
	}
	return errf(KindUnsatisfiedConstraint, "%v", r)
}

// Error kinds, spec.md §4.5's error list.
const (
	KindUnsatisfiedConstraint = "UnsatisfiedConstraint"
	KindRequireFailed         = "RequireFailed"
	KindDivisionByZero        = "DivisionByZero"
	KindOverflow              = "Overflow"
	KindIndexOutOfBounds      = "IndexOutOfBounds"
	KindWitnessArrayIndex     = "WitnessArrayIndex"
	KindExpectedUsize         = "ExpectedUsize"
	KindTypeSize              = "TypeSize"
	KindInvalidStorageValue   = "InvalidStorageValue"
	KindOnlyForContracts      = "OnlyForContracts"
	KindThreadCancelled       = "ThreadCancelled"
	KindUnknownLibraryCall    = "UnknownLibraryCall"
)
