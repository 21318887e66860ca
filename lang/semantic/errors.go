package semantic

import (
	"fmt"

	"github.com/zinc-lang/zinc/lang/token"
)

// Error is a single semantic diagnostic (spec.md §4.3's error list and §7's
// "structured values, not strings"). Kind names one of spec.md's semantic
// error variants; Hint is the optional closest-name suggestion that the
// analyzer's fuzzy-matching suggest helper attaches, rendered by Error as
// "(hint: name)".
type Error struct {
	Kind     string
	Pos      token.Position
	OtherPos token.Position // zero value unless this is a two-location report
	Message  string
	Hint     string
}

func (e *Error) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s: %s (hint: %s)", e.Pos, e.Kind, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

// ErrorList accumulates every Error raised during one analysis pass.
// Analysis continues past an error, so the list can hold several entries;
// Error reports the first of them.
type ErrorList []*Error

func (l ErrorList) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	return l[0].Error()
}

// Spec §4.3 error-kind constants, named exactly as the specification lists
// them so a reader can grep spec.md and lang/semantic for the same string.
const (
	KindEntryPointMissing                      = "EntryPointMissing"
	KindUndeclaredItem                         = "UndeclaredItem"
	KindRedeclaredItem                         = "RedeclaredItem"
	KindMutatingImmutable                      = "MutatingImmutable"
	KindAssignmentInvalidType                  = "AssignmentInvalidType"
	KindConditionalExpectedBooleanCondition    = "ConditionalExpectedBooleanCondition"
	KindConditionalBranchTypesMismatch         = "ConditionalBranchTypesMismatch"
	KindLoopBoundsExpectedConstantRangeExpr    = "LoopBoundsExpectedConstantRangeExpression"
	KindLoopWhileExpectedBooleanCondition      = "LoopWhileExpectedBooleanCondition"
	KindImplExpectedStructureOrEnumeration     = "ImplStatementExpectedStructureOrEnumeration"
	KindModuleNotFound                         = "ModuleNotFound"
	KindUseExpectedPath                        = "UseExpectedPath"
	KindTypeAliasExpectedType                  = "TypeAliasExpectedType"
	KindTypeInstantiationForbidden             = "TypeInstantiationForbidden"
	KindTypeUnexpectedGenerics                 = "TypeUnexpectedGenerics"
	KindFunctionArgumentCount                  = "FunctionArgumentCount"
	KindFunctionArgumentType                   = "FunctionArgumentType"
	KindFunctionArgumentConstantness           = "FunctionArgumentConstantness"
	KindFunctionArgumentNotEvaluable           = "FunctionArgumentNotEvaluable"
	KindFunctionReturnType                     = "FunctionReturnType"
	KindFunctionNonCallable                    = "FunctionNonCallable"
	KindFunctionDebugArgumentCount             = "FunctionDebugArgumentCount"
	KindExpressionNonConstantElement           = "ExpressionNonConstantElement"
	KindReferenceLoop                          = "ReferenceLoop"
	KindOnlyForContracts                       = "OnlyForContracts"
	// KindBinaryOperandTypeMismatch covers spec.md §4.4's "integer binary
	// operators require matching signedness and bit-width (no implicit
	// promotion); comparison with different types is a type error."
	KindBinaryOperandTypeMismatch = "BinaryOperandTypeMismatch"
)
