package errors

import (
	stderrors "errors"

	"graphdb/internal/edge"
	"graphdb/internal/modify"
	"graphdb/internal/object"
	"graphdb/internal/query"
	"graphdb/internal/rpn"
)

// Classify maps a package-level sentinel error from the engine's
// internal packages onto its §7 Kind, for commands that need to turn
// a Go error into a wire error code. Unknown errors classify as
// KindRuntime, the catch-all for unexpected failures.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindRuntime
	case stderrors.Is(err, object.ErrNotFound), stderrors.Is(err, edge.ErrNotFound):
		return KindNotFound
	case stderrors.Is(err, object.ErrAlreadyExists):
		return KindAlreadyExists
	case stderrors.Is(err, object.ErrTypeMismatch), stderrors.Is(err, rpn.ErrTypeMismatch):
		return KindTypeMismatch
	case stderrors.Is(err, object.ErrInvalidArgument), stderrors.Is(err, query.ErrNegativeOffsetWithoutOrder),
		stderrors.Is(err, modify.ErrUnknownTypeCode):
		return KindArgument
	case stderrors.Is(err, edge.ErrSingleFieldFull), stderrors.Is(err, edge.ErrUnknownField),
		stderrors.Is(err, edge.ErrReverseMismatch), stderrors.Is(err, modify.ErrFieldTypeMismatch):
		return KindTypeMismatch
	case stderrors.Is(err, rpn.ErrUnsupportedOperator), stderrors.Is(err, rpn.ErrUnknownField):
		return KindCompilation
	case stderrors.Is(err, rpn.ErrStackUnderflow), stderrors.Is(err, rpn.ErrUndefinedRegister),
		stderrors.Is(err, rpn.ErrArithmeticDomain), stderrors.Is(err, rpn.ErrNoHierarchy),
		stderrors.Is(err, rpn.ErrTrailingOperands):
		return KindRuntime
	case stderrors.Is(err, query.ErrAggregateFieldNotNumeric):
		return KindRuntime
	default:
		var de *DomainError
		if stderrors.As(err, &de) {
			return de.Kind
		}
		return KindRuntime
	}
}
