// =============================================================================
// Address Book Utility - Error Kinds
// =============================================================================
//
// Every failure the utility can report belongs to exactly one Kind. All of
// them are terminal for the invocation: nothing is retried and nothing is
// written after an error.
//
// USAGE:
//   return errors.New(errors.KindMalformedInput, "invalid XML", err)
//
//   if errors.Is(err, errors.ErrAmbiguousRoot) { ... }
//
// =============================================================================

package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind categorizes errors.
type Kind string

const (
	KindInputUnavailable    Kind = "input unavailable"
	KindUnsupportedMimeType Kind = "unsupported mime type"
	KindMalformedInput      Kind = "malformed input"
	KindEmptyInput          Kind = "empty input"
	KindAmbiguousRoot       Kind = "ambiguous root"
	KindValidation          Kind = "validation"
	KindOutputNotWritable   Kind = "output not writable"
	KindUsage               Kind = "usage"
)

// Sentinels for errors.Is comparisons. Any *AppError of the same Kind
// matches its sentinel.
var (
	ErrInputUnavailable    = &AppError{Kind: KindInputUnavailable}
	ErrUnsupportedMimeType = &AppError{Kind: KindUnsupportedMimeType}
	ErrMalformedInput      = &AppError{Kind: KindMalformedInput}
	ErrEmptyInput          = &AppError{Kind: KindEmptyInput}
	ErrAmbiguousRoot       = &AppError{Kind: KindAmbiguousRoot}
	ErrValidation          = &AppError{Kind: KindValidation}
	ErrOutputNotWritable   = &AppError{Kind: KindOutputNotWritable}
	ErrUsage               = &AppError{Kind: KindUsage}
)

// AppError is an application error with a kind and optional cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError with the same Kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an AppError.
func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// Newf creates an AppError with a formatted message and no cause.
func Newf(kind Kind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is forwards to the standard library so callers need a single import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As forwards to the standard library so callers need a single import.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// KindOf returns the Kind of the first AppError in err's chain, or "" when
// there is none. Errors of other types that match a sentinel through their
// own Is method report that sentinel's Kind.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	for _, sentinel := range sentinels {
		if stderrors.Is(err, sentinel) {
			return sentinel.Kind
		}
	}
	return ""
}

var sentinels = []*AppError{
	ErrInputUnavailable, ErrUnsupportedMimeType, ErrMalformedInput, ErrEmptyInput,
	ErrAmbiguousRoot, ErrValidation, ErrOutputNotWritable, ErrUsage,
}
