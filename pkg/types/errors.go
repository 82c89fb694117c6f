// Package types holds the error taxonomy and registry value types shared by
// the store, repository and install packages.
package types

import (
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindUnknown         ErrKind = iota
	ErrKindNotFound                // missing key/value/path
	ErrKindAccessDenied            // insufficient permissions for the requested access
	ErrKindUnsupported             // no implementation on this platform
	ErrKindTypeMismatch            // stored value kind differs from the requested decode
	ErrKindBufferTooSmall          // caller buffer cannot hold the result (no regrow)
	ErrKindInvalidArgument         // malformed input, e.g. a path without its terminator
	ErrKindExternalProcess         // installer process failed, could not launch, or was signaled
	ErrKindCorrupt                 // structural corruption in an offline hive
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not found"
	case ErrKindAccessDenied:
		return "access denied"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindTypeMismatch:
		return "type mismatch"
	case ErrKindBufferTooSmall:
		return "buffer too small"
	case ErrKindInvalidArgument:
		return "invalid argument"
	case ErrKindExternalProcess:
		return "external process failure"
	case ErrKindCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Op   string // operation, e.g. "RegOpenKeyEx" or "enum"
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound        = &Error{Kind: ErrKindNotFound}
	ErrAccessDenied    = &Error{Kind: ErrKindAccessDenied}
	ErrUnsupported     = &Error{Kind: ErrKindUnsupported, Msg: "not supported on this platform"}
	ErrTypeMismatch    = &Error{Kind: ErrKindTypeMismatch, Msg: "registry value has different type"}
	ErrBufferTooSmall  = &Error{Kind: ErrKindBufferTooSmall}
	ErrInvalidArgument = &Error{Kind: ErrKindInvalidArgument}
	ErrExternalProcess = &Error{Kind: ErrKindExternalProcess}
	ErrCorrupt         = &Error{Kind: ErrKindCorrupt, Msg: "corrupt hive structure"}
)

// Errorf builds an *Error of the given kind.
func Errorf(kind ErrKind, op string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
