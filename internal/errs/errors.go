// Package errs is the error vocabulary shared by the drivers, the dialect
// registry, the generator and the output stores. Each layer converts its
// native failures into *Error so callers branch on a Kind instead of on
// pgx, go-sql-driver or minio error types:
//
//	md, err := d.Introspect(ctx, db, opts)
//	if errs.IsPermissionDenied(err) {
//		// the role cannot read pg_catalog
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind is the coarse category of a failure.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no row, no object
	ErrKindConnectionFailed         // backend unreachable or rejected the session
	ErrKindTimeout                  // deadline exceeded or cancelled
	ErrKindQueryFailed              // a catalog query or storage call failed
	ErrKindInvalidInput             // unknown dialect, malformed URL, bad flag
	ErrKindPermissionDenied         // authentication or authorization failure
	ErrKindInternal                 // the generator broke its own invariant
)

var kindNames = [...]string{
	ErrKindUnknown:          "unknown",
	ErrKindNotFound:         "not_found",
	ErrKindConnectionFailed: "connection_failed",
	ErrKindTimeout:          "timeout",
	ErrKindQueryFailed:      "query_failed",
	ErrKindInvalidInput:     "invalid_input",
	ErrKindPermissionDenied: "permission_denied",
	ErrKindInternal:         "internal",
}

func (k ErrKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[ErrKindUnknown]
	}
	return kindNames[k]
}

// Error carries a Kind, a human message and the native cause, if any.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error
}

// Error renders "[kind] message: cause".
func (e *Error) Error() string {
	msg := "[" + e.Kind.String() + "] " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind ErrKind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap attaches kind and msg to cause. errors.Is and errors.As still see
// cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or
// ErrKindUnknown.
func KindOf(err error) ErrKind {
	var e *Error
	if !errors.As(err, &e) {
		return ErrKindUnknown
	}
	return e.Kind
}

func IsNotFound(err error) bool         { return KindOf(err) == ErrKindNotFound }
func IsTimeout(err error) bool          { return KindOf(err) == ErrKindTimeout }
func IsConnectionFailed(err error) bool { return KindOf(err) == ErrKindConnectionFailed }
func IsQueryFailed(err error) bool      { return KindOf(err) == ErrKindQueryFailed }
func IsInvalidInput(err error) bool     { return KindOf(err) == ErrKindInvalidInput }
func IsPermissionDenied(err error) bool { return KindOf(err) == ErrKindPermissionDenied }
func IsInternal(err error) bool         { return KindOf(err) == ErrKindInternal }
