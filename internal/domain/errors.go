package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures surfaced to callers.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindToolUnavailable  ErrorKind = "tool_unavailable"
	KindIOFailure        ErrorKind = "io_failure"
	KindAmbiguousMatch   ErrorKind = "ambiguous_match"
	KindCommandFailed    ErrorKind = "command_failed"
	KindInvalidInput     ErrorKind = "invalid_input"
)

// Sentinels for errors.Is checks against *Error values.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrToolUnavailable  = &Error{Kind: KindToolUnavailable}
	ErrIOFailure        = &Error{Kind: KindIOFailure}
	ErrAmbiguousMatch   = &Error{Kind: KindAmbiguousMatch}
	ErrCommandFailed    = &Error{Kind: KindCommandFailed}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
)

// Error is the typed failure returned by every hostwarden operation.
// Detail carries raw tool diagnostics verbatim.
type Error struct {
	Kind   ErrorKind
	Op     string
	Detail string
	Err    error
}

// NewError builds an *Error.
func NewError(kind ErrorKind, op, detail string, err error) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(strings.ReplaceAll(string(e.Kind), "_", " "))
	if detail := strings.TrimSpace(e.Detail); detail != "" {
		fmt.Fprintf(&b, ": %s", detail)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// KindOf extracts the ErrorKind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
