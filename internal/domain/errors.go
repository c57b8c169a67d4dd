package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies ledger failures.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "not_found"
	KindUnauthorized         ErrorKind = "unauthorized"
	KindValidation           ErrorKind = "validation"
	KindInsufficientFunds    ErrorKind = "insufficient_funds"
	KindDepositLimitExceeded ErrorKind = "deposit_limit_exceeded"
	KindAlreadyPaid          ErrorKind = "already_paid"
)

// Error is the single error type returned by ledger operations.
// Callers switch on Kind; Message is human readable.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports a match when target is an *Error of the same kind, so the
// sentinels below work with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrUnauthorized         = &Error{Kind: KindUnauthorized}
	ErrValidation           = &Error{Kind: KindValidation}
	ErrInsufficientFunds    = &Error{Kind: KindInsufficientFunds}
	ErrDepositLimitExceeded = &Error{Kind: KindDepositLimitExceeded}
	ErrAlreadyPaid          = &Error{Kind: KindAlreadyPaid}
)

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, format, args...)
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func InsufficientFunds(format string, args ...any) *Error {
	return newError(KindInsufficientFunds, format, args...)
}

func DepositLimitExceeded(format string, args ...any) *Error {
	return newError(KindDepositLimitExceeded, format, args...)
}

func AlreadyPaid(format string, args ...any) *Error {
	return newError(KindAlreadyPaid, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// err is not a ledger error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return ""
}
