package shop

import (
	"errors"
	"strings"
)

// ErrMalformedToken is returned for buy_/pay_ tokens whose id suffix is not a positive integer.
var ErrMalformedToken = errors.New("shop: malformed action token")

// ErrorKind classifies failures reported to the user.
type ErrorKind string

const (
	KindPermissionDenied ErrorKind = "permission_denied"
	KindValidation       ErrorKind = "validation_failure"
	KindNotFound         ErrorKind = "not_found"
	KindStorage          ErrorKind = "storage_failure"
)

// Error is a classified workflow failure.
type Error struct {
	Kind ErrorKind
	// Op is the route that failed, e.g. "add_product".
	Op string
	// Field names the rejected input for validation failures.
	Field string
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if e.Field != "" {
		b.WriteString(" (")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Code is picked up by the router summary log as err_code.
func (e *Error) Code() string { return strings.ToUpper(string(e.Kind)) }

// KindOf returns the ErrorKind carried by err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

func denied(op string) *Error {
	return &Error{Kind: KindPermissionDenied, Op: op}
}

func notFound(op string, err error) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

func storageFailure(op string, err error) *Error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

func invalid(op, field string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Field: field, Err: err}
}
