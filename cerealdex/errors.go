package cerealdex

import (
	"errors"
	"fmt"

	"github.com/cerealdex/cerealdex/cerealdex/filter"
)

type ErrorKind string

const (
	ErrIO              ErrorKind = "io"
	ErrSQL             ErrorKind = "sql"
	ErrNotFound        ErrorKind = "not_found"
	ErrInvalidInput    ErrorKind = "invalid_input"
	ErrUnauthorized    ErrorKind = "unauthorized"
	ErrUnsupportedFile ErrorKind = "unsupported_file"

	// Engine kinds, reported by *filter.Error
	ErrUnknownColumn   = ErrorKind(filter.ErrUnknownColumn)
	ErrInvalidValue    = ErrorKind(filter.ErrInvalidValue)
	ErrInfeasible      = ErrorKind(filter.ErrInfeasible)
	ErrUnknownOperator = ErrorKind(filter.ErrUnknownOperator)
)

type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Field != "" {
		base = fmt.Sprintf("%s (field=%s)", base, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func NotFoundError(what string, id int64) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s not found: %d", what, id)}
}

func InvalidInputError(field, msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Field: field, Message: msg}
}

func UnsupportedFileError(name string) *Error {
	return &Error{Kind: ErrUnsupportedFile, Message: fmt.Sprintf("file type not allowed: %s", name)}
}

// KindOf returns the kind of the first *Error or *filter.Error in err's chain
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	var fe *filter.Error
	if errors.As(err, &fe) {
		return ErrorKind(fe.Kind), true
	}
	return "", false
}

// IsKind matches store errors and engine errors alike
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) && e.Kind == kind {
		return true
	}
	return filter.IsKind(err, filter.ErrorKind(kind))
}
