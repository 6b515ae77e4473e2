package filter

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrUnknownColumn   ErrorKind = "unknown_column"
	ErrInvalidValue    ErrorKind = "invalid_value"
	ErrInfeasible      ErrorKind = "infeasible_filter"
	ErrUnknownOperator ErrorKind = "unknown_operator"
)

// Error is returned by every fallible engine operation.
// Column and Value identify the triple that failed, when known.
type Error struct {
	Kind    ErrorKind
	Message string
	Column  string
	Value   string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Column != "" {
		base = fmt.Sprintf("%s (column=%s", base, e.Column)
		if e.Value != "" {
			base = fmt.Sprintf("%s value=%q", base, e.Value)
		}
		base += ")"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func UnknownColumnError(column string) *Error {
	return &Error{Kind: ErrUnknownColumn, Message: "unknown column", Column: column}
}

func InvalidValueError(column, raw, msg string, cause error) *Error {
	return &Error{Kind: ErrInvalidValue, Message: msg, Column: column, Value: raw, Cause: cause}
}

func InfeasibleFilterError(column string, op Operator, v Value) *Error {
	return &Error{
		Kind:    ErrInfeasible,
		Message: fmt.Sprintf("no value can satisfy %s %s together with the earlier filters", op, v),
		Column:  column,
		Value:   v.String(),
	}
}

func UnknownOperatorError(op string) *Error {
	return &Error{Kind: ErrUnknownOperator, Message: fmt.Sprintf("unknown operator %q", op)}
}

// IsKind reports whether err (or anything it wraps) is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
