package commands

import (
	"fmt"
	"strconv"

	"github.com/cerealdex/cerealdex/cerealdex"
)

// ExitError carries a process exit code through cobra
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// UsageError marks err as a command-line mistake (exit code 2)
func UsageError(err error) error {
	return &ExitError{Code: 2, Err: err}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, UsageError(fmt.Errorf("id must be an integer, got %q", s))
	}
	return id, nil
}

// notFound reports a missing row as exit code 3
func notFound(err error) error {
	if cerealdex.IsKind(err, cerealdex.ErrNotFound) {
		return &ExitError{Code: 3, Err: err}
	}
	return err
}
