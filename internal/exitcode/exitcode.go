// Package exitcode maps command errors to process exit statuses.
package exitcode

import "errors"

const (
	OK      = 0
	Failure = 1
	Usage   = 2
)

type Coder interface {
	error
	ExitCode() int
}

// Get returns the status for err: OK for nil, the code carried by a Coder
// anywhere in the chain, and Failure for everything else.
func Get(err error) int {
	if err == nil {
		return OK
	}

	if coder := Coder(nil); errors.As(err, &coder) {
		return coder.ExitCode()
	}

	return Failure
}

// Set attaches a status to err. A nil error stays nil.
func Set(err error, code int) error {
	if err == nil {
		return nil
	}
	return coder{err, code}
}

// UsageError is an error for a command line that cannot be run as given.
func UsageError(text string) error {
	return coder{errors.New(text), Usage}
}

var _ Coder = coder{}

type coder struct {
	error
	code int
}

func (co coder) ExitCode() int {
	return co.code
}

func (co coder) Unwrap() error {
	return co.error
}
