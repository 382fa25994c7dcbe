package git

import (
	"errors"

	"github.com/apiarycd/reposync/internal/remoteerr"
)

var (
	ErrNoRemote          = errors.New("no remote configured")
	ErrBranchExists      = errors.New("branch already exists")
	ErrInvalidBranchName = errors.New("invalid branch name")
)

// Error is a failed backend query. Code is consumed by the remote error
// classifier.
type Error struct {
	Code remoteerr.Code
	Op   string
	Err  error
}

func newError(op string, err error) *Error {
	return &Error{Code: CodeFor(err), Op: op, Err: err}
}

func (e *Error) Error() string {
	return e.Op + ": " + string(e.Code) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode returns the backend error code.
func (e *Error) ErrorCode() string { return string(e.Code) }
