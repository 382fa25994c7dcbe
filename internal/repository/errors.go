package repository

import (
	"errors"

	"github.com/apiarycd/reposync/internal/remoteerr"
)

var (
	ErrNotFound          = errors.New("repository not found")
	ErrNotInited         = errors.New("repository not initialized")
	ErrFetchInProgress   = errors.New("fetch already in progress")
	ErrEmptyFetchRequest = errors.New("fetch request selects nothing")
	ErrClosed            = errors.New("repository closed")
	ErrEmptyBranchName   = errors.New("branch name is empty")
	ErrInvalidPath       = errors.New("invalid repository path")
)

type coded interface {
	ErrorCode() string
}

// ErrorCode extracts the backend error code carried by err. Errors
// without one map to the unknown code.
func ErrorCode(err error) remoteerr.Code {
	if err == nil {
		return ""
	}

	var c coded
	if errors.As(err, &c) && c.ErrorCode() != "" {
		return remoteerr.Code(c.ErrorCode())
	}

	return remoteerr.CodeUnknown
}
