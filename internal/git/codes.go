package git

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/apiarycd/reposync/internal/remoteerr"
	"github.com/go-git/go-git/v6"
)

// CodeFor maps a go-git or transport failure onto a backend error code.
// Known sentinels are checked first, then the error text.
func CodeFor(err error) remoteerr.Code {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, git.ErrRepositoryNotExists):
		return remoteerr.CodeNotARepository
	case errors.Is(err, ErrNoRemote), errors.Is(err, git.ErrRemoteNotFound):
		return remoteerr.CodeNoRemoteConfigured
	case errors.Is(err, ErrBranchExists):
		return remoteerr.CodeBranchExists
	case errors.Is(err, ErrInvalidBranchName):
		return remoteerr.CodeInvalidBranchName
	case errors.Is(err, context.DeadlineExceeded):
		return remoteerr.CodeRemoteTimeout
	case errors.Is(err, fs.ErrPermission):
		// local file system, never the remote
		return remoteerr.CodeUnknown
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "bad file number"):
		return remoteerr.CodeSSHBadFileNumber
	case containsAny(msg, "attempted methods [none]", "ssh_auth_sock", "error creating ssh agent"):
		return remoteerr.CodeNoSupportedAuthentication
	case strings.Contains(msg, "publickey"):
		return remoteerr.CodePermissionDeniedPublicKey
	case strings.Contains(msg, "no supported methods remain"):
		return remoteerr.CodeNoSupportedAuthentication
	case strings.Contains(msg, "proxy authentication required"):
		return remoteerr.CodeProxyAuthRequired
	case containsAny(msg, "authentication required", "authorization failed"):
		return remoteerr.CodeAuthenticationRequired
	case containsAny(msg, "timed out", "timeout", "deadline exceeded"):
		return remoteerr.CodeRemoteTimeout
	case containsAny(msg, "no such host", "could not resolve host", "network is unreachable",
		"connection refused", "no route to host", "temporary failure in name resolution"):
		return remoteerr.CodeOffline
	case containsAny(msg, "remote not found", "no remote"):
		return remoteerr.CodeNoRemoteConfigured
	case strings.Contains(msg, "repository does not exist"):
		return remoteerr.CodeNotARepository
	default:
		return remoteerr.CodeUnknown
	}
}

func containsAny(msg string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
