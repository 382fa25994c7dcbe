// Package remoteerr classifies backend error codes reported by remote
// network operations.
package remoteerr

import "fmt"

// Code is a backend error code as reported in a failed query.
type Code string

const (
	CodeRemoteTimeout             Code = "remote-timeout"
	CodePermissionDeniedPublicKey Code = "permission-denied-publickey"
	CodeNoSupportedAuthentication Code = "no-supported-authentication-provided"
	CodeOffline                   Code = "offline"
	CodeProxyAuthRequired         Code = "proxy-authentication-required"
	CodeNoRemoteConfigured        Code = "no-remote-configured"
	CodeSSHBadFileNumber          Code = "ssh-bad-file-number"
)

// Codes outside the remote table.
const (
	CodeNotARepository         Code = "not-a-repository"
	CodeAuthenticationRequired Code = "authentication-required"
	CodeBranchExists           Code = "branch-exists"
	CodeInvalidBranchName      Code = "invalid-branch-name"
	CodeUnknown                Code = "unknown"
)

var remoteMessages = map[Code]string{
	CodeRemoteTimeout:             "repository remote timed out",
	CodePermissionDeniedPublicKey: "permission denied (publickey)",
	CodeNoSupportedAuthentication: "no supported authentication methods available; try starting an ssh agent",
	CodeOffline:                   "could not reach remote repository, are you offline?",
	CodeProxyAuthRequired:         "proxy requires authentication",
	CodeNoRemoteConfigured:        "no remote to list refs from",
	CodeSSHBadFileNumber:          "bad file number — the remote port is likely unreachable",
}

// Classify returns the user-facing category for a remote error code.
// The second return value is false for codes outside the table.
func Classify(code Code) (string, bool) {
	msg, ok := remoteMessages[code]
	return msg, ok
}

// IsRemote reports whether code is a transient, remote-side failure.
func IsRemote(code Code) bool {
	_, ok := remoteMessages[code]
	return ok
}

// Message returns the popup text for code, falling back to an
// unclassified message for codes outside the table.
func Message(code Code) string {
	if msg, ok := remoteMessages[code]; ok {
		return msg
	}
	if code == "" {
		code = CodeUnknown
	}
	return fmt.Sprintf("unclassified error: %s", code)
}

// RemoteCodes lists every code classified as remote.
func RemoteCodes() []Code {
	codes := make([]Code, 0, len(remoteMessages))
	for code := range remoteMessages {
		codes = append(codes, code)
	}
	return codes
}
