package git

import (
	"context"
	"time"

	"github.com/apiarycd/reposync/internal/credentials"
)

// FileStatus is one entry of the working tree status.
type FileStatus struct {
	Path     string // Path relative to the repository root
	Staging  string // Index status code ("M", "A", "D", "?", ...)
	Worktree string // Working tree status code
}

// StatusInfo is the result of a status query.
type StatusInfo struct {
	Files         []FileStatus
	InRebase      bool
	InMerge       bool
	CommitMessage string // Pending merge message, empty unless InMerge
}

// Commit is a single history node.
type Commit struct {
	Hash        string
	Parents     []string
	Message     string
	AuthorName  string
	AuthorEmail string
	When        time.Time
}

// Remote is a configured remote.
type Remote struct {
	Name string
	URLs []string
}

// TagInfo is a tag advertised by a remote.
type TagInfo struct {
	Name string // Short tag name
	Hash string // Object the tag ref points to
}

// CredentialsPrompter asks the user for credentials for url.
type CredentialsPrompter interface {
	Request(ctx context.Context, path, url string) (credentials.Credential, error)
}
