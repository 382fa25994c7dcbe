// Package events carries lifecycle and credential-prompt notifications
// between repository resources and the collaborators around them.
package events

const wildcard = "*"

const (
	TypeCredentialsRequested = "credentials.requested"
	TypeCredentialsProvided  = "credentials.provided"
	TypeRepositoryOpened     = "repository.opened"
	TypeRepositoryInited     = "repository.inited"
	TypeRepositoryClosed     = "repository.closed"
	TypeWatcherReady         = "repository.watcher_ready"
	TypeProgressChanged      = "repository.progress_changed"
	TypeFetchCompleted       = "repository.fetch_completed"
)

type Event interface {
	EventType() string
}

// CredentialsRequested is published when a remote operation is blocked on
// user credentials.
type CredentialsRequested struct {
	PromptID string
	Path     string
	URL      string
}

func (CredentialsRequested) EventType() string { return TypeCredentialsRequested }

// CredentialsProvided is published once the user answered a prompt.
type CredentialsProvided struct {
	PromptID string
	Path     string
}

func (CredentialsProvided) EventType() string { return TypeCredentialsProvided }

type RepositoryOpened struct {
	ID   string
	Path string
}

func (RepositoryOpened) EventType() string { return TypeRepositoryOpened }

type RepositoryInited struct {
	ID   string
	Path string
}

func (RepositoryInited) EventType() string { return TypeRepositoryInited }

type RepositoryClosed struct {
	ID   string
	Path string
}

func (RepositoryClosed) EventType() string { return TypeRepositoryClosed }

type WatcherReady struct {
	ID   string
	Path string
}

func (WatcherReady) EventType() string { return TypeWatcherReady }

type ProgressChanged struct {
	Name  string
	State string
}

func (ProgressChanged) EventType() string { return TypeProgressChanged }

// FetchCompleted reports a finalized fetch. ErrorCode is empty on success.
type FetchCompleted struct {
	ID        string
	Path      string
	ErrorCode string
	Message   string
	TagCount  int
}

func (FetchCompleted) EventType() string { return TypeFetchCompleted }
