package repository

import (
	"context"
	"time"

	"github.com/apiarycd/reposync/internal/fetches"
	"github.com/apiarycd/reposync/internal/progress"
	"github.com/google/uuid"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusInited  Status = "inited"
)

// FileStatus is one working tree entry.
type FileStatus struct {
	Path     string
	Staging  string
	Worktree string
}

// WorkingTree is the payload of a status query.
type WorkingTree struct {
	Files         []FileStatus
	InRebase      bool
	InMerge       bool
	CommitMessage string
}

// Node is one commit of the history graph.
type Node struct {
	Hash    string
	Parents []string
	Message string
	Author  string
	When    time.Time
}

type Remote struct {
	Name string
	URLs []string
}

type Tag struct {
	Name string
	Hash string
}

// FetchRequest selects the sub-operations of a fetch. Both may run
// concurrently.
type FetchRequest struct {
	Nodes bool
	Tags  bool
}

// FetchOutcome is the settled result of one fetch call.
type FetchOutcome struct {
	ID           uuid.UUID
	Request      FetchRequest
	NodesFetched bool
	Tags         []Tag  // Forwarded tags, set only on full success
	ErrorCode    string // Code of the surfaced error
	Message      string // Popup message of the surfaced error
	Err          error
	StartedAt    time.Time
	CompletedAt  time.Time
}

func (o *FetchOutcome) Failed() bool {
	return o.Err != nil
}

// Backend is the git plumbing a resource talks to.
type Backend interface {
	Status(ctx context.Context, path string) (*WorkingTree, error)
	Log(ctx context.Context, path string, limit int) ([]Node, error)
	CurrentBranch(ctx context.Context, path string) (string, error)
	Remotes(ctx context.Context, path string) ([]Remote, error)
	FetchNodes(ctx context.Context, path string) error
	FetchTags(ctx context.Context, path string) ([]Tag, error)
	CreateBranch(ctx context.Context, path, name string) error
}

// Watcher registers a file-system watch on a path. onReady fires once
// the watch is active; the returned function removes it.
type Watcher interface {
	Watch(root string, onChange, onReady func()) (func(), error)
}

// FetchRecorder persists finalized fetches.
type FetchRecorder interface {
	Record(ctx context.Context, draft fetches.RecordDraft) (*fetches.Record, error)
}

// View is a point-in-time copy of a resource.
//
// HasAutoFetched is set once remotes first appear, even when the
// automatic fetch was skipped because another fetch was running.
type View struct {
	ID               uuid.UUID
	Path             string
	Status           Status
	RemoteErrorPopup string
	Remotes          []Remote
	RemotesLoaded    bool
	WatcherReady     bool
	HasAutoFetched   bool
	Fetching         bool
	Progress         progress.State

	Graph   GraphView
	Staging StagingView
	Review  []ReviewChange

	ShowFetchButton bool
	ShowLog         bool
}

type GraphView struct {
	Nodes        []Node
	ActiveBranch string
	HasRemotes   bool
	RemoteTags   []Tag
}

type StagingView struct {
	Files          []FileStatus
	InRebase       bool
	InMerge        bool
	CommitTitle    string
	CommitBody     string
	NewBranchName  string
	DiffGeneration uint64
}

type ReviewChange struct {
	ChangeID string
	Commit   string
	Title    string
	URL      string
}
