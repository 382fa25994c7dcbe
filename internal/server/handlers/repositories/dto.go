package repositories

import (
	"time"

	"github.com/google/uuid"
)

// OpenRequest represents the request payload for opening a repository.
type OpenRequest struct {
	Path string `json:"path" validate:"required,min=1,max=4096"`
}

// FetchRequest represents the request payload for starting a fetch.
type FetchRequest struct {
	Nodes bool `json:"nodes"`
	Tags  bool `json:"tags"`
}

// BranchRequest represents the request payload for creating a branch.
type BranchRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type RemoteResponse struct {
	Name string   `json:"name"`
	URLs []string `json:"urls"`
}

type NodeResponse struct {
	Hash    string    `json:"hash"`
	Parents []string  `json:"parents"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	When    time.Time `json:"when"`
}

type TagResponse struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
}

type GraphResponse struct {
	Nodes        []NodeResponse `json:"nodes"`
	ActiveBranch string         `json:"active_branch"`
	HasRemotes   bool           `json:"has_remotes"`
	RemoteTags   []TagResponse  `json:"remote_tags"`
}

type FileResponse struct {
	Path     string `json:"path"`
	Staging  string `json:"staging"`
	Worktree string `json:"worktree"`
}

type StagingResponse struct {
	Files          []FileResponse `json:"files"`
	InRebase       bool           `json:"in_rebase"`
	InMerge        bool           `json:"in_merge"`
	CommitTitle    string         `json:"commit_title"`
	CommitBody     string         `json:"commit_body"`
	NewBranchName  string         `json:"new_branch_name,omitempty"`
	DiffGeneration uint64         `json:"diff_generation"`
}

type ReviewChangeResponse struct {
	ChangeID string `json:"change_id"`
	Commit   string `json:"commit"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
}

// RepositoryResponse represents the response payload for a repository.
type RepositoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Path string    `json:"path"`

	Status         string           `json:"status"`
	RemoteError    string           `json:"remote_error,omitempty"`
	Remotes        []RemoteResponse `json:"remotes"`
	WatcherReady   bool             `json:"watcher_ready"`
	HasAutoFetched bool             `json:"has_auto_fetched"`
	Fetching       bool             `json:"fetching"`
	Progress       string           `json:"progress"`

	ShowFetchButton bool `json:"show_fetch_button"`
	ShowLog         bool `json:"show_log"`

	Graph   GraphResponse          `json:"graph"`
	Staging StagingResponse        `json:"staging"`
	Review  []ReviewChangeResponse `json:"review,omitempty"`
}

// FetchRecordResponse represents one entry of the fetch history.
type FetchRecordResponse struct {
	ID uuid.UUID `json:"id"`

	Nodes bool `json:"nodes"`
	Tags  bool `json:"tags"`

	Outcome   string `json:"outcome"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message,omitempty"`
	TagCount  int    `json:"tag_count"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}
