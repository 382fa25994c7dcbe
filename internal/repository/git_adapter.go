package repository

import (
	"context"

	"github.com/apiarycd/reposync/internal/git"
	"github.com/samber/lo"
)

// gitAdapter adapts git.Service to the Backend interface.
type gitAdapter struct {
	gitSvc *git.Service
}

// NewGitAdapter creates a new git backend.
func NewGitAdapter(gitSvc *git.Service) Backend {
	return &gitAdapter{gitSvc: gitSvc}
}

func (a *gitAdapter) Status(ctx context.Context, path string) (*WorkingTree, error) {
	info, err := a.gitSvc.Status(ctx, path)
	if err != nil {
		return nil, err
	}

	return &WorkingTree{
		Files: lo.Map(info.Files, func(f git.FileStatus, _ int) FileStatus {
			return FileStatus{Path: f.Path, Staging: f.Staging, Worktree: f.Worktree}
		}),
		InRebase:      info.InRebase,
		InMerge:       info.InMerge,
		CommitMessage: info.CommitMessage,
	}, nil
}

func (a *gitAdapter) Log(ctx context.Context, path string, limit int) ([]Node, error) {
	commits, err := a.gitSvc.Log(ctx, path, limit)
	if err != nil {
		return nil, err
	}

	return lo.Map(commits, func(c git.Commit, _ int) Node {
		return Node{
			Hash:    c.Hash,
			Parents: c.Parents,
			Message: c.Message,
			Author:  c.AuthorName,
			When:    c.When,
		}
	}), nil
}

func (a *gitAdapter) CurrentBranch(ctx context.Context, path string) (string, error) {
	return a.gitSvc.CurrentBranch(ctx, path)
}

func (a *gitAdapter) Remotes(ctx context.Context, path string) ([]Remote, error) {
	remotes, err := a.gitSvc.Remotes(ctx, path)
	if err != nil {
		return nil, err
	}

	return lo.Map(remotes, func(r git.Remote, _ int) Remote {
		return Remote{Name: r.Name, URLs: r.URLs}
	}), nil
}

func (a *gitAdapter) FetchNodes(ctx context.Context, path string) error {
	return a.gitSvc.FetchNodes(ctx, path)
}

func (a *gitAdapter) FetchTags(ctx context.Context, path string) ([]Tag, error) {
	tags, err := a.gitSvc.FetchTags(ctx, path)
	if err != nil {
		return nil, err
	}

	return lo.Map(tags, func(t git.TagInfo, _ int) Tag {
		return Tag{Name: t.Name, Hash: t.Hash}
	}), nil
}

func (a *gitAdapter) CreateBranch(ctx context.Context, path, name string) error {
	return a.gitSvc.CreateBranch(ctx, path, name)
}
