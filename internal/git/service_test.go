package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apiarycd/reposync/internal/remoteerr"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"go.uber.org/zap/zaptest"
)

// initRepo creates a repository with a single commit and returns its path.
func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()

	repoPath := filepath.Join(t.TempDir(), "repo")
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		t.Fatal(err)
	}

	repo, err := git.PlainInit(repoPath, false)
	if err != nil {
		t.Fatal(err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(repoPath, "test.txt"), []byte("test content"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := worktree.Add("test.txt"); err != nil {
		t.Fatal(err)
	}

	_, err = worktree.Commit("initial commit\n\nChange-Id: I0123456789abcdef", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	return repoPath, repo
}

func newTestService(t *testing.T) *Service {
	return NewService(Config{}, nil, zaptest.NewLogger(t))
}

func assertCode(t *testing.T, err error, want remoteerr.Code) {
	t.Helper()

	var gitErr *Error
	if !errors.As(err, &gitErr) {
		t.Fatalf("expected *Error, got %T (%v)", err, err)
	}
	if gitErr.Code != want {
		t.Errorf("expected code %q, got %q", want, gitErr.Code)
	}
	if gitErr.ErrorCode() != string(want) {
		t.Errorf("ErrorCode() = %q", gitErr.ErrorCode())
	}
}

func TestService_Status(t *testing.T) {
	repoPath, _ := initRepo(t)
	service := newTestService(t)

	if err := os.WriteFile(filepath.Join(repoPath, "new.txt"), []byte("new"), 0644); err != nil {
		t.Fatal(err)
	}

	status, err := service.Status(context.Background(), repoPath)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	if status.InMerge || status.InRebase {
		t.Errorf("unexpected merge/rebase state: %+v", status)
	}

	if len(status.Files) != 1 {
		t.Fatalf("expected 1 changed file, got %+v", status.Files)
	}
	if status.Files[0].Path != "new.txt" || status.Files[0].Worktree != "?" {
		t.Errorf("unexpected file status %+v", status.Files[0])
	}
}

func TestService_StatusInMerge(t *testing.T) {
	repoPath, _ := initRepo(t)
	service := newTestService(t)

	gitDir := filepath.Join(repoPath, ".git")
	if err := os.WriteFile(filepath.Join(gitDir, "MERGE_HEAD"), []byte("0000000000000000000000000000000000000000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "MERGE_MSG"), []byte("Merge X\n\nConflict notes\n"), 0644); err != nil {
		t.Fatal(err)
	}

	status, err := service.Status(context.Background(), repoPath)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	if !status.InMerge {
		t.Error("expected merge in progress")
	}
	if status.CommitMessage != "Merge X\n\nConflict notes" {
		t.Errorf("unexpected commit message %q", status.CommitMessage)
	}
}

func TestService_NotARepository(t *testing.T) {
	service := newTestService(t)
	dir := t.TempDir()

	_, err := service.Status(context.Background(), dir)
	assertCode(t, err, remoteerr.CodeNotARepository)

	_, err = service.CurrentBranch(context.Background(), dir)
	assertCode(t, err, remoteerr.CodeNotARepository)

	_, err = service.Remotes(context.Background(), dir)
	assertCode(t, err, remoteerr.CodeNotARepository)
}

func TestService_Log(t *testing.T) {
	repoPath, _ := initRepo(t)
	service := newTestService(t)

	commits, err := service.Log(context.Background(), repoPath, 10)
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	if len(commits) != 1 {
		t.Fatalf("expected 1 commit, got %d", len(commits))
	}
	if commits[0].AuthorName != "Test Author" {
		t.Errorf("unexpected author %q", commits[0].AuthorName)
	}
	if len(commits[0].Parents) != 0 {
		t.Errorf("expected root commit, got parents %v", commits[0].Parents)
	}
}

func TestService_CurrentBranch(t *testing.T) {
	repoPath, repo := initRepo(t)
	service := newTestService(t)

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	err = worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("feature"),
		Create: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	branch, err := service.CurrentBranch(context.Background(), repoPath)
	if err != nil {
		t.Fatalf("CurrentBranch failed: %v", err)
	}
	if branch != "feature" {
		t.Errorf("expected 'feature', got %q", branch)
	}
}

func TestService_Remotes(t *testing.T) {
	repoPath, repo := initRepo(t)
	service := newTestService(t)

	remotes, err := service.Remotes(context.Background(), repoPath)
	if err != nil {
		t.Fatalf("Remotes failed: %v", err)
	}
	if len(remotes) != 0 {
		t.Fatalf("expected no remotes, got %+v", remotes)
	}

	for _, name := range []string{"upstream", "origin"} {
		_, err = repo.CreateRemote(&config.RemoteConfig{
			Name: name,
			URLs: []string{"https://example.com/" + name + ".git"},
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	remotes, err = service.Remotes(context.Background(), repoPath)
	if err != nil {
		t.Fatalf("Remotes failed: %v", err)
	}
	if len(remotes) != 2 || remotes[0].Name != "origin" || remotes[1].Name != "upstream" {
		t.Errorf("unexpected remotes %+v", remotes)
	}
	if remotes[0].URLs[0] != "https://example.com/origin.git" {
		t.Errorf("unexpected url %q", remotes[0].URLs[0])
	}
}

func TestService_FetchWithoutRemote(t *testing.T) {
	repoPath, _ := initRepo(t)
	service := newTestService(t)

	err := service.FetchNodes(context.Background(), repoPath)
	assertCode(t, err, remoteerr.CodeNoRemoteConfigured)

	_, err = service.FetchTags(context.Background(), repoPath)
	assertCode(t, err, remoteerr.CodeNoRemoteConfigured)

	if !remoteerr.IsRemote(CodeFor(err)) {
		t.Error("missing remote should be classified as remote")
	}
}

func TestService_CreateBranch(t *testing.T) {
	repoPath, repo := initRepo(t)
	service := newTestService(t)

	if err := service.CreateBranch(context.Background(), repoPath, "feature-branch"); err != nil {
		t.Fatalf("CreateBranch failed: %v", err)
	}

	ref, err := repo.Reference(plumbing.NewBranchReferenceName("feature-branch"), false)
	if err != nil {
		t.Fatalf("branch not found: %v", err)
	}

	head, err := repo.Head()
	if err != nil {
		t.Fatal(err)
	}
	if ref.Hash() != head.Hash() {
		t.Errorf("expected branch at %s, got %s", head.Hash(), ref.Hash())
	}

	err = service.CreateBranch(context.Background(), repoPath, "feature-branch")
	assertCode(t, err, remoteerr.CodeBranchExists)

	err = service.CreateBranch(context.Background(), repoPath, "bad name")
	assertCode(t, err, remoteerr.CodeInvalidBranchName)
}
