package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/apiarycd/reposync/internal/remoteerr"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport"
	githttp "github.com/go-git/go-git/v6/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v6/plumbing/transport/ssh"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 2 * time.Minute
	defaultRemote  = "origin"
)

// Service answers repository queries using go-git.
type Service struct {
	config   Config
	prompter CredentialsPrompter

	logger *zap.Logger
}

// NewService creates a new Service. prompter may be nil, in which case
// remotes requiring interactive credentials fail.
func NewService(config Config, prompter CredentialsPrompter, logger *zap.Logger) *Service {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.DefaultRemote == "" {
		config.DefaultRemote = defaultRemote
	}

	return &Service{
		config:   config,
		prompter: prompter,
		logger:   logger,
	}
}

// Status returns the working tree status and the merge/rebase state.
func (s *Service) Status(_ context.Context, repoPath string) (*StatusInfo, error) {
	s.logger.Debug("getting status", zap.String("path", repoPath))

	repo, err := s.open(repoPath)
	if err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		s.logger.Error("failed to get worktree", zap.Error(err))
		return nil, newError("status", err)
	}

	status, err := worktree.Status()
	if err != nil {
		s.logger.Error("failed to get status", zap.Error(err))
		return nil, newError("status", err)
	}

	files := lo.MapToSlice(status, func(path string, fs *git.FileStatus) FileStatus {
		return FileStatus{
			Path:     path,
			Staging:  string(rune(fs.Staging)),
			Worktree: string(rune(fs.Worktree)),
		}
	})
	slices.SortFunc(files, func(a, b FileStatus) int { return strings.Compare(a.Path, b.Path) })

	gitDir := filepath.Join(repoPath, git.GitDirName)
	info := &StatusInfo{
		Files:    files,
		InRebase: exists(filepath.Join(gitDir, "rebase-merge")) || exists(filepath.Join(gitDir, "rebase-apply")),
		InMerge:  exists(filepath.Join(gitDir, "MERGE_HEAD")),
	}

	if info.InMerge {
		msg, readErr := os.ReadFile(filepath.Join(gitDir, "MERGE_MSG"))
		if readErr != nil && !errors.Is(readErr, os.ErrNotExist) {
			s.logger.Warn("failed to read merge message", zap.Error(readErr))
		}
		info.CommitMessage = strings.TrimRight(string(msg), "\n")
	}

	s.logger.Debug("status retrieved",
		zap.String("path", repoPath),
		zap.Int("files", len(info.Files)),
		zap.Bool("in_merge", info.InMerge),
		zap.Bool("in_rebase", info.InRebase))

	return info, nil
}

// Log returns up to limit commits reachable from any ref, newest first.
func (s *Service) Log(_ context.Context, repoPath string, limit int) ([]Commit, error) {
	s.logger.Debug("getting log", zap.String("path", repoPath), zap.Int("limit", limit))

	repo, err := s.open(repoPath)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Log(&git.LogOptions{All: true, Order: git.LogOrderCommitterTime})
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return []Commit{}, nil
	}
	if err != nil {
		s.logger.Error("failed to get log", zap.Error(err))
		return nil, newError("log", err)
	}
	defer iter.Close()

	commits := make([]Commit, 0, limit)
	for limit <= 0 || len(commits) < limit {
		commit, nextErr := iter.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			s.logger.Error("failed to iterate log", zap.Error(nextErr))
			return nil, newError("log", nextErr)
		}

		commits = append(commits, Commit{
			Hash:        commit.Hash.String(),
			Parents:     lo.Map(commit.ParentHashes, func(h plumbing.Hash, _ int) string { return h.String() }),
			Message:     commit.Message,
			AuthorName:  commit.Author.Name,
			AuthorEmail: commit.Author.Email,
			When:        commit.Author.When,
		})
	}

	return commits, nil
}

// CurrentBranch returns the checked out branch, or the abbreviated commit
// hash when HEAD is detached.
func (s *Service) CurrentBranch(_ context.Context, repoPath string) (string, error) {
	repo, err := s.open(repoPath)
	if err != nil {
		return "", err
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		s.logger.Error("failed to get HEAD", zap.Error(err))
		return "", newError("branch", err)
	}

	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}

	hash := head.Hash().String()
	return hash[:7], nil
}

// Remotes returns configured remotes ordered by name.
func (s *Service) Remotes(_ context.Context, repoPath string) ([]Remote, error) {
	repo, err := s.open(repoPath)
	if err != nil {
		return nil, err
	}

	remotes, err := repo.Remotes()
	if err != nil {
		s.logger.Error("failed to list remotes", zap.Error(err))
		return nil, newError("remotes", err)
	}

	result := lo.Map(remotes, func(r *git.Remote, _ int) Remote {
		cfg := r.Config()
		return Remote{Name: cfg.Name, URLs: slices.Clone(cfg.URLs)}
	})
	slices.SortFunc(result, func(a, b Remote) int { return strings.Compare(a.Name, b.Name) })

	return result, nil
}

// FetchNodes fetches new history from every configured remote.
func (s *Service) FetchNodes(ctx context.Context, repoPath string) error {
	s.logger.Info("fetching repository", zap.String("path", repoPath))

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	repo, err := s.open(repoPath)
	if err != nil {
		return err
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return newError("fetch", err)
	}
	if len(remotes) == 0 {
		return newError("fetch", ErrNoRemote)
	}

	for _, remote := range remotes {
		name := remote.Config().Name
		err := s.withAuth(ctx, repoPath, firstURL(remote), func(auth transport.AuthMethod) error {
			return repo.FetchContext(ctx, &git.FetchOptions{
				RemoteName: name,
				Auth:       auth,
			})
		})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			s.logger.Error("failed to fetch remote", zap.String("remote", name), zap.Error(err))
			return newError("fetch", err)
		}
	}

	s.logger.Info("repository fetched", zap.String("path", repoPath), zap.Int("remotes", len(remotes)))

	return nil
}

// FetchTags lists the tags advertised by the default remote without
// downloading objects.
func (s *Service) FetchTags(ctx context.Context, repoPath string) ([]TagInfo, error) {
	s.logger.Info("listing remote tags", zap.String("path", repoPath))

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	repo, err := s.open(repoPath)
	if err != nil {
		return nil, err
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return nil, newError("remote tags", err)
	}
	if len(remotes) == 0 {
		return nil, newError("remote tags", ErrNoRemote)
	}

	remote, ok := lo.Find(remotes, func(r *git.Remote) bool { return r.Config().Name == s.config.DefaultRemote })
	if !ok {
		remote = remotes[0]
	}

	var refs []*plumbing.Reference
	err = s.withAuth(ctx, repoPath, firstURL(remote), func(auth transport.AuthMethod) error {
		var listErr error
		refs, listErr = remote.ListContext(ctx, &git.ListOptions{Auth: auth})
		return listErr
	})
	if err != nil {
		s.logger.Error("failed to list remote tags", zap.Error(err))
		return nil, newError("remote tags", err)
	}

	tags := lo.FilterMap(refs, func(ref *plumbing.Reference, _ int) (TagInfo, bool) {
		if !ref.Name().IsTag() || strings.HasSuffix(ref.Name().String(), "^{}") {
			return TagInfo{}, false
		}
		return TagInfo{Name: ref.Name().Short(), Hash: ref.Hash().String()}, true
	})
	slices.SortFunc(tags, func(a, b TagInfo) int { return strings.Compare(a.Name, b.Name) })

	s.logger.Info("remote tags listed", zap.String("path", repoPath), zap.Int("count", len(tags)))

	return tags, nil
}

// CreateBranch creates a branch pointing at HEAD without checking it out.
func (s *Service) CreateBranch(_ context.Context, repoPath, name string) error {
	s.logger.Info("creating branch", zap.String("path", repoPath), zap.String("name", name))

	if !validBranchName(name) {
		return newError("create branch", fmt.Errorf("%w: %q", ErrInvalidBranchName, name))
	}

	repo, err := s.open(repoPath)
	if err != nil {
		return err
	}

	head, err := repo.Head()
	if err != nil {
		s.logger.Error("failed to get HEAD", zap.Error(err))
		return newError("create branch", err)
	}

	refName := plumbing.NewBranchReferenceName(name)
	if _, refErr := repo.Reference(refName, false); refErr == nil {
		return newError("create branch", fmt.Errorf("%w: %s", ErrBranchExists, name))
	}

	if setErr := repo.Storer.SetReference(plumbing.NewHashReference(refName, head.Hash())); setErr != nil {
		s.logger.Error("failed to create branch", zap.Error(setErr))
		return newError("create branch", setErr)
	}

	s.logger.Info("branch created", zap.String("name", name), zap.String("hash", head.Hash().String()))

	return nil
}

func (s *Service) open(repoPath string) (*git.Repository, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		s.logger.Debug("failed to open repository", zap.String("path", repoPath), zap.Error(err))
		return nil, newError("open", err)
	}
	return repo, nil
}

// withAuth runs op with the configured credentials. When an HTTPS remote
// without configured credentials demands authentication, the user is
// prompted once and op is run again with the answer.
func (s *Service) withAuth(ctx context.Context, repoPath, url string, op func(transport.AuthMethod) error) error {
	auth, err := s.authFor(url)
	if err != nil {
		return err
	}

	err = op(auth)
	if auth != nil || s.prompter == nil || !isHTTP(url) || CodeFor(err) != remoteerr.CodeAuthenticationRequired {
		return err
	}

	cred, promptErr := s.prompter.Request(ctx, repoPath, url)
	if promptErr != nil {
		return fmt.Errorf("%w: %w", err, promptErr)
	}

	return op(&githttp.BasicAuth{Username: cred.Username, Password: cred.Password})
}

func (s *Service) authFor(url string) (transport.AuthMethod, error) {
	switch {
	case isHTTP(url) && s.config.Auth.HTTPS.DefaultToken != "":
		username := s.config.Auth.HTTPS.DefaultUsername
		if username == "" {
			username = "git"
		}
		return &githttp.BasicAuth{Username: username, Password: s.config.Auth.HTTPS.DefaultToken}, nil
	case !isHTTP(url) && s.config.Auth.SSH.DefaultPrivateKey != "":
		keys, err := gitssh.NewPublicKeysFromFile("git", s.config.Auth.SSH.DefaultPrivateKey, "")
		if err != nil {
			return nil, fmt.Errorf("failed to load ssh key: %w", err)
		}
		return keys, nil
	default:
		return nil, nil
	}
}

func firstURL(remote *git.Remote) string {
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

func isHTTP(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func validBranchName(name string) bool {
	if name == "" || strings.HasPrefix(name, "-") || strings.HasSuffix(name, ".lock") ||
		strings.HasSuffix(name, "/") || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, " ~^:?*[\\\t\n")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
