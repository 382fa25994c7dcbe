package repository

import (
	"context"

	"github.com/apiarycd/reposync/internal/remoteerr"
	"go.uber.org/zap"
)

const (
	queryStatus   = "status"
	queryLog      = "log"
	queryBranches = "branches"
	queryRemotes  = "remotes"
)

// RefreshAll reloads every sub-view and invalidates loaded diffs.
func (r *Resource) RefreshAll(ctx context.Context) {
	r.RefreshStatus(ctx)
	r.RefreshLog(ctx)
	r.RefreshBranches(ctx)
	r.RefreshRemotes(ctx)

	r.mu.Lock()
	r.staging.invalidateDiffs()
	r.mu.Unlock()
}

// RefreshStatus loads the working tree status. The first success moves
// the resource to StatusInited; failures leave the status unchanged.
func (r *Resource) RefreshStatus(ctx context.Context) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	tree, err := r.backend.Status(ctx, r.path)
	if err != nil {
		r.refreshFailed(queryStatus, err)
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.staging.apply(tree)
	r.status = StatusInited
	r.mu.Unlock()

	r.initOnce.Do(func() {
		r.spawn(r.onInited)
	})
}

// RefreshLog reloads the history graph.
func (r *Resource) RefreshLog(ctx context.Context) {
	if !r.inited() {
		return
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	nodes, err := r.backend.Log(ctx, r.path, r.config.LogLimit)
	if err != nil {
		r.refreshFailed(queryLog, err)
		return
	}

	r.mu.Lock()
	r.graph.nodes = nodes
	integration := r.review
	r.mu.Unlock()

	if integration != nil {
		integration.Update(reviewCommits(nodes))
	}
}

// RefreshBranches reloads the active branch.
func (r *Resource) RefreshBranches(ctx context.Context) {
	if !r.inited() {
		return
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	branch, err := r.backend.CurrentBranch(ctx, r.path)
	if err != nil {
		r.refreshFailed(queryBranches, err)
		return
	}

	r.mu.Lock()
	r.graph.activeBranch = branch
	r.mu.Unlock()
}

// RefreshRemotes reloads the remote list. The first non-empty list
// starts the automatic fetch.
func (r *Resource) RefreshRemotes(ctx context.Context) {
	if !r.inited() {
		return
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	remotes, err := r.backend.Remotes(ctx, r.path)
	if err != nil {
		r.refreshFailed(queryRemotes, err)
		return
	}
	if remotes == nil {
		remotes = []Remote{}
	}

	r.mu.Lock()
	r.remotes = remotes
	r.graph.hasRemotes = len(remotes) > 0
	r.mu.Unlock()

	if r.autoFetch.Observe(remotes) {
		r.logger.Info("remotes found, starting automatic fetch", zap.Int("remotes", len(remotes)))
		r.spawn(r.autoFetchRun)
	}
}

func (r *Resource) autoFetchRun(ctx context.Context) {
	if _, err := r.ClickFetch(ctx); err != nil {
		r.logger.Debug("automatic fetch skipped, trigger spent", zap.Error(err))
	}
}

func (r *Resource) inited() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.status == StatusInited && !r.closed
}

func (r *Resource) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.config.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.config.QueryTimeout)
}

// refreshFailed records a refresh error. Refresh errors are never
// surfaced to the user.
func (r *Resource) refreshFailed(query string, err error) {
	r.metrics.refreshFailed(query)

	code := ErrorCode(err)
	if code == remoteerr.CodeNotARepository {
		r.logger.Debug("refresh skipped, not a repository", zap.String("query", query))
		return
	}

	r.logger.Warn("refresh failed",
		zap.String("query", query),
		zap.String("code", string(code)),
		zap.Error(err))
}
