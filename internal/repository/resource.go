package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/apiarycd/reposync/internal/events"
	"github.com/apiarycd/reposync/internal/progress"
	"github.com/apiarycd/reposync/internal/review"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// dependencies shared by every resource of a Service.
type dependencies struct {
	config   Config
	backend  Backend
	watcher  Watcher
	bus      *events.Bus
	recorder FetchRecorder
	metrics  *Metrics
	logger   *zap.Logger
}

// Resource is one opened repository. All sub-state is owned by it and
// lives as long as it does.
type Resource struct {
	id   uuid.UUID
	path string

	dependencies

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	reporter  *progress.Reporter
	autoFetch AutoFetchTrigger
	initOnce  sync.Once

	mu               sync.RWMutex
	status           Status
	remoteErrorPopup string
	remotes          []Remote
	watcherReady     bool
	fetching         bool
	closed           bool
	stopWatch        func()
	review           *review.Integration
	graph            graph
	staging          staging
}

func newResource(id uuid.UUID, path string, deps dependencies) *Resource {
	ctx, cancel := context.WithCancel(context.Background())

	r := &Resource{
		id:           id,
		path:         path,
		dependencies: deps,
		ctx:          ctx,
		cancel:       cancel,
		status:       StatusLoading,
	}
	r.logger = deps.logger.With(zap.String("repository", id.String()), zap.String("path", path))
	r.reporter = progress.NewReporter(path, r.onProgress, r.logger)

	return r
}

func (r *Resource) ID() uuid.UUID { return r.id }

func (r *Resource) Path() string { return r.path }

func (r *Resource) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.status
}

// View returns a copy of the current state.
func (r *Resource) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view := View{
		ID:               r.id,
		Path:             r.path,
		Status:           r.status,
		RemoteErrorPopup: r.remoteErrorPopup,
		Remotes:          slices.Clone(r.remotes),
		RemotesLoaded:    r.remotes != nil,
		WatcherReady:     r.watcherReady,
		HasAutoFetched:   r.autoFetch.Fired(),
		Fetching:         r.fetching,
		Progress:         r.reporter.State(),
		Graph:            r.graph.view(),
		Staging:          r.staging.view(),
		ShowFetchButton:  r.graph.hasRemotes,
		ShowLog:          !r.staging.inRebase && !r.staging.inMerge,
	}

	if r.review != nil {
		view.Review = lo.Map(r.review.Changes(), func(c review.Change, _ int) ReviewChange {
			return ReviewChange{ChangeID: c.ChangeID, Commit: c.Commit, Title: c.Title, URL: c.URL}
		})
	}

	return view
}

// ShowFetchButton reports whether fetch controls apply, i.e. the
// repository has at least one remote.
func (r *Resource) ShowFetchButton() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.graph.hasRemotes
}

// ShowLog reports whether the history can be shown, which is not the
// case during a rebase or a merge.
func (r *Resource) ShowLog() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return !r.staging.inRebase && !r.staging.inMerge
}

// CloseRemoteErrorPopup dismisses the active fetch error.
func (r *Resource) CloseRemoteErrorPopup() {
	r.mu.Lock()
	r.remoteErrorPopup = ""
	r.mu.Unlock()
}

// SetNewBranchName stores the branch name being typed by the user.
func (r *Resource) SetNewBranchName(name string) {
	r.mu.Lock()
	r.staging.newBranchName = name
	r.mu.Unlock()
}

// CreateNewBranch creates a branch at HEAD. An empty name falls back to
// the pending branch name. The pending name is cleared afterwards.
func (r *Resource) CreateNewBranch(ctx context.Context, name string) error {
	r.mu.Lock()
	if name = strings.TrimSpace(name); name == "" {
		name = strings.TrimSpace(r.staging.newBranchName)
	}
	r.staging.newBranchName = name
	inited := r.status == StatusInited && !r.closed
	r.mu.Unlock()

	if name == "" {
		return ErrEmptyBranchName
	}
	if !inited {
		return ErrNotInited
	}

	err := r.backend.CreateBranch(ctx, r.path, name)

	r.mu.Lock()
	r.staging.newBranchName = ""
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("failed to create branch", zap.String("branch", name), zap.Error(err))
		return err
	}

	r.logger.Info("branch created", zap.String("branch", name))
	return nil
}

// Close stops the watcher and waits for background work to finish.
func (r *Resource) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	stop := r.stopWatch
	r.stopWatch = nil
	r.mu.Unlock()

	r.cancel()
	if stop != nil {
		stop()
	}
	r.wg.Wait()
	r.reporter.Stop()
	r.metrics.forget(r.path)

	r.logger.Info("repository closed")
}

// spawn runs fn in a tracked goroutine. It reports false once the
// resource is closed.
func (r *Resource) spawn(fn func(ctx context.Context)) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		fn(r.ctx)
	}()

	return true
}

// onInited runs once, when the resource first reaches StatusInited.
func (r *Resource) onInited(ctx context.Context) {
	r.logger.Info("repository ready")
	r.bus.Publish(events.RepositoryInited{ID: r.id.String(), Path: r.path})

	r.RefreshAll(ctx)
	r.armWatcher()

	if r.config.Review.Enabled {
		r.attachReview()
	}
}

func (r *Resource) armWatcher() {
	stop, err := r.watcher.Watch(r.path, r.onFilesChanged, r.onWatcherReady)
	if err != nil {
		r.logger.Warn("failed to watch repository", zap.Error(err))
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		stop()
		return
	}
	r.stopWatch = stop
	r.mu.Unlock()
}

func (r *Resource) onWatcherReady() {
	r.mu.Lock()
	r.watcherReady = true
	r.mu.Unlock()

	r.logger.Debug("watcher ready")
	r.bus.Publish(events.WatcherReady{ID: r.id.String(), Path: r.path})
}

func (r *Resource) onFilesChanged() {
	r.spawn(r.RefreshAll)
}

func (r *Resource) attachReview() {
	integration := review.NewIntegration(r.config.Review, r.path, r.logger.Named("review"))

	r.mu.Lock()
	r.review = integration
	nodes := r.graph.nodes
	r.mu.Unlock()

	integration.Update(reviewCommits(nodes))
	r.logger.Info("code review attached")
}

func (r *Resource) onProgress(_ string, state progress.State) {
	r.metrics.setProgress(r.path, state)
	r.bus.Publish(events.ProgressChanged{Name: r.path, State: string(state)})
}

func reviewCommits(nodes []Node) []review.Commit {
	return lo.Map(nodes, func(n Node, _ int) review.Commit {
		return review.Commit{Hash: n.Hash, Message: n.Message}
	})
}

// RefreshAsync runs RefreshAll in the background. It reports false once
// the resource is closed.
func (r *Resource) RefreshAsync() bool {
	return r.spawn(r.RefreshAll)
}
