package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/apiarycd/reposync/internal/events"
	"github.com/apiarycd/reposync/internal/fetches"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type codedError string

func (e codedError) Error() string     { return "backend: " + string(e) }
func (e codedError) ErrorCode() string { return string(e) }

type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	status     func() (*WorkingTree, error)
	log        func() ([]Node, error)
	branch     func() (string, error)
	remotes    [][]Remote
	remotesErr error
	fetchNodes func(ctx context.Context) error
	fetchTags  func(ctx context.Context) ([]Tag, error)
	branches   []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls:  make(map[string]int),
		status: func() (*WorkingTree, error) { return &WorkingTree{}, nil },
	}
}

func (f *fakeBackend) called(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[name]
}

func (f *fakeBackend) Status(_ context.Context, _ string) (*WorkingTree, error) {
	f.called("status")
	return f.status()
}

func (f *fakeBackend) Log(_ context.Context, _ string, _ int) ([]Node, error) {
	f.called("log")
	if f.log == nil {
		return nil, nil
	}
	return f.log()
}

func (f *fakeBackend) CurrentBranch(_ context.Context, _ string) (string, error) {
	f.called("branch")
	if f.branch == nil {
		return "main", nil
	}
	return f.branch()
}

// Remotes returns the queued remote lists in order, repeating the last one.
func (f *fakeBackend) Remotes(_ context.Context, _ string) ([]Remote, error) {
	f.called("remotes")

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.remotesErr != nil {
		return nil, f.remotesErr
	}
	if len(f.remotes) == 0 {
		return []Remote{}, nil
	}

	next := f.remotes[0]
	if len(f.remotes) > 1 {
		f.remotes = f.remotes[1:]
	}
	return next, nil
}

func (f *fakeBackend) FetchNodes(ctx context.Context, _ string) error {
	f.called("fetch-nodes")
	if f.fetchNodes == nil {
		return nil
	}
	return f.fetchNodes(ctx)
}

func (f *fakeBackend) FetchTags(ctx context.Context, _ string) ([]Tag, error) {
	f.called("fetch-tags")
	if f.fetchTags == nil {
		return nil, nil
	}
	return f.fetchTags(ctx)
}

func (f *fakeBackend) CreateBranch(_ context.Context, _ string, name string) error {
	f.called("create-branch")

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.branches {
		if b == name {
			return codedError("branch-exists")
		}
	}
	f.branches = append(f.branches, name)
	return nil
}

type fakeWatcher struct {
	mu       sync.Mutex
	watches  int
	stopped  int
	onChange func()
}

func (w *fakeWatcher) Watch(_ string, onChange, onReady func()) (func(), error) {
	w.mu.Lock()
	w.watches++
	w.onChange = onChange
	w.mu.Unlock()

	onReady()

	return func() {
		w.mu.Lock()
		w.stopped++
		w.mu.Unlock()
	}, nil
}

func (w *fakeWatcher) Watches() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.watches
}

type fakeRecorder struct {
	mu     sync.Mutex
	drafts []fetches.RecordDraft
	err    error
}

func (r *fakeRecorder) Record(_ context.Context, draft fetches.RecordDraft) (*fetches.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	r.drafts = append(r.drafts, draft)
	return &fetches.Record{RecordDraft: draft}, nil
}

func (r *fakeRecorder) Drafts() []fetches.RecordDraft {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]fetches.RecordDraft(nil), r.drafts...)
}

type testEnv struct {
	service  *Service
	backend  *fakeBackend
	watcher  *fakeWatcher
	recorder *fakeRecorder
	bus      *events.Bus
	metrics  *Metrics
}

func newTestEnv(t *testing.T, backend *fakeBackend, config Config) *testEnv {
	t.Helper()

	return newTestEnvWithLogger(t, backend, config, zaptest.NewLogger(t))
}

func newTestEnvWithLogger(t *testing.T, backend *fakeBackend, config Config, logger *zap.Logger) *testEnv {
	t.Helper()

	env := &testEnv{
		backend:  backend,
		watcher:  &fakeWatcher{},
		recorder: &fakeRecorder{},
		bus:      events.NewBus(logger),
		metrics:  NewMetrics(prometheus.NewRegistry()),
	}
	env.service = NewService(config, backend, env.watcher, env.bus, env.recorder, env.metrics, logger)
	t.Cleanup(env.service.CloseAll)

	return env
}

// openReady opens a resource and waits for its first full refresh.
func (e *testEnv) openReady(t *testing.T) *Resource {
	t.Helper()

	r, err := e.service.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	waitFor(t, "watcher ready", func() bool { return r.View().WatcherReady })
	return r
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func collect[T events.Event](bus *events.Bus, eventType string) func() []T {
	var (
		mu  sync.Mutex
		got []T
	)
	bus.Subscribe(eventType, func(e events.Event) {
		mu.Lock()
		got = append(got, e.(T))
		mu.Unlock()
	})

	return func() []T {
		mu.Lock()
		defer mu.Unlock()
		return append([]T(nil), got...)
	}
}

var errBoom = errors.New("boom")
