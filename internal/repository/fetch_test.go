package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apiarycd/reposync/internal/events"
	"github.com/apiarycd/reposync/internal/fetches"
	"github.com/apiarycd/reposync/internal/progress"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFetch_BothSucceed(t *testing.T) {
	backend := newFakeBackend()
	backend.fetchTags = func(context.Context) ([]Tag, error) {
		return []Tag{{Name: "v1.0.0", Hash: "abc"}, {Name: "v1.1.0", Hash: "def"}}, nil
	}
	env := newTestEnv(t, backend, Config{})
	completed := collect[events.FetchCompleted](env.bus, events.TypeFetchCompleted)
	r := env.openReady(t)

	outcome, err := r.ClickFetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if outcome.Failed() {
		t.Fatalf("unexpected failure: %v", outcome.Err)
	}
	if !outcome.NodesFetched {
		t.Error("expected nodes fetched")
	}

	view := r.View()
	if view.Progress != progress.StateIdle {
		t.Errorf("expected idle progress, got %s", view.Progress)
	}
	if view.RemoteErrorPopup != "" {
		t.Errorf("unexpected popup %q", view.RemoteErrorPopup)
	}
	if view.Fetching {
		t.Error("fetch still marked busy")
	}
	if len(view.Graph.RemoteTags) != 2 || view.Graph.RemoteTags[0].Name != "v1.0.0" {
		t.Errorf("unexpected remote tags %+v", view.Graph.RemoteTags)
	}

	notified := completed()
	if len(notified) != 1 || notified[0].TagCount != 2 || notified[0].ErrorCode != "" {
		t.Errorf("expected one successful completion with 2 tags, got %+v", notified)
	}

	drafts := env.recorder.Drafts()
	if len(drafts) != 1 || drafts[0].Outcome != fetches.OutcomeSuccess || drafts[0].TagCount != 2 {
		t.Errorf("unexpected recorded fetches %+v", drafts)
	}

	if got := testutil.ToFloat64(env.metrics.fetchTotal.WithLabelValues("success", "none")); got != 1 {
		t.Errorf("expected 1 successful fetch metric, got %v", got)
	}
}

func TestFetch_RemoteErrorLetsSiblingFinish(t *testing.T) {
	backend := newFakeBackend()
	tagsFailed := make(chan struct{})
	backend.fetchTags = func(context.Context) ([]Tag, error) {
		defer close(tagsFailed)
		return nil, codedError("offline")
	}
	backend.fetchNodes = func(context.Context) error {
		<-tagsFailed
		time.Sleep(20 * time.Millisecond)
		return nil
	}
	env := newTestEnv(t, backend, Config{})
	r := env.openReady(t)

	outcome, err := r.ClickFetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !outcome.NodesFetched {
		t.Error("expected node result to be processed after remote tag error")
	}
	if outcome.ErrorCode != "offline" {
		t.Errorf("expected offline, got %q", outcome.ErrorCode)
	}

	view := r.View()
	if view.RemoteErrorPopup != "could not reach remote repository, are you offline?" {
		t.Errorf("unexpected popup %q", view.RemoteErrorPopup)
	}
	if len(view.Graph.RemoteTags) != 0 {
		t.Errorf("tags forwarded on failure: %+v", view.Graph.RemoteTags)
	}
	if view.Progress != progress.StateIdle {
		t.Errorf("expected idle progress, got %s", view.Progress)
	}
}

func TestFetch_NonRemoteErrorFailsFast(t *testing.T) {
	backend := newFakeBackend()
	release := make(chan struct{})
	backend.fetchNodes = func(context.Context) error { return errBoom }
	backend.fetchTags = func(context.Context) ([]Tag, error) {
		<-release
		return []Tag{{Name: "late"}}, nil
	}
	env := newTestEnv(t, backend, Config{})
	r := env.openReady(t)
	t.Cleanup(func() { close(release) })

	done := make(chan *FetchOutcome, 1)
	go func() {
		outcome, _ := r.ClickFetch(context.Background())
		done <- outcome
	}()

	var outcome *FetchOutcome
	select {
	case outcome = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch waited on the blocked sibling")
	}

	if outcome.ErrorCode != "unknown" || !errors.Is(outcome.Err, errBoom) {
		t.Errorf("unexpected outcome %+v", outcome)
	}
	if popup := r.View().RemoteErrorPopup; popup != "unclassified error: unknown" {
		t.Errorf("unexpected popup %q", popup)
	}
	if r.View().Progress != progress.StateIdle {
		t.Error("expected idle progress")
	}
}

func TestFetch_FirstRemoteErrorWins(t *testing.T) {
	backend := newFakeBackend()
	tagsFailed := make(chan struct{})
	backend.fetchTags = func(context.Context) ([]Tag, error) {
		defer close(tagsFailed)
		return nil, codedError("offline")
	}
	backend.fetchNodes = func(context.Context) error {
		<-tagsFailed
		return codedError("remote-timeout")
	}
	env := newTestEnv(t, backend, Config{})
	r := env.openReady(t)

	outcome, err := r.ClickFetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if outcome.ErrorCode != "offline" {
		t.Errorf("expected first error offline, got %q", outcome.ErrorCode)
	}
	if backend.Calls("fetch-nodes") != 1 {
		t.Error("sibling not run to completion after remote error")
	}
	if popup := r.View().RemoteErrorPopup; popup != "could not reach remote repository, are you offline?" {
		t.Errorf("unexpected popup %q", popup)
	}

	drafts := env.recorder.Drafts()
	if len(drafts) != 1 || drafts[0].ErrorCode != "offline" || drafts[0].Outcome != fetches.OutcomeFailed {
		t.Errorf("unexpected recorded fetches %+v", drafts)
	}
}

func TestFetch_NonRemoteAfterRemoteKeepsFirstError(t *testing.T) {
	backend := newFakeBackend()
	tagsFailed := make(chan struct{})
	backend.fetchTags = func(context.Context) ([]Tag, error) {
		defer close(tagsFailed)
		return nil, codedError("offline")
	}
	backend.fetchNodes = func(context.Context) error {
		<-tagsFailed
		return errBoom
	}
	env := newTestEnv(t, backend, Config{})
	completed := collect[events.FetchCompleted](env.bus, events.TypeFetchCompleted)
	r := env.openReady(t)

	outcome, err := r.ClickFetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if outcome.ErrorCode != "offline" || errors.Is(outcome.Err, errBoom) {
		t.Errorf("expected the remote error to be kept, got %+v", outcome)
	}
	if outcome.NodesFetched {
		t.Error("failed node fetch reported as fetched")
	}
	if popup := r.View().RemoteErrorPopup; popup != "could not reach remote repository, are you offline?" {
		t.Errorf("unexpected popup %q", popup)
	}
	if r.View().Fetching {
		t.Error("fetch still marked busy")
	}

	notified := completed()
	if len(notified) != 1 || notified[0].ErrorCode != "offline" {
		t.Errorf("expected one completion with offline, got %+v", notified)
	}
}

func TestFetch_LateResultDiscarded(t *testing.T) {
	backend := newFakeBackend()
	release := make(chan struct{})
	backend.fetchNodes = func(context.Context) error { return errBoom }
	backend.fetchTags = func(context.Context) ([]Tag, error) {
		<-release
		return []Tag{{Name: "late"}}, nil
	}
	env := newTestEnv(t, backend, Config{})
	r := env.openReady(t)

	if _, err := r.ClickFetch(context.Background()); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	close(release)
	r.Close()

	if tags := r.View().Graph.RemoteTags; len(tags) != 0 {
		t.Errorf("late tags forwarded: %+v", tags)
	}
	if got := len(env.recorder.Drafts()); got != 1 {
		t.Errorf("expected 1 recorded fetch, got %d", got)
	}
}

func TestFetch_BusyGuard(t *testing.T) {
	backend := newFakeBackend()
	release := make(chan struct{})
	backend.fetchNodes = func(context.Context) error {
		<-release
		return nil
	}
	env := newTestEnv(t, backend, Config{})
	r := env.openReady(t)

	if err := r.FetchAsync(FetchRequest{Nodes: true}); err != nil {
		t.Fatalf("FetchAsync failed: %v", err)
	}
	waitFor(t, "fetch running", func() bool { return r.View().Progress == progress.StateRunning })

	if _, err := r.ClickFetch(context.Background()); !errors.Is(err, ErrFetchInProgress) {
		t.Errorf("expected ErrFetchInProgress, got %v", err)
	}
	if err := r.FetchAsync(FetchRequest{Tags: true}); !errors.Is(err, ErrFetchInProgress) {
		t.Errorf("expected ErrFetchInProgress, got %v", err)
	}
	if r.View().Progress != progress.StateRunning {
		t.Error("rejected fetch changed progress")
	}

	close(release)
	waitFor(t, "fetch finished", func() bool { return !r.View().Fetching })

	if got := backend.Calls("fetch-nodes"); got != 1 {
		t.Errorf("expected 1 node fetch, got %d", got)
	}
}

func TestFetch_Preconditions(t *testing.T) {
	backend := newFakeBackend()
	backend.status = func() (*WorkingTree, error) { return nil, errBoom }
	env := newTestEnv(t, backend, Config{})

	r, err := env.service.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, err := r.Fetch(context.Background(), FetchRequest{}); !errors.Is(err, ErrEmptyFetchRequest) {
		t.Errorf("expected ErrEmptyFetchRequest, got %v", err)
	}
	if _, err := r.ClickFetch(context.Background()); !errors.Is(err, ErrNotInited) {
		t.Errorf("expected ErrNotInited, got %v", err)
	}
	if backend.Calls("fetch-nodes") != 0 || backend.Calls("fetch-tags") != 0 {
		t.Error("backend called before init")
	}

	r.Close()
	if _, err := r.ClickFetch(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestFetch_CredentialPromptPausesProgress(t *testing.T) {
	backend := newFakeBackend()
	env := newTestEnv(t, backend, Config{})
	r := env.openReady(t)

	var paused, resumed progress.State
	backend.fetchNodes = func(context.Context) error {
		env.bus.Publish(events.CredentialsRequested{PromptID: "p1", Path: "/elsewhere"})
		if r.View().Progress != progress.StateRunning {
			t.Error("prompt for another repository paused progress")
		}

		env.bus.Publish(events.CredentialsRequested{PromptID: "p2", Path: r.Path()})
		env.bus.Publish(events.CredentialsRequested{PromptID: "p2", Path: r.Path()})
		paused = r.View().Progress

		env.bus.Publish(events.CredentialsProvided{PromptID: "p2", Path: r.Path()})
		env.bus.Publish(events.CredentialsProvided{PromptID: "p2", Path: r.Path()})
		resumed = r.View().Progress
		return nil
	}

	baseline := env.bus.SubscriptionCount()

	if _, err := r.Fetch(context.Background(), FetchRequest{Nodes: true}); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if paused != progress.StatePaused {
		t.Errorf("expected paused during prompt, got %s", paused)
	}
	if resumed != progress.StateRunning {
		t.Errorf("expected running after answer, got %s", resumed)
	}
	if got := env.bus.SubscriptionCount(); got != baseline {
		t.Errorf("credential listener leaked: %d subscriptions, want %d", got, baseline)
	}

	// Outside a fetch, prompts are ignored.
	env.bus.Publish(events.CredentialsRequested{PromptID: "p3", Path: r.Path()})
	if r.View().Progress != progress.StateIdle {
		t.Error("prompt outside a fetch changed progress")
	}
}

func TestFetch_ContextCanceled(t *testing.T) {
	backend := newFakeBackend()
	backend.fetchNodes = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	env := newTestEnv(t, backend, Config{})
	r := env.openReady(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	outcome, err := r.Fetch(ctx, FetchRequest{Nodes: true})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !errors.Is(outcome.Err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", outcome.Err)
	}
	if r.View().Fetching {
		t.Error("fetch still marked busy")
	}
}

func TestFetch_RecorderFailureIgnored(t *testing.T) {
	backend := newFakeBackend()
	env := newTestEnv(t, backend, Config{})
	env.recorder.err = errBoom
	r := env.openReady(t)

	outcome, err := r.Fetch(context.Background(), FetchRequest{Nodes: true})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if outcome.Failed() {
		t.Errorf("recording failure leaked into outcome: %v", outcome.Err)
	}
}
