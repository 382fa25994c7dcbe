package repository

import (
	"context"
	"time"

	"github.com/apiarycd/reposync/internal/events"
	"github.com/apiarycd/reposync/internal/fetches"
	"github.com/apiarycd/reposync/internal/remoteerr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fetchOp string

const (
	opNodes fetchOp = "nodes"
	opTags  fetchOp = "tags"
)

type fetchResult struct {
	op   fetchOp
	tags []Tag
	err  error
}

// ClickFetch fetches both history and tags.
func (r *Resource) ClickFetch(ctx context.Context) (*FetchOutcome, error) {
	return r.Fetch(ctx, FetchRequest{Nodes: true, Tags: true})
}

// Fetch runs the requested sub-operations concurrently and waits for
// them to settle. A remote error lets the sibling finish; any other
// error finalizes the fetch at once and the sibling's result is
// discarded. The first error observed is kept in the error popup.
func (r *Resource) Fetch(ctx context.Context, req FetchRequest) (*FetchOutcome, error) {
	if err := r.beginFetch(req); err != nil {
		return nil, err
	}

	return r.runFetch(ctx, req), nil
}

// FetchAsync starts a fetch in the background. Preconditions are
// checked synchronously.
func (r *Resource) FetchAsync(req FetchRequest) error {
	if err := r.beginFetch(req); err != nil {
		return err
	}

	started := r.spawn(func(ctx context.Context) {
		r.runFetch(ctx, req)
	})
	if !started {
		r.endFetch()
		return ErrClosed
	}

	return nil
}

func (r *Resource) beginFetch(req FetchRequest) error {
	if !req.Nodes && !req.Tags {
		return ErrEmptyFetchRequest
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.closed:
		return ErrClosed
	case r.status != StatusInited:
		return ErrNotInited
	case r.fetching:
		return ErrFetchInProgress
	}

	r.fetching = true
	return nil
}

func (r *Resource) endFetch() {
	r.mu.Lock()
	r.fetching = false
	r.mu.Unlock()
}

func (r *Resource) runFetch(ctx context.Context, req FetchRequest) *FetchOutcome {
	defer r.endFetch()

	outcome := &FetchOutcome{
		ID:        uuid.New(),
		Request:   req,
		StartedAt: time.Now(),
	}
	r.logger.Info("fetch started",
		zap.String("fetch", outcome.ID.String()),
		zap.Bool("nodes", req.Nodes),
		zap.Bool("tags", req.Tags))

	stopListening := r.bus.Listen(r.onCredentials, events.TypeCredentialsRequested, events.TypeCredentialsProvided)
	defer stopListening()

	r.reporter.Start()
	defer r.reporter.Stop()

	joinCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results, pending := r.launch(joinCtx, req)
	tags := r.join(ctx, results, pending, outcome)

	cancel()
	stopListening()
	r.reporter.Stop()

	outcome.CompletedAt = time.Now()
	if outcome.Err == nil && req.Tags {
		outcome.Tags = tags
	}

	r.finalize(ctx, outcome)

	return outcome
}

// launch starts one goroutine per requested sub-operation. The result
// channel is buffered so late senders never block.
func (r *Resource) launch(ctx context.Context, req FetchRequest) (<-chan fetchResult, int) {
	var ops []fetchOp
	if req.Nodes {
		ops = append(ops, opNodes)
	}
	if req.Tags {
		ops = append(ops, opTags)
	}

	results := make(chan fetchResult, len(ops))
	for _, op := range ops {
		started := r.spawn(func(_ context.Context) {
			results <- r.fetchOne(ctx, op)
		})
		if !started {
			results <- fetchResult{op: op, err: ErrClosed}
		}
	}

	return results, len(ops)
}

func (r *Resource) fetchOne(ctx context.Context, op fetchOp) fetchResult {
	switch op {
	case opNodes:
		return fetchResult{op: op, err: r.backend.FetchNodes(ctx, r.path)}
	case opTags:
		tags, err := r.backend.FetchTags(ctx, r.path)
		return fetchResult{op: op, tags: tags, err: err}
	}

	return fetchResult{op: op}
}

// join waits on results in completion order. It returns early on the
// first non-remote error or when ctx is done.
func (r *Resource) join(ctx context.Context, results <-chan fetchResult, pending int, outcome *FetchOutcome) []Tag {
	var tags []Tag
	for ; pending > 0; pending-- {
		var res fetchResult
		select {
		case <-ctx.Done():
			r.fail(outcome, ctx.Err())
			return nil
		case res = <-results:
		}

		if res.err == nil {
			switch res.op {
			case opNodes:
				outcome.NodesFetched = true
			case opTags:
				tags = res.tags
			}
			continue
		}

		code := r.fail(outcome, res.err)
		if !remoteerr.IsRemote(code) {
			r.logger.Warn("fetch aborted", zap.String("op", string(res.op)), zap.String("code", string(code)))
			return nil
		}
		r.logger.Info("fetch remote error", zap.String("op", string(res.op)), zap.String("code", string(code)))
	}

	return tags
}

// fail keeps err as the outcome error unless one is already set.
func (r *Resource) fail(outcome *FetchOutcome, err error) remoteerr.Code {
	code := ErrorCode(err)
	if outcome.Err == nil {
		outcome.Err = err
		outcome.ErrorCode = string(code)
		outcome.Message = remoteerr.Message(code)
	}
	return code
}

func (r *Resource) finalize(ctx context.Context, outcome *FetchOutcome) {
	r.mu.Lock()
	if outcome.Failed() {
		r.remoteErrorPopup = outcome.Message
	} else if outcome.Request.Tags {
		r.graph.remoteTags = outcome.Tags
	}
	r.mu.Unlock()

	if outcome.Failed() {
		r.logger.Warn("fetch failed",
			zap.String("fetch", outcome.ID.String()),
			zap.String("code", outcome.ErrorCode),
			zap.Error(outcome.Err))
	} else {
		r.logger.Info("fetch completed",
			zap.String("fetch", outcome.ID.String()),
			zap.Int("tags", len(outcome.Tags)))
	}

	r.metrics.observeFetch(outcome)
	r.record(context.WithoutCancel(ctx), outcome)

	r.bus.Publish(events.FetchCompleted{
		ID:        outcome.ID.String(),
		Path:      r.path,
		ErrorCode: outcome.ErrorCode,
		Message:   outcome.Message,
		TagCount:  len(outcome.Tags),
	})
}

// record stores the outcome in the fetch history. Failures are logged
// only.
func (r *Resource) record(ctx context.Context, outcome *FetchOutcome) {
	if r.recorder == nil {
		return
	}

	draft := fetches.RecordDraft{
		Path:        r.path,
		Nodes:       outcome.Request.Nodes,
		Tags:        outcome.Request.Tags,
		StartedAt:   outcome.StartedAt,
		CompletedAt: outcome.CompletedAt,
		Outcome:     fetches.OutcomeSuccess,
		ErrorCode:   outcome.ErrorCode,
		Message:     outcome.Message,
		TagCount:    len(outcome.Tags),
	}
	if outcome.Failed() {
		draft.Outcome = fetches.OutcomeFailed
	}

	if _, err := r.recorder.Record(ctx, draft); err != nil {
		r.logger.Warn("failed to record fetch", zap.Error(err))
	}
}

func (r *Resource) onCredentials(event events.Event) {
	switch e := event.(type) {
	case events.CredentialsRequested:
		if e.Path == r.path {
			r.reporter.Pause()
		}
	case events.CredentialsProvided:
		if e.Path == r.path {
			r.reporter.Unpause()
		}
	}
}
