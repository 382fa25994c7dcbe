// Package progress tracks the lifecycle of a single long-running operation
// so that its visual indicator can be paused while the user is prompted
// for credentials.
package progress

import (
	"sync"

	"go.uber.org/zap"
)

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// ChangeFunc is invoked after every effective state transition.
type ChangeFunc func(name string, state State)

// Reporter is a start/stop/pause/unpause state machine.
// Pause and Unpause are ignored unless an operation is in flight.
type Reporter struct {
	name     string
	onChange ChangeFunc
	logger   *zap.Logger

	mu    sync.Mutex
	state State
}

// NewReporter creates an idle reporter. onChange may be nil.
func NewReporter(name string, onChange ChangeFunc, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		name:     name,
		onChange: onChange,
		logger:   logger,
		state:    StateIdle,
	}
}

func (r *Reporter) Name() string { return r.name }

// State returns the current state.
func (r *Reporter) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start resets the reporter to running, whatever its previous state.
func (r *Reporter) Start() {
	r.transition(func(State) (State, bool) { return StateRunning, true })
}

// Stop returns the reporter to idle.
func (r *Reporter) Stop() {
	r.transition(func(s State) (State, bool) { return StateIdle, s != StateIdle })
}

// Pause moves a running reporter to paused.
func (r *Reporter) Pause() {
	r.transition(func(s State) (State, bool) { return StatePaused, s == StateRunning })
}

// Unpause moves a paused reporter back to running.
func (r *Reporter) Unpause() {
	r.transition(func(s State) (State, bool) { return StateRunning, s == StatePaused })
}

func (r *Reporter) transition(next func(State) (State, bool)) {
	r.mu.Lock()
	prev := r.state
	state, ok := next(prev)
	if !ok {
		r.mu.Unlock()
		r.logger.Debug("progress transition ignored",
			zap.String("name", r.name),
			zap.String("state", string(prev)))
		return
	}
	r.state = state
	r.mu.Unlock()

	r.logger.Debug("progress transition",
		zap.String("name", r.name),
		zap.String("from", string(prev)),
		zap.String("to", string(state)))

	if r.onChange != nil {
		r.onChange(r.name, state)
	}
}
