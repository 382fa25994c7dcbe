package repository

import "sync"

// AutoFetchTrigger fires once, the first time a remote list turns out
// non-empty. Later updates never fire again.
type AutoFetchTrigger struct {
	mu    sync.Mutex
	fired bool
}

// Observe reports whether remotes should start the automatic fetch.
func (t *AutoFetchTrigger) Observe(remotes []Remote) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fired || len(remotes) == 0 {
		return false
	}

	t.fired = true
	return true
}

func (t *AutoFetchTrigger) Fired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.fired
}
