package watcher

import (
	"sync"
	"time"
)

// debouncer collapses bursts of calls into one callback after a quiet period.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	seq      uint64
	stopped  bool
	callback func()
}

func newDebouncer(delay time.Duration, callback func()) *debouncer {
	return &debouncer{
		delay:    delay,
		callback: callback,
	}
}

func (d *debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.seq++
	current := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a newer Call or Stop supersedes this timer
		if d.stopped || d.seq != current {
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()
		d.callback()
	})
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
