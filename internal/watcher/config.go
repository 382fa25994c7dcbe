package watcher

import "time"

type Config struct {
	Debounce    time.Duration
	IgnorePaths []string
}
