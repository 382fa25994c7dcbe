// Package watcher notifies repository resources about changes below their
// working tree.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultDebounce = 250 * time.Millisecond

var defaultIgnorePaths = []string{"node_modules", ".DS_Store"}

// Service owns every active fsnotify watcher.
type Service struct {
	config Config
	logger *zap.Logger

	mu      sync.Mutex
	watches map[string]*watch
}

type watch struct {
	id        string
	root      string
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	stopCh    chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

func NewService(config Config, logger *zap.Logger) *Service {
	if config.Debounce <= 0 {
		config.Debounce = defaultDebounce
	}
	if config.IgnorePaths == nil {
		config.IgnorePaths = defaultIgnorePaths
	}

	return &Service{
		config:  config,
		logger:  logger,
		watches: make(map[string]*watch),
	}
}

// Watch starts watching root. onReady fires once from the watcher goroutine
// after the watcher is active; onChange fires, debounced, after changes.
// The returned function stops the watch.
func (s *Service) Watch(root string, onChange, onReady func()) (func(), error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &watch{
		id:        uuid.NewString(),
		root:      root,
		watcher:   fsw,
		debouncer: newDebouncer(s.config.Debounce, onChange),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}

	if addErr := s.addRecursive(fsw, root); addErr != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, addErr)
	}
	// HEAD and index changes live directly under .git
	if gitDir := filepath.Join(root, ".git"); isDir(gitDir) {
		_ = fsw.Add(gitDir)
	}

	s.mu.Lock()
	s.watches[w.id] = w
	s.mu.Unlock()

	go s.loop(w, onReady)

	s.logger.Info("watching repository", zap.String("path", root))

	return func() { s.stop(w) }, nil
}

// Close stops every active watch.
func (s *Service) Close() {
	s.mu.Lock()
	watches := make([]*watch, 0, len(s.watches))
	for _, w := range s.watches {
		watches = append(watches, w)
	}
	s.mu.Unlock()

	for _, w := range watches {
		s.stop(w)
	}
}

// Count returns the number of active watches.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watches)
}

func (s *Service) stop(w *watch) {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.done
		w.debouncer.Stop()
		_ = w.watcher.Close()

		s.mu.Lock()
		delete(s.watches, w.id)
		s.mu.Unlock()

		s.logger.Info("stopped watching repository", zap.String("path", w.root))
	})
}

func (s *Service) loop(w *watch, onReady func()) {
	defer close(w.done)

	if onReady != nil {
		onReady()
	}

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(w, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", zap.String("path", w.root), zap.Error(err))
		}
	}
}

func (s *Service) handleEvent(w *watch, event fsnotify.Event) {
	if s.ignored(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) && isDir(event.Name) && filepath.Dir(event.Name) != filepath.Join(w.root, ".git") {
		if err := s.addRecursive(w.watcher, event.Name); err != nil {
			s.logger.Debug("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
		}
	}

	w.debouncer.Call()
}

func (s *Service) addRecursive(fsw *fsnotify.Watcher, root string) error {
	if err := fsw.Add(root); err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if d.Name() == ".git" || s.ignored(path) {
			return filepath.SkipDir
		}
		_ = fsw.Add(path)
		return nil
	})
}

func (s *Service) ignored(path string) bool {
	return slices.Contains(s.config.IgnorePaths, filepath.Base(path))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
