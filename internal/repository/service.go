package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/apiarycd/reposync/internal/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultLogLimit = 500

// Service owns the opened repository resources.
type Service struct {
	deps dependencies

	mu        sync.RWMutex
	resources map[uuid.UUID]*Resource
	byPath    map[string]uuid.UUID

	logger *zap.Logger
}

func NewService(
	config Config,
	backend Backend,
	watcher Watcher,
	bus *events.Bus,
	recorder FetchRecorder,
	metrics *Metrics,
	logger *zap.Logger,
) *Service {
	if config.LogLimit <= 0 {
		config.LogLimit = defaultLogLimit
	}

	return &Service{
		deps: dependencies{
			config:   config,
			backend:  backend,
			watcher:  watcher,
			bus:      bus,
			recorder: recorder,
			metrics:  metrics,
			logger:   logger,
		},
		resources: make(map[uuid.UUID]*Resource),
		byPath:    make(map[string]uuid.UUID),
		logger:    logger,
	}
}

// Open returns the resource for path, creating it if needed. A new
// resource loads its status in the background.
func (s *Service) Open(path string) (*Resource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}

	s.mu.Lock()
	if id, ok := s.byPath[abs]; ok {
		r := s.resources[id]
		s.mu.Unlock()
		return r, nil
	}

	r := newResource(uuid.New(), abs, s.deps)
	s.resources[r.id] = r
	s.byPath[abs] = r.id
	s.mu.Unlock()

	s.logger.Info("repository opened", zap.String("id", r.id.String()), zap.String("path", abs))
	s.deps.bus.Publish(events.RepositoryOpened{ID: r.id.String(), Path: abs})

	r.spawn(r.RefreshStatus)

	return r, nil
}

// Get returns an opened resource.
func (s *Service) Get(id uuid.UUID) (*Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return r, nil
}

// List returns opened resources ordered by path.
func (s *Service) List() []*Resource {
	s.mu.RLock()
	list := make([]*Resource, 0, len(s.resources))
	for _, r := range s.resources {
		list = append(list, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(list, func(a, b *Resource) int { return strings.Compare(a.path, b.path) })

	return list
}

// Close closes a resource and forgets it.
func (s *Service) Close(id uuid.UUID) error {
	s.mu.Lock()
	r, ok := s.resources[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.resources, id)
	delete(s.byPath, r.path)
	s.mu.Unlock()

	r.Close()
	s.deps.bus.Publish(events.RepositoryClosed{ID: id.String(), Path: r.path})

	return nil
}

// CloseAll closes every resource.
func (s *Service) CloseAll() {
	for _, r := range s.List() {
		if err := s.Close(r.id); err != nil {
			s.logger.Debug("resource already closed", zap.String("id", r.id.String()))
		}
	}
}

// OpenConfigured opens the paths listed in the configuration.
func (s *Service) OpenConfigured(_ context.Context) {
	for _, path := range s.deps.config.Open {
		if _, err := s.Open(path); err != nil {
			s.logger.Error("failed to open repository", zap.String("path", path), zap.Error(err))
		}
	}
}
