package credentials

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/apiarycd/reposync/internal/events"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const defaultPromptTimeout = 2 * time.Minute

type pendingPrompt struct {
	Prompt

	answer chan Credential
}

// Service brokers credential prompts between remote operations and
// whoever answers them. Requests and answers are announced on the bus.
type Service struct {
	config Config
	bus    *events.Bus
	logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*pendingPrompt
}

func NewService(config Config, bus *events.Bus, logger *zap.Logger) *Service {
	if config.PromptTimeout <= 0 {
		config.PromptTimeout = defaultPromptTimeout
	}

	return &Service{
		config: config,
		bus:    bus,
		logger: logger,

		pending: make(map[string]*pendingPrompt),
	}
}

// Request publishes a credentials-requested event and blocks until the
// prompt is answered, times out, or ctx is done.
func (s *Service) Request(ctx context.Context, path, url string) (Credential, error) {
	p := &pendingPrompt{
		Prompt: Prompt{
			ID:          uuid.NewString(),
			Path:        path,
			URL:         url,
			RequestedAt: time.Now(),
		},
		answer: make(chan Credential, 1),
	}

	s.mu.Lock()
	s.pending[p.ID] = p
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, p.ID)
		s.mu.Unlock()
	}()

	s.logger.Info("requesting credentials",
		zap.String("prompt_id", p.ID),
		zap.String("path", path),
		zap.String("url", url))

	s.bus.Publish(events.CredentialsRequested{PromptID: p.ID, Path: path, URL: url})

	timer := time.NewTimer(s.config.PromptTimeout)
	defer timer.Stop()

	select {
	case cred := <-p.answer:
		return cred, nil
	case <-timer.C:
		s.logger.Warn("credential prompt timed out", zap.String("prompt_id", p.ID))
		return Credential{}, fmt.Errorf("%w: %s", ErrPromptTimeout, p.ID)
	case <-ctx.Done():
		return Credential{}, fmt.Errorf("credential prompt %s: %w", p.ID, ctx.Err())
	}
}

// Provide answers a pending prompt and publishes credentials-provided.
func (s *Service) Provide(id string, cred Credential) error {
	s.mu.Lock()
	p, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrPromptNotFound, id)
	}

	p.answer <- cred

	s.logger.Info("credentials provided", zap.String("prompt_id", id))
	s.bus.Publish(events.CredentialsProvided{PromptID: id, Path: p.Path})

	return nil
}

// Pending lists outstanding prompts, oldest first.
func (s *Service) Pending() []Prompt {
	s.mu.Lock()
	prompts := lo.MapToSlice(s.pending, func(_ string, p *pendingPrompt) Prompt { return p.Prompt })
	s.mu.Unlock()

	slices.SortFunc(prompts, func(a, b Prompt) int { return a.RequestedAt.Compare(b.RequestedAt) })
	return prompts
}
