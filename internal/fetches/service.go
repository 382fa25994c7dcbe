package fetches

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultListLimit = 50

type Service struct {
	fetches *Repository

	logger *zap.Logger
}

func NewService(fetches *Repository, logger *zap.Logger) *Service {
	return &Service{
		fetches: fetches,
		logger:  logger,
	}
}

// Record persists a finalized fetch.
func (s *Service) Record(ctx context.Context, draft RecordDraft) (*Record, error) {
	record, err := s.fetches.Create(ctx, &draft)
	if err != nil {
		s.logger.Error("failed to record fetch", zap.String("path", draft.Path), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("fetch recorded",
		zap.String("id", record.ID.String()),
		zap.String("path", record.Path),
		zap.String("outcome", string(record.Outcome)))

	return record, nil
}

// Get retrieves a fetch record by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	record, err := s.fetches.GetByID(ctx, id)
	if err != nil {
		s.logger.Debug("failed to get fetch record", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	return record, nil
}

// ListByPath returns the most recent fetches of one repository.
func (s *Service) ListByPath(ctx context.Context, path string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	records, err := s.fetches.ListByPath(ctx, path, limit)
	if err != nil {
		s.logger.Error("failed to list fetch records", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	return records, nil
}

// Forget deletes the fetch history of one repository.
func (s *Service) Forget(ctx context.Context, path string) error {
	deleted, err := s.fetches.DeleteByPath(ctx, path)
	if err != nil {
		s.logger.Error("failed to forget fetch records", zap.String("path", path), zap.Error(err))
		return err
	}

	s.logger.Info("fetch history removed", zap.String("path", path), zap.Int("count", deleted))
	return nil
}
