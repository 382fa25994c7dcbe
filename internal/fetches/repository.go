package fetches

import (
	"context"
	"errors"
	"fmt"

	"github.com/apiarycd/reposync/pkg/badgerfx"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type Repository struct {
	db      *badger.DB
	records *badgerfx.Repository[*fetchModel]
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{
		db:      db,
		records: badgerfx.NewRepository(func() *fetchModel { return &fetchModel{} }),
	}
}

// Create stores a finalized fetch.
func (r *Repository) Create(_ context.Context, draft *RecordDraft) (*Record, error) {
	model := newFetchModel(draft)

	err := r.db.Update(func(txn *badger.Txn) error {
		return r.records.Write(txn, model)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch record: %w", err)
	}

	return newRecord(model), nil
}

// GetByID retrieves a fetch record by its ID.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	var model *fetchModel

	err := r.db.View(func(txn *badger.Txn) error {
		found, err := r.records.ReadByIndex(txn, idIndex(id))
		if errors.Is(err, badgerfx.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		model = found
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get fetch record: %w", err)
	}

	return newRecord(model), nil
}

// ListByPath returns the fetches of one repository, newest first.
func (r *Repository) ListByPath(_ context.Context, path string, limit int) ([]Record, error) {
	var models []*fetchModel

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		found, err := r.records.List(txn, pathPrefix(path), limit, opts)
		models = found
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list fetch records: %w", err)
	}

	records := make([]Record, 0, len(models))
	for _, model := range models {
		records = append(records, *newRecord(model))
	}

	return records, nil
}

// DeleteByPath removes every fetch of one repository.
func (r *Repository) DeleteByPath(_ context.Context, path string) (int, error) {
	deleted := 0

	err := r.db.Update(func(txn *badger.Txn) error {
		models, err := r.records.List(txn, pathPrefix(path), 0, badger.DefaultIteratorOptions)
		if err != nil {
			return err
		}

		for _, model := range models {
			if delErr := r.records.Delete(txn, model.StorageKey()); delErr != nil {
				return delErr
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete fetch records: %w", err)
	}

	return deleted, nil
}
