package badgerfx

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when a key or index does not exist.
var ErrNotFound = errors.New("entity not found")

// Entity is a value stored under its own key with optional secondary
// indexes pointing back at that key.
type Entity interface {
	StorageKey() string
	StorageIndexes() []string
	MarshalStorage() ([]byte, error)
	UnmarshalStorage(data []byte) error
}

type EntityFactory[T Entity] func() T

type Repository[T Entity] struct {
	zero    T
	factory EntityFactory[T]
}

func NewRepository[T Entity](factory EntityFactory[T]) *Repository[T] {
	var zero T
	return &Repository[T]{
		zero:    zero,
		factory: factory,
	}
}

// List returns entities stored under prefix. With options.Reverse the
// newest keys come first. A positive limit stops the scan after that
// many entities.
func (r *Repository[T]) List(txn *badger.Txn, prefix string, limit int, options badger.IteratorOptions) ([]T, error) {
	validPrefix := []byte(prefix)
	seekPrefix := []byte(prefix)
	if options.Reverse {
		seekPrefix = append(seekPrefix, SeekEnd)
	}
	if limit > 0 && limit < options.PrefetchSize {
		options.PrefetchSize = limit
	}

	it := txn.NewIterator(options)
	defer it.Close()

	var entities []T
	for it.Seek(seekPrefix); it.ValidForPrefix(validPrefix); it.Next() {
		if limit > 0 && len(entities) == limit {
			break
		}

		entity, err := r.decode(it.Item())
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

func (r *Repository[T]) Read(txn *badger.Txn, key string) (T, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return r.zero, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return r.zero, fmt.Errorf("failed to get entity: %w", err)
	}

	return r.decode(item)
}

func (r *Repository[T]) ReadByIndex(txn *badger.Txn, index string) (T, error) {
	item, err := txn.Get([]byte(index))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return r.zero, fmt.Errorf("%w: %s", ErrNotFound, index)
	}
	if err != nil {
		return r.zero, fmt.Errorf("failed to get entity index: %w", err)
	}

	key, err := item.ValueCopy(nil)
	if err != nil {
		return r.zero, fmt.Errorf("failed to get entity key: %w", err)
	}

	return r.Read(txn, string(key))
}

func (r *Repository[T]) Write(txn *badger.Txn, entity T) error {
	data, err := entity.MarshalStorage()
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if indexErr := r.CreateIndexes(txn, entity); indexErr != nil {
		return indexErr
	}

	if setErr := txn.Set([]byte(entity.StorageKey()), data); setErr != nil {
		return fmt.Errorf("failed to update entity: %w", setErr)
	}

	return nil
}

func (r *Repository[T]) Delete(txn *badger.Txn, key string) error {
	entity, err := r.Read(txn, key)
	if err != nil {
		return err
	}

	if indexErr := r.DeleteIndexes(txn, entity); indexErr != nil {
		return indexErr
	}

	if delErr := txn.Delete([]byte(entity.StorageKey())); delErr != nil {
		return fmt.Errorf("failed to delete entity: %w", delErr)
	}

	return nil
}

func (r *Repository[T]) CreateIndexes(txn *badger.Txn, entity T) error {
	key := []byte(entity.StorageKey())
	for _, index := range entity.StorageIndexes() {
		if err := txn.Set([]byte(index), key); err != nil {
			return fmt.Errorf("failed to set entity index: %w", err)
		}
	}

	return nil
}

func (r *Repository[T]) DeleteIndexes(txn *badger.Txn, entity T) error {
	for _, index := range entity.StorageIndexes() {
		if err := txn.Delete([]byte(index)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to delete entity index: %w", err)
		}
	}

	return nil
}

func (r *Repository[T]) decode(item *badger.Item) (T, error) {
	entity := r.factory()
	if err := item.Value(func(val []byte) error {
		return entity.UnmarshalStorage(val)
	}); err != nil {
		return r.zero, fmt.Errorf("failed to unmarshal entity: %w", err)
	}

	return entity, nil
}
