package badgerfx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap/zaptest"
)

type item struct {
	ID    int
	Value string
}

func (i *item) StorageKey() string       { return fmt.Sprintf("item:%04d", i.ID) }
func (i *item) StorageIndexes() []string { return []string{"item-value:" + i.Value} }

func (i *item) MarshalStorage() ([]byte, error) {
	return []byte(fmt.Sprintf("%d|%s", i.ID, i.Value)), nil
}

func (i *item) UnmarshalStorage(data []byte) error {
	_, err := fmt.Sscanf(string(data), "%d|%s", &i.ID, &i.Value)
	return err
}

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := New(Config{InMemory: true}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func seed(t *testing.T, db *badger.DB, repo *Repository[*item], count int) {
	t.Helper()

	err := db.Update(func(txn *badger.Txn) error {
		for id := 1; id <= count; id++ {
			if err := repo.Write(txn, &item{ID: id, Value: fmt.Sprintf("v%d", id)}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRepository_ListReverseWithLimit(t *testing.T) {
	db := newTestDB(t)

	decoded := 0
	repo := NewRepository(func() *item {
		decoded++
		return &item{}
	})
	seed(t, db, repo, 10)

	var items []*item
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		var err error
		items, err = repo.List(txn, "item:", 3, opts)
		return err
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, want := range []int{10, 9, 8} {
		if items[i].ID != want {
			t.Errorf("items[%d] = %d, want %d", i, items[i].ID, want)
		}
	}
	if decoded != 3 {
		t.Errorf("expected the scan to stop after 3 decodes, got %d", decoded)
	}
}

func TestRepository_ListAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(func() *item { return &item{} })
	seed(t, db, repo, 4)

	var items []*item
	err := db.View(func(txn *badger.Txn) error {
		var err error
		items, err = repo.List(txn, "item:", 0, badger.DefaultIteratorOptions)
		return err
	})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(items) != 4 || items[0].ID != 1 || items[3].ID != 4 {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestRepository_ReadByIndexAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(func() *item { return &item{} })
	seed(t, db, repo, 2)

	err := db.View(func(txn *badger.Txn) error {
		found, err := repo.ReadByIndex(txn, "item-value:v2")
		if err != nil {
			return err
		}
		if found.ID != 2 {
			t.Errorf("expected item 2, got %d", found.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadByIndex failed: %v", err)
	}

	err = db.Update(func(txn *badger.Txn) error {
		return repo.Delete(txn, "item:0002")
	})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	err = db.View(func(txn *badger.Txn) error {
		_, err := repo.ReadByIndex(txn, "item-value:v2")
		return err
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
