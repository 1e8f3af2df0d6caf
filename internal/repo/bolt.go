package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/tenere/fuellog/internal/domain"
)

var fuelingsBucket = []byte("fuelings")

// BoltStore is an embedded, single-file FuelingRepo for deployments without
// Postgres. Records are JSON documents keyed by a time-ordered UUIDv7.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens (or creates) the bbolt file at path and makes sure the
// fuelings bucket exists. Close must be called when the store is no longer used.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("repo.OpenBoltStore: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(fuelingsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenBoltStore: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close releases the underlying file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Create stores f under a fresh ID. It rejects records without any quantity,
// matching the CHECK constraint of the Postgres table.
func (s *BoltStore) Create(_ context.Context, f domain.Fueling) (domain.Fueling, error) {
	if !f.Valid() {
		return domain.Fueling{}, fmt.Errorf("repo.BoltStore.Create: %w: no quantity", domain.ErrValidation)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.Fueling{}, fmt.Errorf("repo.BoltStore.Create: id: %w", err)
	}
	f.ID = id
	f.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(f)
	if err != nil {
		return domain.Fueling{}, fmt.Errorf("repo.BoltStore.Create: encode: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(fuelingsBucket).Put(id[:], data)
	})
	if err != nil {
		return domain.Fueling{}, fmt.Errorf("repo.BoltStore.Create: %w", err)
	}
	return f, nil
}

// ListPaged returns one page ordered by fueling date, most recent first.
func (s *BoltStore) ListPaged(_ context.Context, p domain.PaginationParams) ([]domain.Fueling, int64, error) {
	all, err := s.all()
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BoltStore.ListPaged: %w", err)
	}
	slices.Reverse(all)

	total := int64(len(all))
	start := min(max(p.Offset(), 0), len(all))
	end := min(start+max(p.Limit, 0), len(all))
	return all[start:end], total, nil
}

// List returns every fueling ordered by fueling date, oldest first.
func (s *BoltStore) List(_ context.Context) ([]domain.Fueling, error) {
	all, err := s.all()
	if err != nil {
		return nil, fmt.Errorf("repo.BoltStore.List: %w", err)
	}
	return all, nil
}

// all decodes the whole bucket sorted by fueling date ascending. Keys are
// time-ordered, so records sharing a date stay in insertion order.
func (s *BoltStore) all() ([]domain.Fueling, error) {
	var out []domain.Fueling
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(fuelingsBucket).ForEach(func(k, v []byte) error {
			var f domain.Fueling
			if err := json.Unmarshal(v, &f); err != nil {
				return fmt.Errorf("decode %x: %w", k, err)
			}
			out = append(out, f)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, func(a, b domain.Fueling) int {
		return a.Date.Compare(b.Date)
	})
	return out, nil
}

// compile-time check: BoltStore must satisfy FuelingRepo.
var _ FuelingRepo = (*BoltStore)(nil)
