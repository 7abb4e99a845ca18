package registry

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Record
}

// NewMemoryRepository constructs an in-memory repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Record)}
}

func (r *memoryRepository) Create(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[rec.ID]; exists {
		return ErrAccountExists
	}
	r.storage[rec.ID] = rec
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.storage[id]
	if !ok {
		return Record{}, ErrAccountNotFound
	}
	return rec, nil
}

func (r *memoryRepository) List(_ context.Context) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Record, 0, len(r.storage))
	for _, rec := range r.storage {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryRepository) Update(_ context.Context, ids []string, fn UpdateFunc) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := make(map[string]Record, len(ids))
	for _, id := range ids {
		rec, ok := r.storage[id]
		if !ok {
			return nil, ErrAccountNotFound
		}
		recs[id] = rec
	}

	live, accts, err := hydrate(ids, recs)
	if err != nil {
		return nil, err
	}
	if err := fn(accts); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for id, acc := range live {
		rec := recs[id]
		rec.Balance = acc.Balance()
		rec.UpdatedAt = now
		recs[id] = rec
		r.storage[id] = rec
	}
	return collect(ids, recs), nil
}
