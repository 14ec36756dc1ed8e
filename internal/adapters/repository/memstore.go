package repository

import (
	"context"
	"sync"

	"github.com/podiumhq/podium/pkg/metrics"
)

// defaultCapacity bounds the registry when no option is given.
const defaultCapacity = 64

// MemStore is an in-memory Store guarded by a mutex. Insertion order is
// kept for bounded eviction: when the store is full the oldest dataset
// goes first.
type MemStore struct {
	mu       sync.RWMutex
	capacity int
	byID     map[string]Dataset
	byHash   map[uint64]string
	order    []string
}

// NewMemStore creates an empty registry with the given options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		capacity: defaultCapacity,
		byID:     make(map[string]Dataset),
		byHash:   make(map[uint64]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put registers a dataset, evicting the oldest one at capacity.
func (s *MemStore) Put(_ context.Context, ds Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[ds.ID]; !exists {
		for len(s.order) >= s.capacity {
			s.evictOldestLocked()
		}
		s.order = append(s.order, ds.ID)
	}
	s.byID[ds.ID] = ds
	s.byHash[ds.Hash] = ds.ID
	metrics.UpdateDatasetCount(len(s.byID))
	return nil
}

// Get returns the dataset with the given ID, or ErrNotFound.
func (s *MemStore) Get(_ context.Context, id string) (Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.byID[id]
	if !ok {
		return Dataset{}, ErrNotFound
	}
	return ds, nil
}

// FindByHash returns the dataset with the given content hash, if held.
func (s *MemStore) FindByHash(_ context.Context, hash uint64) (Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byHash[hash]
	if !ok {
		return Dataset{}, false
	}
	ds, ok := s.byID[id]
	return ds, ok
}

// Delete removes a dataset by ID. Unknown IDs are ignored.
func (s *MemStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	if s.byHash[ds.Hash] == id {
		delete(s.byHash, ds.Hash)
	}
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	metrics.UpdateDatasetCount(len(s.byID))
}

// Len returns the number of datasets currently held.
func (s *MemStore) Len(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// IDs returns all dataset IDs in insertion order.
func (s *MemStore) IDs(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *MemStore) evictOldestLocked() {
	if len(s.order) == 0 {
		return
	}
	oldest := s.order[0]
	s.order = s.order[1:]
	if ds, ok := s.byID[oldest]; ok {
		delete(s.byID, oldest)
		if s.byHash[ds.Hash] == oldest {
			delete(s.byHash, ds.Hash)
		}
		metrics.RecordDatasetEvicted()
	}
}
