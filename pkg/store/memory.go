package store

import (
	"context"
	"sync"

	"github.com/kuriosis/wallbuilder/pkg/codec"
)

// MemoryStore keeps saved galleries in process memory. Used for development
// and as the reference implementation the backend tests compare against.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*SavedGallery
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*SavedGallery)}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, name string, doc codec.Document, opts SaveOptions) (*SavedGallery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := prepare(name, opts, s.snapshotLocked())
	if err != nil {
		return nil, err
	}
	if prev, ok := s.records[rec.ID]; ok {
		rec.CreatedAt = prev.CreatedAt
	}
	rec.Document = doc
	s.records[rec.ID] = rec

	out := *rec
	return &out, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (*SavedGallery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, notFound(id)
	}
	out := *rec
	return &out, nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]*SavedGallery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.snapshotLocked()
	sortNewestFirst(records)
	return records, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return notFound(id)
	}
	delete(s.records, id)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) snapshotLocked() []*SavedGallery {
	records := make([]*SavedGallery, 0, len(s.records))
	for _, rec := range s.records {
		out := *rec
		records = append(records, &out)
	}
	return records
}

var _ Store = (*MemoryStore)(nil)
