package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/bubbleset/pkg/document"
)

// MemoryStore keeps layouts in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]document.Layout
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]document.Layout)}
}

func (s *MemoryStore) Put(ctx context.Context, doc *document.Layout) error {
	prepare(doc)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = *doc
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*document.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, notFound(id)
	}
	return &doc, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]*document.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*document.Layout, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, &doc)
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func sortNewestFirst(docs []*document.Layout) {
	slices.SortFunc(docs, func(a, b *document.Layout) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

var _ Store = (*MemoryStore)(nil)
