package catalog

import (
	"context"
	"sync"
)

// MemStore keeps products in insertion order so list responses are stable
// across calls, matching what the SQL store gets from its created_at sort.
type MemStore struct {
	mu  sync.RWMutex
	m   map[string]Product
	ord []string
}

func NewMemStore() *MemStore {
	return &MemStore{m: map[string]Product{}}
}

func NewStore() Store {
	return NewMemStore()
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.ord))
	for _, id := range s.ord {
		out = append(out, s.m[id])
	}
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *MemStore) Create(ctx context.Context, p Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.m[p.ID]; exists {
		return ErrDuplicateID
	}
	s.m[p.ID] = p
	s.ord = append(s.ord, p.ID)
	return nil
}

func (s *MemStore) Update(ctx context.Context, p Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[p.ID]; !ok {
		return false, nil
	}
	s.m[p.ID] = p
	return true, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[id]; !ok {
		return false, nil
	}
	delete(s.m, id)
	for i, v := range s.ord {
		if v == id {
			s.ord = append(s.ord[:i], s.ord[i+1:]...)
			break
		}
	}
	return true, nil
}
