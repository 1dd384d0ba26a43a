package taxonomy

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore is a concurrency-safe in-memory term store.
type MemoryStore struct {
	mu     sync.RWMutex
	terms  map[TermID]Term
	nextID TermID
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		terms:  make(map[TermID]Term),
		nextID: 1,
	}
}

func (s *MemoryStore) Create(_ context.Context, t Term) (TermID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.terms {
		if existing.Parent == t.Parent && strings.EqualFold(existing.Code, t.Code) {
			return 0, fmt.Errorf("%w: code %q under %d", ErrDuplicate, t.Code, t.Parent)
		}
	}

	id := s.nextID
	s.nextID++
	t.ID = id
	s.terms[id] = t
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, id TermID) (Term, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.terms[id]
	return t, ok, nil
}

func (s *MemoryStore) FindByCode(_ context.Context, parent TermID, code string) (Term, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.terms {
		if t.Parent == parent && strings.EqualFold(t.Code, code) {
			return t, true, nil
		}
	}
	return Term{}, false, nil
}

func (s *MemoryStore) FindByName(_ context.Context, parent TermID, name string) (Term, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.terms {
		if t.Parent == parent && strings.EqualFold(t.Name, name) {
			return t, true, nil
		}
	}
	return Term{}, false, nil
}

func (s *MemoryStore) Ancestors(ctx context.Context, id TermID) ([]Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []Term
	cur := id
	for {
		t, ok := s.terms[cur]
		if !ok {
			return nil, fmt.Errorf("%w: term %d missing", ErrIntegrity, cur)
		}
		if t.Parent == RootID {
			return chain, nil
		}
		parent, ok := s.terms[t.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: parent %d of term %d missing", ErrIntegrity, t.Parent, cur)
		}
		chain = append(chain, parent)
		cur = parent.ID
		// a well-formed tree is at most 3 levels; anything deeper is corrupt
		if len(chain) > maxDepth+1 {
			return chain, nil
		}
	}
}
