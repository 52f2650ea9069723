package wallet

import (
	"context"
	"errors"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	storage map[string]Wallet
}

// NewMemoryStore constructs an in-memory wallet store for tests.
func NewMemoryStore() Store {
	return &memoryStore{storage: make(map[string]Wallet)}
}

func (s *memoryStore) Create(_ context.Context, w Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.storage[w.ID]; exists {
		return errors.New("wallet exists")
	}
	s.storage[w.ID] = w
	return nil
}

func (s *memoryStore) FindByID(_ context.Context, id string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.storage[id]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (s *memoryStore) FindByOwner(_ context.Context, ownerID string) ([]Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Wallet
	for _, w := range s.storage {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memoryStore) UpdateContributors(_ context.Context, id string, contributors []Contributor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.storage[id]
	if !ok {
		return ErrNotFound
	}
	w.Contributors = contributors
	s.storage[id] = w
	return nil
}
