package txlog

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory transaction log for tests and the in-memory
// ledger backend.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Transaction
}

// NewMemoryStore constructs an empty in-memory transaction log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert appends a record, assigning an id and timestamp.
func (s *MemoryStore) Insert(_ context.Context, fromAddress, toAddress, amount string) (Transaction, error) {
	txn := newTransaction(fromAddress, toAddress, amount)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, txn)
	return txn, nil
}

// ListByAddress returns transactions touching the address, in append order.
func (s *MemoryStore) ListByAddress(_ context.Context, address string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Transaction
	for _, txn := range s.records {
		if txn.FromAddress == address || txn.ToAddress == address {
			out = append(out, txn)
		}
	}
	return out, nil
}
