package account

import (
	"context"
	"errors"
	"sync"
)

type memoryDirectory struct {
	mu      sync.RWMutex
	byID    map[string]Account
	byEmail map[string]string
}

// NewMemoryDirectory constructs an in-memory directory for tests.
func NewMemoryDirectory() Directory {
	return &memoryDirectory{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
	}
}

func (d *memoryDirectory) Create(_ context.Context, acct Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[acct.Email]; exists {
		return errors.New("email already registered")
	}
	d.byID[acct.ID] = acct
	d.byEmail[acct.Email] = acct.ID
	return nil
}

func (d *memoryDirectory) FindByEmail(_ context.Context, email string) (Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byEmail[email]
	if !ok {
		return Account{}, ErrNotFound
	}
	return d.byID[id], nil
}

func (d *memoryDirectory) FindByID(_ context.Context, id string) (Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	acct, ok := d.byID[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acct, nil
}

func (d *memoryDirectory) UpdateSurvey(_ context.Context, id string, payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	acct, ok := d.byID[id]
	if !ok {
		return ErrNotFound
	}
	acct.Survey = payload
	acct.SurveyCompleted = true
	d.byID[id] = acct
	return nil
}

func (d *memoryDirectory) UpdateTokenVersion(_ context.Context, id string, version int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	acct, ok := d.byID[id]
	if !ok {
		return ErrNotFound
	}
	acct.TokenVersion = version
	d.byID[id] = acct
	return nil
}
