package store

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Memory keeps all state in process memory.
type Memory struct {
	mu       sync.RWMutex
	accounts map[solana.PublicKey]*Account
	journal  map[solana.PublicKey][]Entry
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[solana.PublicKey]*Account),
		journal:  make(map[solana.PublicKey][]Entry),
	}
}

func (m *Memory) Get(_ context.Context, key solana.PublicKey) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acct, ok := m.accounts[key]
	if !ok {
		return nil, ErrNotFound
	}
	return acct.Clone(), nil
}

func (m *Memory) Commit(_ context.Context, batch Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.apply(batch)
	return nil
}

func (m *Memory) apply(batch Batch) {
	for key, acct := range batch.Accounts {
		m.accounts[key] = acct.Clone()
	}
	for _, entry := range batch.Entries {
		m.journal[entry.User] = append(m.journal[entry.User], entry)
	}
}

func (m *Memory) Journal(_ context.Context, user solana.PublicKey) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.journal[user]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

func (m *Memory) Close() error {
	return nil
}
