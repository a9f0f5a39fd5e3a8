// Package repository persists the recent-search list. One durable key holds a
// JSON array of up to 8 strings, newest first. Persistence is best-effort:
// callers treat every error here as non-fatal.
package repository

import (
	"context"
	"sync"
)

// recentsKey is the single durable-storage key for the recent-search list.
const recentsKey = "recent_searches"

// RecentsRepository defines the durable storage for recent searches
type RecentsRepository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, terms []string) error
	Clear(ctx context.Context) error
	Close() error
}

// MemoryRecentsRepository is an in-memory fallback used in tests and when no
// durable storage can be opened. Contents do not survive a restart.
type MemoryRecentsRepository struct {
	mu    sync.Mutex
	terms []string
}

// NewMemoryRecentsRepository creates an empty in-memory repository.
func NewMemoryRecentsRepository() *MemoryRecentsRepository {
	return &MemoryRecentsRepository{}
}

func (m *MemoryRecentsRepository) Load(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.terms))
	copy(out, m.terms)
	return out, nil
}

func (m *MemoryRecentsRepository) Save(ctx context.Context, terms []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terms = make([]string, len(terms))
	copy(m.terms, terms)
	return nil
}

func (m *MemoryRecentsRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terms = nil
	return nil
}

func (m *MemoryRecentsRepository) Close() error {
	return nil
}
