package store

import (
	"context"
	"sync"

	"github.com/ruivfernandes/tally/internal/ledger"
)

// MemoryStore is an ephemeral backend for tests and throwaway sessions.
type MemoryStore struct {
	mu    sync.Mutex
	data  ledger.Data
	saves int
}

func NewMemory() *MemoryStore {
	return &MemoryStore{data: ledger.DefaultData()}
}

// NewMemorySeeded starts from the given blob instead of the defaults.
func NewMemorySeeded(data ledger.Data) *MemoryStore {
	return &MemoryStore{data: data.Clone()}
}

func (s *MemoryStore) Load(ctx context.Context) (ledger.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, data ledger.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data.Clone()
	s.saves++

	return nil
}

// Saves reports how many times Save has been called, for tests asserting
// write-through behavior.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saves
}

func (s *MemoryStore) Close() error { return nil }
