package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/store"
)

func TestMemoryStore_StartsWithDefaults(t *testing.T) {
	s := store.NewMemory()

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultData(), got)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := store.NewMemory()

	want := sampleData()
	require.NoError(t, s.Save(context.Background(), want))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, s.Saves())
}

func TestMemoryStore_SeededAndIsolated(t *testing.T) {
	seed := sampleData()
	s := store.NewMemorySeeded(seed)

	// Mutating the seed after construction must not leak in.
	seed.Expenses[0].Title = "tampered"

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Expenses[0].Title)

	// Mutating a loaded snapshot must not leak back.
	got.Expenses[0].Title = "also tampered"

	again, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Groceries", again.Expenses[0].Title)
}
