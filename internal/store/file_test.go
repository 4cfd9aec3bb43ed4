package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/store"
)

func sampleData() ledger.Data {
	data := ledger.DefaultData()
	data.Expenses = []ledger.Transaction{
		{
			ID:            "tx-1",
			Title:         "Groceries",
			Amount:        85.20,
			Category:      "food",
			Type:          ledger.TypeExpense,
			Date:          time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			PaymentMethod: "Cash",
			CreatedAt:     time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC),
		},
	}
	data.Settings.Currency = "EUR"

	return data
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "tally.json")

	s, err := store.NewFile(path)
	require.NoError(t, err)

	want := sampleData()
	require.NoError(t, s.Save(context.Background(), want))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_MissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")

	s, err := store.NewFile(path)
	require.NoError(t, err)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ledger.DefaultData(), got)
}

func TestFileStore_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := store.NewFile(path)
	require.NoError(t, err)

	_, err = s.Load(context.Background())
	assert.Error(t, err)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.json")

	s, err := store.NewFile(path)
	require.NoError(t, err)

	first := sampleData()
	require.NoError(t, s.Save(context.Background(), first))

	second := first.Clone()
	second.Expenses = []ledger.Transaction{}
	require.NoError(t, s.Save(context.Background(), second))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Expenses)

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
