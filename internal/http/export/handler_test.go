package export_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruivfernandes/tally/internal/export"
	exportHandler "github.com/ruivfernandes/tally/internal/http/export"
	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/store"
)

func newServer(t *testing.T, seed []ledger.Transaction) (*chi.Mux, *ledger.Repository) {
	t.Helper()

	data := ledger.DefaultData()
	data.Expenses = seed

	repo := ledger.Open(context.Background(), store.NewMemorySeeded(data))

	router := chi.NewRouter()
	router.Route("/export", exportHandler.NewHandler(export.NewService(repo)).Routes)

	return router, repo
}

func seedTx(id string) ledger.Transaction {
	return ledger.Transaction{
		ID:       id,
		Title:    "Groceries",
		Amount:   80,
		Category: "food",
		Type:     ledger.TypeExpense,
		Date:     time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestDownload(t *testing.T) {
	router, _ := newServer(t, []ledger.Transaction{seedTx("1")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "tally-backup-")

	var b export.Backup
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Len(t, b.Expenses, 1)
	assert.Len(t, b.Categories, 9)
	assert.False(t, b.ExportedAt.IsZero())
}

func TestStats(t *testing.T) {
	router, _ := newServer(t, []ledger.Transaction{seedTx("1")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1.0, got["count"])
	assert.Equal(t, 80.0, got["totalAmount"])
	assert.Equal(t, 1.0, got["categories"])
}

func TestRestore(t *testing.T) {
	router, repo := newServer(t, []ledger.Transaction{seedTx("old")})

	body := `{"expenses":[
		{"id":"r1","title":"Restored","amount":10,"category":"food","type":"expense","date":"2026-01-05T00:00:00Z"},
		{"id":"r2","title":"Salary","amount":3000,"category":"income","type":"income","date":"2026-01-01T00:00:00Z"}
	]}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/export/restore", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2, got["restored"])

	assert.Len(t, repo.List(context.Background()), 2)
}

func TestRestore_InvalidBackup(t *testing.T) {
	router, repo := newServer(t, []ledger.Transaction{seedTx("old")})

	body := `{"expenses":[{"title":"bad","amount":-1,"category":"food","type":"expense","date":"2026-01-05T00:00:00Z"}]}`

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/export/restore", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Current data untouched.
	txs := repo.List(context.Background())
	require.Len(t, txs, 1)
	assert.Equal(t, "old", txs[0].ID)
}

func TestRoundTrip_DownloadThenRestore(t *testing.T) {
	router, repo := newServer(t, []ledger.Transaction{seedTx("1")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	repo.ClearAll(context.Background())
	require.Empty(t, repo.List(context.Background()))

	restore := httptest.NewRecorder()
	router.ServeHTTP(restore, httptest.NewRequest(http.MethodPost, "/export/restore", w.Body))
	require.Equal(t, http.StatusOK, restore.Code)

	txs := repo.List(context.Background())
	require.Len(t, txs, 1)
	assert.Equal(t, "1", txs[0].ID)
	assert.Equal(t, "Groceries", txs[0].Title)
}
