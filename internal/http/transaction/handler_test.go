package transaction_test

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

	"github.com/ruivfernandes/tally/internal/http/transaction"
	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/store"
	"github.com/ruivfernandes/tally/internal/suggest"
)

func newServer(t *testing.T, seed []ledger.Transaction) (*chi.Mux, *ledger.Repository) {
	t.Helper()

	data := ledger.DefaultData()
	data.Expenses = seed

	repo := ledger.Open(context.Background(), store.NewMemorySeeded(data))
	handler := transaction.NewHandler(repo, suggest.NewService(repo))

	router := chi.NewRouter()
	router.Route("/transactions", handler.Routes)

	return router, repo
}

func seedTx(id, title string, amount float64, category string, typ ledger.Type, day int) ledger.Transaction {
	return ledger.Transaction{
		ID:            id,
		Title:         title,
		Amount:        amount,
		Category:      category,
		Type:          typ,
		Date:          time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		PaymentMethod: "Cash",
		CreatedAt:     time.Date(2026, 1, day, 10, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2026, 1, day, 10, 0, 0, 0, time.UTC),
	}
}

func doJSON(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	return w
}

func TestCreate(t *testing.T) {
	router, repo := newServer(t, nil)

	w := doJSON(t, router, http.MethodPost, "/transactions/",
		`{"title":"Coffee","amount":4.5,"category":"food","type":"expense","date":"2026-01-10","notes":"morning"}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotEmpty(t, got["id"])
	assert.Equal(t, "Coffee", got["title"])
	assert.Equal(t, 4.5, got["amount"])
	assert.Equal(t, "2026-01-10", got["date"])
	assert.Equal(t, "Cash", got["paymentMethod"])

	assert.Len(t, repo.List(context.Background()), 1)
}

func TestCreate_ValidationErrors(t *testing.T) {
	router, repo := newServer(t, nil)

	w := doJSON(t, router, http.MethodPost, "/transactions/",
		`{"title":"","amount":-1,"category":"","type":"expense","date":"2026-01-10"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var got struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got.Errors, "title")
	assert.Contains(t, got.Errors, "amount")
	assert.Contains(t, got.Errors, "category")

	assert.Empty(t, repo.List(context.Background()))
}

func TestCreate_BadDate(t *testing.T) {
	router, _ := newServer(t, nil)

	w := doJSON(t, router, http.MethodPost, "/transactions/",
		`{"title":"x","amount":1,"category":"food","type":"expense","date":"10/01/2026"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "date")
}

func TestCreate_MalformedBody(t *testing.T) {
	router, _ := newServer(t, nil)

	w := doJSON(t, router, http.MethodPost, "/transactions/", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestList(t *testing.T) {
	router, _ := newServer(t, []ledger.Transaction{
		seedTx("1", "Groceries", 80, "food", ledger.TypeExpense, 5),
		seedTx("2", "Rent", 1200, "bills", ledger.TypeExpense, 1),
		seedTx("3", "Salary", 3000, "income", ledger.TypeIncome, 1),
	})

	w := doJSON(t, router, http.MethodGet, "/transactions/", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 3)

	// Newest first by default.
	assert.Equal(t, "1", got[0]["id"])
}

func TestList_Filters(t *testing.T) {
	seed := []ledger.Transaction{
		seedTx("1", "Grocery Shopping", 80, "food", ledger.TypeExpense, 5),
		seedTx("2", "Rent", 1200, "bills", ledger.TypeExpense, 1),
		seedTx("3", "Salary", 3000, "income", ledger.TypeIncome, 1),
		seedTx("4", "Coffee", 4.5, "food", ledger.TypeExpense, 10),
	}

	type testCase struct {
		name    string
		target  string
		wantIDs []string
	}

	tests := []testCase{
		{name: "Search", target: "/transactions/?q=gro", wantIDs: []string{"1"}},
		{name: "Category", target: "/transactions/?category=food", wantIDs: []string{"4", "1"}},
		{name: "Type", target: "/transactions/?type=income", wantIDs: []string{"3"}},
		{name: "DateRange", target: "/transactions/?start_date=2026-01-01&end_date=2026-01-05", wantIDs: []string{"1", "2", "3"}},
		{name: "SortAmountDesc", target: "/transactions/?sort=amount&dir=desc", wantIDs: []string{"3", "2", "1", "4"}},
		{name: "Combined", target: "/transactions/?category=food&sort=amount&dir=asc", wantIDs: []string{"4", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newServer(t, seed)

			w := doJSON(t, router, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code)

			var got []map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

			ids := make([]string, len(got))
			for i, tx := range got {
				ids[i] = tx["id"].(string)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestList_BadDateParams(t *testing.T) {
	type testCase struct {
		name   string
		target string
	}

	tests := []testCase{
		{name: "StartDate", target: "/transactions/?start_date=nope"},
		{name: "EndDate", target: "/transactions/?end_date=2026-13-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newServer(t, nil)

			w := doJSON(t, router, http.MethodGet, tt.target, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGet(t *testing.T) {
	router, _ := newServer(t, []ledger.Transaction{
		seedTx("1", "Groceries", 80, "food", ledger.TypeExpense, 5),
	})

	w := doJSON(t, router, http.MethodGet, "/transactions/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Groceries", got["title"])

	w = doJSON(t, router, http.MethodGet, "/transactions/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate(t *testing.T) {
	router, repo := newServer(t, []ledger.Transaction{
		seedTx("1", "Groceries", 80, "food", ledger.TypeExpense, 5),
	})

	w := doJSON(t, router, http.MethodPatch, "/transactions/1",
		`{"title":"Weekly Groceries","amount":95.5}`)

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Weekly Groceries", got["title"])
	assert.Equal(t, 95.5, got["amount"])
	assert.Equal(t, "food", got["category"])

	stored, err := repo.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Groceries", stored.Title)
}

func TestUpdate_NotFound(t *testing.T) {
	router, _ := newServer(t, nil)

	w := doJSON(t, router, http.MethodPatch, "/transactions/missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdate_InvalidPatch(t *testing.T) {
	router, repo := newServer(t, []ledger.Transaction{
		seedTx("1", "Groceries", 80, "food", ledger.TypeExpense, 5),
	})

	w := doJSON(t, router, http.MethodPatch, "/transactions/1", `{"amount":-5}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	stored, err := repo.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, stored.Amount)
}

func TestDelete_Idempotent(t *testing.T) {
	router, repo := newServer(t, []ledger.Transaction{
		seedTx("1", "Groceries", 80, "food", ledger.TypeExpense, 5),
	})

	w := doJSON(t, router, http.MethodDelete, "/transactions/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.List(context.Background()))

	// Second delete of the same id is still a success.
	w = doJSON(t, router, http.MethodDelete, "/transactions/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestClearAll(t *testing.T) {
	router, repo := newServer(t, []ledger.Transaction{
		seedTx("1", "Groceries", 80, "food", ledger.TypeExpense, 5),
		seedTx("2", "Rent", 1200, "bills", ledger.TypeExpense, 1),
	})

	w := doJSON(t, router, http.MethodDelete, "/transactions/", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.List(context.Background()))
}

func TestSuggest(t *testing.T) {
	router, _ := newServer(t, []ledger.Transaction{
		seedTx("1", "Coffee", 4.5, "food", ledger.TypeExpense, 5),
	})

	w := doJSON(t, router, http.MethodGet, "/transactions/suggest?title=coffee", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "food", got["category"])

	w = doJSON(t, router, http.MethodGet, "/transactions/suggest?title=skydiving", "")
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "", got["category"])
}
