package settings_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	settingsHandler "github.com/ruivfernandes/tally/internal/http/settings"
	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/settings"
	"github.com/ruivfernandes/tally/internal/store"
)

func newServer(t *testing.T) (*chi.Mux, *settings.Service) {
	t.Helper()

	repo := ledger.Open(context.Background(), store.NewMemory())
	svc := settings.NewService(repo)

	router := chi.NewRouter()
	router.Route("/settings", settingsHandler.NewHandler(svc).Routes)

	return router, svc
}

func TestGet(t *testing.T) {
	router, _ := newServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings/", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "USD", got["currency"])
	assert.Equal(t, "light", got["theme"])
	assert.Equal(t, 5000.0, got["monthlyIncome"])
}

func TestUpdate(t *testing.T) {
	router, svc := newServer(t)

	body := `{"currency":"eur","theme":"dark","monthlyIncome":2500}`
	r := httptest.NewRequest(http.MethodPatch, "/settings/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "EUR", got["currency"])
	assert.Equal(t, "dark", got["theme"])
	assert.Equal(t, 2500.0, got["monthlyIncome"])

	assert.Equal(t, "EUR", svc.Get(context.Background()).Currency)
}

func TestUpdate_PartialPatch(t *testing.T) {
	router, svc := newServer(t)

	r := httptest.NewRequest(http.MethodPatch, "/settings/", strings.NewReader(`{"theme":"dark"}`))
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	got := svc.Get(context.Background())
	assert.Equal(t, "dark", got.Theme)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, 5000.0, got.MonthlyIncome)
}

func TestUpdate_Invalid(t *testing.T) {
	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "Theme", body: `{"theme":"solarized"}`},
		{name: "Currency", body: `{"currency":"EURO"}`},
		{name: "NegativeIncome", body: `{"monthlyIncome":-10}`},
		{name: "ValidThemeWithInvalidCurrency", body: `{"theme":"dark","currency":"EURO"}`},
		{name: "ValidCurrencyWithNegativeIncome", body: `{"currency":"EUR","monthlyIncome":-10}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newServer(t)

			r := httptest.NewRequest(http.MethodPatch, "/settings/", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, "USD", svc.Get(context.Background()).Currency)
			assert.Equal(t, "light", svc.Get(context.Background()).Theme)
		})
	}
}

func TestUpdate_MalformedBody(t *testing.T) {
	router, _ := newServer(t)

	r := httptest.NewRequest(http.MethodPatch, "/settings/", strings.NewReader(`{broken`))
	r.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
