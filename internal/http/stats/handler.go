package stats

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/stats"
)

type Handler struct {
	repo *ledger.Repository
}

func NewHandler(repo *ledger.Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/overview", h.overview)
	r.Get("/categories", h.categories)
	r.Get("/monthly", h.monthly)
	r.Get("/yearly", h.yearly)
	r.Get("/daily", h.daily)
	r.Get("/payment-methods", h.paymentMethods)
	r.Get("/summary", h.summary)
}

// txType reads the optional type query param, defaulting to expense like
// the dashboard charts do.
func txType(r *http.Request) ledger.Type {
	if s := r.URL.Query().Get("type"); s != "" {
		return ledger.Type(s)
	}

	return ledger.TypeExpense
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stats.Summarize(h.repo.List(r.Context())))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stats.CategoryTotals(h.repo.List(r.Context()), txType(r)))
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	txs := h.repo.List(r.Context())

	if s := r.URL.Query().Get("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}

		writeJSON(w, stats.MonthlySeries(txs, year))

		return
	}

	writeJSON(w, stats.MonthlyTotals(txs, txType(r)))
}

func (h *Handler) yearly(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stats.YearlyTotals(h.repo.List(r.Context()), txType(r)))
}

func (h *Handler) daily(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	year := now.Year()
	month := int(now.Month())

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}

		year = y
	}

	if s := r.URL.Query().Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			http.Error(w, "invalid month", http.StatusBadRequest)
			return
		}

		month = m
	}

	writeJSON(w, stats.DailyTotals(h.repo.List(r.Context()), year, time.Month(month)))
}

func (h *Handler) paymentMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stats.PaymentMethodTotals(h.repo.List(r.Context()), txType(r)))
}

type summaryResponse struct {
	TopCategory string        `json:"topCategory"`
	Average     float64       `json:"average"`
	Extremes    stats.Extremes `json:"extremes"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	txs := h.repo.List(r.Context())
	t := txType(r)

	writeJSON(w, summaryResponse{
		TopCategory: stats.TopCategory(txs, t),
		Average:     stats.Average(txs, t),
		Extremes:    stats.AmountExtremes(txs, t),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
