package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/query"
	"github.com/ruivfernandes/tally/internal/suggest"
)

type Handler struct {
	repo    *ledger.Repository
	suggest *suggest.Service
}

func NewHandler(repo *ledger.Repository, suggestSvc *suggest.Service) *Handler {
	return &Handler{repo: repo, suggest: suggestSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/", h.clearAll)
	r.Get("/suggest", h.suggestCategory)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createTransactionRequest struct {
	Title         string      `json:"title"`
	Amount        float64     `json:"amount"`
	Category      string      `json:"category"`
	Type          ledger.Type `json:"type"`
	Date          string      `json:"date"`
	PaymentMethod string      `json:"paymentMethod"`
	Notes         string      `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, ok := parseDate(req.Date)
	if req.Date != "" && !ok {
		writeFieldErrors(w, map[string]string{"date": "date must be YYYY-MM-DD"})
		return
	}

	tx, err := h.repo.Add(r.Context(), ledger.Input{
		Title:         req.Title,
		Amount:        req.Amount,
		Category:      req.Category,
		Type:          req.Type,
		Date:          date,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := query.Filter{
		Search:        r.URL.Query().Get("q"),
		Category:      r.URL.Query().Get("category"),
		PaymentMethod: r.URL.Query().Get("payment_method"),
	}

	if s := r.URL.Query().Get("type"); s != "" {
		filter.Type = ledger.Type(s)
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, ok := parseDate(s)
		if !ok {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		filter.From = t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, ok := parseDate(s)
		if !ok {
			http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		// Inclusive upper bound for date-only input.
		filter.To = t.Add(24*time.Hour - time.Second)
	}

	srt := query.Sort{
		Field: query.SortField(r.URL.Query().Get("sort")),
		Dir:   query.Direction(r.URL.Query().Get("dir")),
	}

	txs := query.Apply(h.repo.List(r.Context()), filter, srt)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateTransactionRequest struct {
	Title         *string      `json:"title,omitempty"`
	Amount        *float64     `json:"amount,omitempty"`
	Category      *string      `json:"category,omitempty"`
	Type          *ledger.Type `json:"type,omitempty"`
	Date          *string      `json:"date,omitempty"`
	PaymentMethod *string      `json:"paymentMethod,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch := ledger.Patch{
		Title:         req.Title,
		Amount:        req.Amount,
		Category:      req.Category,
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}

	if req.Date != nil {
		date, ok := parseDate(*req.Date)
		if !ok {
			writeFieldErrors(w, map[string]string{"date": "date must be YYYY-MM-DD"})
			return
		}

		patch.Date = &date
	}

	tx, err := h.repo.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	// Deleting an absent id is a no-op success.
	h.repo.Delete(r.Context(), chi.URLParam(r, "id"))

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearAll(w http.ResponseWriter, r *http.Request) {
	h.repo.ClearAll(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) suggestCategory(w http.ResponseWriter, r *http.Request) {
	category := h.suggest.Category(r.Context(), r.URL.Query().Get("title"))

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]string{"category": category}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Categories serves the catalog; mounted at /categories by the router.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.repo.Categories(r.Context())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}

	return time.Time{}, false
}

func writeError(w http.ResponseWriter, err error) {
	if verr, ok := ledger.IsValidation(err); ok {
		writeFieldErrors(w, verr.Fields)
		return
	}

	if errors.Is(err, ledger.ErrNotFound) {
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	}

	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)

	if err := json.NewEncoder(w).Encode(map[string]any{"errors": fields}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
