package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ruivfernandes/tally/internal/export"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Get("/stats", h.stats)
	r.Post("/restore", h.restore)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", h.svc.Filename(time.Now())))

	if err := h.svc.WriteJSON(r.Context(), w); err != nil {
		slog.Error("failed to write backup", "error", err)
	}
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(h.svc.Stats(r.Context())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type restoreResponse struct {
	Restored int `json:"restored"`
}

// restore takes the raw backup document as the request body. No
// content-type restriction: backups re-saved by other tools may arrive as
// UTF-16 and are normalized before parsing.
func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Restore(r.Context(), r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(restoreResponse{Restored: n}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
