package transaction

import (
	"time"

	"github.com/ruivfernandes/tally/internal/ledger"
)

type transactionResponse struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Amount        float64     `json:"amount"`
	Category      string      `json:"category"`
	Type          ledger.Type `json:"type"`
	Date          string      `json:"date"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func toResponse(tx ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		Title:         tx.Title,
		Amount:        tx.Amount,
		Category:      tx.Category,
		Type:          tx.Type,
		Date:          tx.Date.Format(time.DateOnly),
		PaymentMethod: tx.PaymentMethod,
		Notes:         tx.Notes,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func toResponseList(txs []ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
