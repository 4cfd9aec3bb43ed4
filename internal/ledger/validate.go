package ledger

import (
	"strings"
	"time"
)

// Input holds the user-editable fields of a transaction. The repository
// assigns id and timestamps on create.
type Input struct {
	Title         string
	Amount        float64
	Category      string
	Type          Type
	Date          time.Time
	PaymentMethod string
	Notes         string
}

// Patch is a partial Input for updates; nil fields are left untouched.
type Patch struct {
	Title         *string
	Amount        *float64
	Category      *string
	Type          *Type
	Date          *time.Time
	PaymentMethod *string
	Notes         *string
}

// Validate checks the input against the collection invariants and returns a
// ValidationError listing every failing field, or nil when the input is
// valid. It never mutates the input.
func (in Input) Validate() *ValidationError {
	fields := map[string]string{}

	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	}

	if in.Amount <= 0 {
		fields["amount"] = "amount must be greater than 0"
	}

	if strings.TrimSpace(in.Category) == "" {
		fields["category"] = "category is required"
	}

	if in.Date.IsZero() {
		fields["date"] = "date is required"
	}

	switch in.Type {
	case TypeIncome, TypeExpense:
	default:
		fields["type"] = "type must be income or expense"
	}

	if len(fields) == 0 {
		return nil
	}

	return &ValidationError{Fields: fields}
}

// apply merges the patch onto the transaction's editable fields and returns
// the merged values as an Input for re-validation.
func (p Patch) apply(tx Transaction) Input {
	in := Input{
		Title:         tx.Title,
		Amount:        tx.Amount,
		Category:      tx.Category,
		Type:          tx.Type,
		Date:          tx.Date,
		PaymentMethod: tx.PaymentMethod,
		Notes:         tx.Notes,
	}

	if p.Title != nil {
		in.Title = *p.Title
	}

	if p.Amount != nil {
		in.Amount = *p.Amount
	}

	if p.Category != nil {
		in.Category = *p.Category
	}

	if p.Type != nil {
		in.Type = *p.Type
	}

	if p.Date != nil {
		in.Date = *p.Date
	}

	if p.PaymentMethod != nil {
		in.PaymentMethod = *p.PaymentMethod
	}

	if p.Notes != nil {
		in.Notes = *p.Notes
	}

	return in
}
