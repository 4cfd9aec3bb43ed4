// Package query filters and sorts transaction snapshots. Functions return
// fresh slices and never mutate their input; filtering and sorting are
// independent and can be composed in any order.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/ruivfernandes/tally/internal/ledger"
)

// All is the sentinel meaning "no constraint" for category, type and
// payment-method filters.
const All = "all"

// Filter describes the optional predicates, combined with logical AND.
// Zero values (and the All sentinel) leave a predicate unconstrained.
type Filter struct {
	// Search matches case-insensitively against title and notes.
	Search        string
	Category      string
	Type          ledger.Type
	PaymentMethod string
	// From and To bound the date inclusively. A zero time leaves the bound
	// open.
	From time.Time
	To   time.Time
}

// SortField selects the sort key.
type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
)

// Direction selects ascending or descending order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort describes the ordering. A zero Sort leaves the input order untouched.
type Sort struct {
	Field SortField
	Dir   Direction
}

// Apply filters then sorts, returning a new slice. An empty result is a
// valid outcome, not an error.
func Apply(txs []ledger.Transaction, f Filter, s Sort) []ledger.Transaction {
	out := Select(txs, f)

	SortInPlace(out, s)

	return out
}

// Select returns the transactions matching every set predicate.
func Select(txs []ledger.Transaction, f Filter) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(txs))

	needle := strings.ToLower(strings.TrimSpace(f.Search))

	for _, tx := range txs {
		if needle != "" {
			title := strings.ToLower(tx.Title)
			notes := strings.ToLower(tx.Notes)

			if !strings.Contains(title, needle) && !strings.Contains(notes, needle) {
				continue
			}
		}

		if f.Category != "" && f.Category != All && tx.Category != f.Category {
			continue
		}

		if f.Type != "" && f.Type != ledger.Type(All) && tx.Type != f.Type {
			continue
		}

		if f.PaymentMethod != "" && f.PaymentMethod != All && tx.PaymentMethod != f.PaymentMethod {
			continue
		}

		if !f.From.IsZero() && tx.Date.Before(f.From) {
			continue
		}

		if !f.To.IsZero() && tx.Date.After(f.To) {
			continue
		}

		out = append(out, tx)
	}

	return out
}

// SortInPlace orders the slice by the given key and direction. The sort is
// stable: records equal under the key keep their relative input order, in
// both directions.
func SortInPlace(txs []ledger.Transaction, s Sort) {
	if s.Field == "" {
		return
	}

	var less func(a, b ledger.Transaction) bool

	switch s.Field {
	case SortByAmount:
		less = func(a, b ledger.Transaction) bool { return a.Amount < b.Amount }
	case SortByCategory:
		less = func(a, b ledger.Transaction) bool { return a.Category < b.Category }
	default:
		less = func(a, b ledger.Transaction) bool { return a.Date.Before(b.Date) }
	}

	if s.Dir == Desc {
		inner := less
		less = func(a, b ledger.Transaction) bool { return inner(b, a) }
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return less(txs[i], txs[j])
	})
}
