// Package stats derives dashboard numbers from a transaction snapshot.
// Every function is pure: it reads the slice it is given and never mutates
// it. Sums are accumulated at full float precision; rounding for display is
// the caller's concern.
package stats

import (
	"time"

	"github.com/ruivfernandes/tally/internal/ledger"
)

// Overview is the headline summary shown on the dashboard.
type Overview struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Balance       float64 `json:"balance"`
	Count         int     `json:"totalTransactions"`
}

// Summarize computes the headline totals in a single pass.
func Summarize(txs []ledger.Transaction) Overview {
	var o Overview

	for _, tx := range txs {
		switch tx.Type {
		case ledger.TypeIncome:
			o.TotalIncome += tx.Amount
		case ledger.TypeExpense:
			o.TotalExpenses += tx.Amount
		}
	}

	o.Balance = o.TotalIncome - o.TotalExpenses
	o.Count = len(txs)

	return o
}

// TotalByType sums the amounts of all transactions of the given type.
// Returns 0 for empty input.
func TotalByType(txs []ledger.Transaction, t ledger.Type) float64 {
	var sum float64

	for _, tx := range txs {
		if tx.Type == t {
			sum += tx.Amount
		}
	}

	return sum
}

// Balance is total income minus total expenses.
func Balance(txs []ledger.Transaction) float64 {
	return TotalByType(txs, ledger.TypeIncome) - TotalByType(txs, ledger.TypeExpense)
}

// CategoryTotals groups amounts by category for the given type. Categories
// with no matching transactions are omitted, not zero-filled.
func CategoryTotals(txs []ledger.Transaction, t ledger.Type) map[string]float64 {
	totals := map[string]float64{}

	for _, tx := range txs {
		if tx.Type == t {
			totals[tx.Category] += tx.Amount
		}
	}

	return totals
}

// TopCategory returns the category with the largest summed amount for the
// given type. Ties break in favor of the category first encountered in the
// input. Returns "" when no transaction matches; callers render that as
// "no data" rather than treating it as an error.
func TopCategory(txs []ledger.Transaction, t ledger.Type) string {
	totals := map[string]float64{}
	order := []string{}

	for _, tx := range txs {
		if tx.Type != t {
			continue
		}

		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}

		totals[tx.Category] += tx.Amount
	}

	top := ""

	var best float64

	for _, cat := range order {
		if top == "" || totals[cat] > best {
			top = cat
			best = totals[cat]
		}
	}

	return top
}

// MonthlyTotals groups amounts for the given type by calendar month, keyed
// "YYYY-MM" so lexicographic order equals chronological order.
func MonthlyTotals(txs []ledger.Transaction, t ledger.Type) map[string]float64 {
	totals := map[string]float64{}

	for _, tx := range txs {
		if tx.Type == t {
			totals[tx.Date.Format("2006-01")] += tx.Amount
		}
	}

	return totals
}

// YearlyTotals groups amounts for the given type by calendar year.
func YearlyTotals(txs []ledger.Transaction, t ledger.Type) map[int]float64 {
	totals := map[int]float64{}

	for _, tx := range txs {
		if tx.Type == t {
			totals[tx.Date.Year()] += tx.Amount
		}
	}

	return totals
}

// DayTotal is one entry of the dense daily expense series.
type DayTotal struct {
	Day   int     `json:"day"`
	Total float64 `json:"amount"`
}

// DailyTotals returns the expense sum for every calendar day of the given
// month, one entry per day from 1 to the month's length. Unlike the
// category and monthly groupings this series is dense: days with no
// expenses appear with a 0 total so time-series charts stay contiguous.
func DailyTotals(txs []ledger.Transaction, year int, month time.Month) []DayTotal {
	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	series := make([]DayTotal, days)
	for i := range series {
		series[i].Day = i + 1
	}

	for _, tx := range txs {
		if tx.Type != ledger.TypeExpense {
			continue
		}

		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}

		series[tx.Date.Day()-1].Total += tx.Amount
	}

	return series
}

// MonthPoint pairs income and expense totals for one month of a year.
type MonthPoint struct {
	Month    time.Month `json:"month"`
	Income   float64    `json:"income"`
	Expenses float64    `json:"expenses"`
}

// MonthlySeries returns twelve entries, one per month of the given year,
// dense like DailyTotals, for the income/expense trend chart.
func MonthlySeries(txs []ledger.Transaction, year int) []MonthPoint {
	series := make([]MonthPoint, 12)
	for i := range series {
		series[i].Month = time.Month(i + 1)
	}

	for _, tx := range txs {
		if tx.Date.Year() != year {
			continue
		}

		p := &series[int(tx.Date.Month())-1]

		switch tx.Type {
		case ledger.TypeIncome:
			p.Income += tx.Amount
		case ledger.TypeExpense:
			p.Expenses += tx.Amount
		}
	}

	return series
}

// PaymentMethodTotals groups amounts for the given type by payment method.
// Records without one count under the default method.
func PaymentMethodTotals(txs []ledger.Transaction, t ledger.Type) map[string]float64 {
	totals := map[string]float64{}

	for _, tx := range txs {
		if tx.Type != t {
			continue
		}

		method := tx.PaymentMethod
		if method == "" {
			method = ledger.DefaultPaymentMethod
		}

		totals[method] += tx.Amount
	}

	return totals
}

// Average is the mean amount for the given type, 0 when no transaction
// matches.
func Average(txs []ledger.Transaction, t ledger.Type) float64 {
	var (
		sum   float64
		count int
	)

	for _, tx := range txs {
		if tx.Type == t {
			sum += tx.Amount
			count++
		}
	}

	if count == 0 {
		return 0
	}

	return sum / float64(count)
}

// Extremes holds the smallest and largest amounts for a type. For empty
// input both are 0: the source conflated "no data" with zero and that
// behavior is kept deliberately instead of signalling via error.
type Extremes struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// AmountExtremes scans the amounts of the given type.
func AmountExtremes(txs []ledger.Transaction, t ledger.Type) Extremes {
	var (
		ext   Extremes
		found bool
	)

	for _, tx := range txs {
		if tx.Type != t {
			continue
		}

		if !found {
			ext.Min = tx.Amount
			ext.Max = tx.Amount
			found = true

			continue
		}

		if tx.Amount < ext.Min {
			ext.Min = tx.Amount
		}

		if tx.Amount > ext.Max {
			ext.Max = tx.Amount
		}
	}

	return ext
}
