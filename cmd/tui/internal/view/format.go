package view

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const opTimeout = 5 * time.Second

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// FormatAmount formats an amount with the symbol for the given currency code.
// Unknown currencies fall back to the code itself as a prefix.
func FormatAmount(amount float64, currency string) string {
	if sym, ok := currencySymbols[currency]; ok {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// ParseAmount parses a user-entered amount, tolerating a leading currency
// symbol and surrounding whitespace.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	for _, sym := range currencySymbols {
		s = strings.TrimPrefix(s, sym)
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// OpCtx returns a context with a standard timeout for repository operations.
func OpCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
