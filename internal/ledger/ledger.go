package ledger

import (
	"time"
)

// Type represents the direction of a transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// DefaultPaymentMethod is applied when a transaction is recorded without one.
const DefaultPaymentMethod = "Cash"

// Transaction represents a single recorded income or expense event.
// Amount is a positive magnitude in floating-point dollars; the sign applied
// during aggregation comes from Type.
type Transaction struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Amount        float64   `json:"amount"`
	Category      string    `json:"category"`
	Type          Type      `json:"type"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Category is catalog reference data carrying display metadata for charts.
// Transactions hold a category id and look the entry up for display; they
// never own the Category itself.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Settings is the small session-wide configuration persisted alongside the
// transaction list. MonthlyIncome is a user-set budget baseline, distinct
// from summed transactions of type income.
type Settings struct {
	Currency      string  `json:"currency"`
	Theme         string  `json:"theme"`
	MonthlyIncome float64 `json:"monthlyIncome"`
}

// Data is the full persisted blob: the transaction list plus reference data
// and settings. Every save writes the whole snapshot.
type Data struct {
	Expenses   []Transaction `json:"expenses"`
	Categories []Category    `json:"categories"`
	Settings   Settings      `json:"settings"`
}

// DefaultSettings returns the settings used on first launch.
func DefaultSettings() Settings {
	return Settings{
		Currency:      "USD",
		Theme:         "light",
		MonthlyIncome: 5000,
	}
}

// DefaultCategories returns the built-in category catalog.
func DefaultCategories() []Category {
	return []Category{
		{ID: "food", Name: "Food & Dining", Color: "#FF6B6B", Icon: "🍔"},
		{ID: "transport", Name: "Transportation", Color: "#4ECDC4", Icon: "🚗"},
		{ID: "entertainment", Name: "Entertainment", Color: "#95E1D3", Icon: "🎮"},
		{ID: "shopping", Name: "Shopping", Color: "#F38181", Icon: "🛍️"},
		{ID: "bills", Name: "Bills & Utilities", Color: "#AA96DA", Icon: "💡"},
		{ID: "health", Name: "Healthcare", Color: "#FCBAD3", Icon: "🏥"},
		{ID: "education", Name: "Education", Color: "#A8D8EA", Icon: "📚"},
		{ID: "income", Name: "Income", Color: "#48BB78", Icon: "💰"},
		{ID: "other", Name: "Other", Color: "#A0AEC0", Icon: "📦"},
	}
}

// DefaultData returns the blob written on first launch and the fallback used
// when the stored blob is absent or unreadable.
func DefaultData() Data {
	return Data{
		Expenses:   []Transaction{},
		Categories: DefaultCategories(),
		Settings:   DefaultSettings(),
	}
}

// Clone returns a deep copy of the blob so read-only consumers can never
// mutate the repository's canonical state.
func (d Data) Clone() Data {
	out := Data{
		Expenses:   make([]Transaction, len(d.Expenses)),
		Categories: make([]Category, len(d.Categories)),
		Settings:   d.Settings,
	}
	copy(out.Expenses, d.Expenses)
	copy(out.Categories, d.Categories)

	return out
}
