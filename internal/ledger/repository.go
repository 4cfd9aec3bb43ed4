package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=store_mock.go -package=ledger
type Store interface {
	// Load reads the persisted blob. Backends return an error only for real
	// read failures; an absent blob yields the default data.
	Load(ctx context.Context) (Data, error)
	// Save overwrites the entire blob.
	Save(ctx context.Context, data Data) error
}

// Repository owns the canonical in-memory transaction collection for the
// session and mediates all mutations. Every successful mutation writes the
// full blob back to the store before returning, then notifies subscribers
// synchronously. The store blob and the in-memory collection are therefore
// consistent whenever a mutating call returns.
//
// Persistence failures do not roll back the in-memory mutation: memory stays
// authoritative for the session and the failure is surfaced via SaveHealth
// and a warning log.
type Repository struct {
	mu        sync.RWMutex
	store     Store
	data      Data
	listeners []func()
	saveErr   error
}

// Open loads the blob once from the store and returns the repository that
// owns it for the rest of the session. A corrupt or unreadable blob falls
// back to the default data with a warning; Open fails only if the store
// itself cannot be constructed, which is handled by the caller.
func Open(ctx context.Context, s Store) *Repository {
	data, err := s.Load(ctx)
	if err != nil {
		slog.Warn("falling back to default data", "error", err)

		data = DefaultData()
	}

	if data.Expenses == nil {
		data.Expenses = []Transaction{}
	}

	if len(data.Categories) == 0 {
		data.Categories = DefaultCategories()
	}

	return &Repository{store: s, data: data}
}

// Subscribe registers a listener invoked synchronously after every mutation.
// Listeners must not call back into the repository's mutating methods.
func (r *Repository) Subscribe(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listeners = append(r.listeners, fn)
}

// List returns a snapshot of the collection ordered newest-first by date.
// Callers re-fetch after mutations; the returned slice is theirs to keep.
func (r *Repository) List(ctx context.Context) []Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Transaction, len(r.data.Expenses))
	copy(out, r.data.Expenses)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	return out
}

// Get returns the transaction with the given id.
func (r *Repository) Get(ctx context.Context, id string) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, tx := range r.data.Expenses {
		if tx.ID == id {
			return tx, nil
		}
	}

	return Transaction{}, ErrNotFound
}

// Add validates the input, assigns a fresh id and timestamps, appends the
// record and persists. On validation failure nothing is mutated.
func (r *Repository) Add(ctx context.Context, in Input) (Transaction, error) {
	if verr := in.Validate(); verr != nil {
		return Transaction{}, verr
	}

	now := time.Now().UTC()

	tx := Transaction{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(in.Title),
		Amount:        in.Amount,
		Category:      in.Category,
		Type:          in.Type,
		Date:          in.Date,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if tx.PaymentMethod == "" {
		tx.PaymentMethod = DefaultPaymentMethod
	}

	r.mu.Lock()
	r.data.Expenses = append(r.data.Expenses, tx)
	r.persist(ctx)
	r.mu.Unlock()

	r.notify()

	return tx, nil
}

// Update merges the patch onto the stored record, re-validates the merged
// result and persists. Id and CreatedAt are immutable; UpdatedAt is
// refreshed. Returns ErrNotFound for an unknown id and a ValidationError
// when the merged record would be invalid, mutating nothing in either case.
func (r *Repository) Update(ctx context.Context, id string, p Patch) (Transaction, error) {
	r.mu.Lock()

	idx := -1

	for i, tx := range r.data.Expenses {
		if tx.ID == id {
			idx = i
			break
		}
	}

	if idx == -1 {
		r.mu.Unlock()
		return Transaction{}, ErrNotFound
	}

	merged := p.apply(r.data.Expenses[idx])
	if verr := merged.Validate(); verr != nil {
		r.mu.Unlock()
		return Transaction{}, verr
	}

	tx := r.data.Expenses[idx]
	tx.Title = strings.TrimSpace(merged.Title)
	tx.Amount = merged.Amount
	tx.Category = merged.Category
	tx.Type = merged.Type
	tx.Date = merged.Date
	tx.PaymentMethod = merged.PaymentMethod
	tx.Notes = merged.Notes
	tx.UpdatedAt = time.Now().UTC()

	if tx.PaymentMethod == "" {
		tx.PaymentMethod = DefaultPaymentMethod
	}

	r.data.Expenses[idx] = tx
	r.persist(ctx)
	r.mu.Unlock()

	r.notify()

	return tx, nil
}

// Delete removes the record if present and reports whether anything was
// removed. Deleting an absent id is not an error.
func (r *Repository) Delete(ctx context.Context, id string) bool {
	r.mu.Lock()

	idx := -1

	for i, tx := range r.data.Expenses {
		if tx.ID == id {
			idx = i
			break
		}
	}

	if idx == -1 {
		r.mu.Unlock()
		return false
	}

	r.data.Expenses = append(r.data.Expenses[:idx], r.data.Expenses[idx+1:]...)
	r.persist(ctx)
	r.mu.Unlock()

	r.notify()

	return true
}

// ClearAll empties the collection and persists the empty state. Categories
// and settings are kept.
func (r *Repository) ClearAll(ctx context.Context) {
	r.mu.Lock()
	r.data.Expenses = []Transaction{}
	r.persist(ctx)
	r.mu.Unlock()

	r.notify()
}

// ReplaceAll swaps the whole collection, used by backup restore. Records are
// validated as inputs, ids must be unique across the incoming set, and the
// operation is all-or-nothing.
func (r *Repository) ReplaceAll(ctx context.Context, txs []Transaction) error {
	seen := make(map[string]struct{}, len(txs))

	for i, tx := range txs {
		in := Input{
			Title:    tx.Title,
			Amount:   tx.Amount,
			Category: tx.Category,
			Type:     tx.Type,
			Date:     tx.Date,
		}
		if verr := in.Validate(); verr != nil {
			return fmt.Errorf("record %d (%q): %w", i, tx.ID, verr)
		}

		if tx.ID != "" {
			if _, dup := seen[tx.ID]; dup {
				return fmt.Errorf("record %d: duplicate id %q", i, tx.ID)
			}

			seen[tx.ID] = struct{}{}
		}
	}

	replacement := make([]Transaction, len(txs))
	copy(replacement, txs)

	now := time.Now().UTC()

	for i := range replacement {
		if replacement[i].ID == "" {
			replacement[i].ID = uuid.NewString()
		}

		if replacement[i].PaymentMethod == "" {
			replacement[i].PaymentMethod = DefaultPaymentMethod
		}

		if replacement[i].CreatedAt.IsZero() {
			replacement[i].CreatedAt = now
		}

		if replacement[i].UpdatedAt.IsZero() {
			replacement[i].UpdatedAt = now
		}
	}

	r.mu.Lock()
	r.data.Expenses = replacement
	r.persist(ctx)
	r.mu.Unlock()

	r.notify()

	return nil
}

// Categories returns the catalog.
func (r *Repository) Categories(ctx context.Context) []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Category, len(r.data.Categories))
	copy(out, r.data.Categories)

	return out
}

// CategoryByID looks a catalog entry up by id. Unknown ids fall back to the
// "other" entry for display purposes; stored transactions are never
// auto-corrected.
func (r *Repository) CategoryByID(ctx context.Context, id string) (Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.data.Categories {
		if c.ID == id {
			return c, true
		}
	}

	for _, c := range r.data.Categories {
		if c.ID == "other" {
			return c, false
		}
	}

	return Category{}, false
}

// Settings returns the current settings snapshot.
func (r *Repository) Settings(ctx context.Context) Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.data.Settings
}

// SettingsPatch is a partial settings update; nil fields are untouched.
type SettingsPatch struct {
	Currency      *string
	Theme         *string
	MonthlyIncome *float64
}

// UpdateSettings applies the patch and persists.
func (r *Repository) UpdateSettings(ctx context.Context, p SettingsPatch) Settings {
	r.mu.Lock()

	if p.Currency != nil {
		r.data.Settings.Currency = *p.Currency
	}

	if p.Theme != nil {
		r.data.Settings.Theme = *p.Theme
	}

	if p.MonthlyIncome != nil {
		r.data.Settings.MonthlyIncome = *p.MonthlyIncome
	}

	s := r.data.Settings
	r.persist(ctx)
	r.mu.Unlock()

	r.notify()

	return s
}

// Snapshot returns a deep copy of the whole blob for export.
func (r *Repository) Snapshot(ctx context.Context) Data {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.data.Clone()
}

// SaveHealth returns the error from the most recent persistence attempt, or
// nil when the last write succeeded. Callers treat a non-nil value as a
// warning: the in-memory state is still authoritative.
func (r *Repository) SaveHealth() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.saveErr
}

// persist writes the full blob through to the store. Must be called with
// r.mu held. A failed write is recorded and logged but never undoes the
// in-memory mutation.
func (r *Repository) persist(ctx context.Context) {
	if err := r.store.Save(ctx, r.data.Clone()); err != nil {
		r.saveErr = fmt.Errorf("saving ledger: %w", err)
		slog.Warn("persistence failed, in-memory state kept", "error", err)

		return
	}

	r.saveErr = nil
}

func (r *Repository) notify() {
	r.mu.RLock()
	listeners := make([]func(), len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}
