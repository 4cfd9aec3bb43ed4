// Package export produces the downloadable backup document and restores
// previously exported backups. The backup is a one-way serialization
// boundary: nothing internal consumes it except Restore.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ruivfernandes/tally/internal/encoding"
	"github.com/ruivfernandes/tally/internal/ledger"
)

// Backup is the export document: the persisted blob shape plus the export
// timestamp.
type Backup struct {
	Expenses   []ledger.Transaction `json:"expenses"`
	Categories []ledger.Category    `json:"categories"`
	Settings   *ledger.Settings     `json:"settings,omitempty"`
	ExportedAt time.Time            `json:"exportedAt"`
}

// DataStats summarizes the stored data for the settings screen.
type DataStats struct {
	Count      int       `json:"count"`
	Total      float64   `json:"totalAmount"`
	Categories int       `json:"categories"`
	Oldest     time.Time `json:"oldest,omitzero"`
	Newest     time.Time `json:"newest,omitzero"`
}

// Service handles backup export and restore.
type Service struct {
	repo *ledger.Repository
}

func NewService(repo *ledger.Repository) *Service {
	return &Service{repo: repo}
}

// Snapshot builds the backup document from the current data.
func (s *Service) Snapshot(ctx context.Context) Backup {
	data := s.repo.Snapshot(ctx)

	return Backup{
		Expenses:   data.Expenses,
		Categories: data.Categories,
		Settings:   &data.Settings,
		ExportedAt: time.Now().UTC(),
	}
}

// WriteJSON streams the indented backup document, suitable for a file
// download.
func (s *Service) WriteJSON(ctx context.Context, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(s.Snapshot(ctx)); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	return nil
}

// Filename is the suggested download name for a backup taken now.
func (s *Service) Filename(now time.Time) string {
	return fmt.Sprintf("tally-backup-%s.json", now.Format("2006-01-02"))
}

// Restore parses a backup document and replaces the transaction collection
// with its contents, all-or-nothing. The file encoding is sniffed and
// normalized first since backups re-saved by other tools are not always
// UTF-8. When the backup carries a settings object, its fields are restored;
// theme and currency are skipped when empty since there is no valid empty
// value for either. The category catalog is reference data and is left
// as-is.
func (s *Service) Restore(ctx context.Context, r io.Reader) (int, error) {
	utf8r, err := encoding.UTF8Reader(r)
	if err != nil {
		return 0, fmt.Errorf("preparing backup: %w", err)
	}

	var b Backup
	if err := json.NewDecoder(utf8r).Decode(&b); err != nil {
		return 0, fmt.Errorf("parsing backup: %w", err)
	}

	if err := s.repo.ReplaceAll(ctx, b.Expenses); err != nil {
		return 0, fmt.Errorf("restoring transactions: %w", err)
	}

	if b.Settings != nil {
		patch := ledger.SettingsPatch{MonthlyIncome: &b.Settings.MonthlyIncome}

		if b.Settings.Currency != "" {
			patch.Currency = &b.Settings.Currency
		}

		if b.Settings.Theme != "" {
			patch.Theme = &b.Settings.Theme
		}

		s.repo.UpdateSettings(ctx, patch)
	}

	return len(b.Expenses), nil
}

// Stats reports the data-management numbers shown on the settings screen.
func (s *Service) Stats(ctx context.Context) DataStats {
	txs := s.repo.List(ctx)

	ds := DataStats{Count: len(txs)}

	seen := map[string]struct{}{}

	for _, tx := range txs {
		ds.Total += tx.Amount
		seen[tx.Category] = struct{}{}

		if ds.Oldest.IsZero() || tx.Date.Before(ds.Oldest) {
			ds.Oldest = tx.Date
		}

		if ds.Newest.IsZero() || tx.Date.After(ds.Newest) {
			ds.Newest = tx.Date
		}
	}

	ds.Categories = len(seen)

	return ds
}
