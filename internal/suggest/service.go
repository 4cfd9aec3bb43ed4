// Package suggest proposes a category for a new transaction from the titles
// the user has recorded before, so repeat entries like "Coffee" land in the
// right bucket without re-picking it every time.
package suggest

import (
	"context"
	"strings"

	"github.com/ruivfernandes/tally/internal/ledger"
)

// Lister provides the transaction snapshot the suggestions are mined from.
type Lister interface {
	List(ctx context.Context) []ledger.Transaction
}

type Service struct {
	repo Lister
}

func NewService(repo Lister) *Service {
	return &Service{repo: repo}
}

// Category returns the category of the best past match for the given title,
// or "" when nothing matches. A past title matches when either title
// contains the other, case-insensitively; longer matches win, and since the
// snapshot is newest-first, ties go to the most recent entry.
func (s *Service) Category(ctx context.Context, title string) string {
	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return ""
	}

	var (
		best    string
		bestLen int
	)

	for _, tx := range s.repo.List(ctx) {
		candidate := strings.ToLower(strings.TrimSpace(tx.Title))
		if candidate == "" {
			continue
		}

		if !strings.Contains(needle, candidate) && !strings.Contains(candidate, needle) {
			continue
		}

		matchLen := len(candidate)
		if matchLen > len(needle) {
			matchLen = len(needle)
		}

		if matchLen > bestLen {
			best = tx.Category
			bestLen = matchLen
		}
	}

	return best
}
