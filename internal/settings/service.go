// Package settings exposes the session-wide preferences (theme, currency,
// monthly income baseline) as an explicit injectable service over the
// repository; there is no ambient global state.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ruivfernandes/tally/internal/ledger"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	ErrInvalidTheme    = errors.New("theme must be light or dark")
	ErrInvalidCurrency = errors.New("currency must be a 3-letter code")
	ErrNegativeIncome  = errors.New("monthly income cannot be negative")
)

type Service struct {
	repo *ledger.Repository
}

func NewService(repo *ledger.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) ledger.Settings {
	return s.repo.Settings(ctx)
}

// Patch carries the settings fields a caller wants to change. Nil fields are
// left untouched.
type Patch struct {
	Theme         *string
	Currency      *string
	MonthlyIncome *float64
}

// Update applies a patch atomically: every supplied field is validated
// before any of them is stored, so a rejected patch leaves the settings
// untouched.
func (s *Service) Update(ctx context.Context, p Patch) (ledger.Settings, error) {
	var lp ledger.SettingsPatch

	if p.Theme != nil {
		if *p.Theme != ThemeLight && *p.Theme != ThemeDark {
			return ledger.Settings{}, ErrInvalidTheme
		}

		lp.Theme = p.Theme
	}

	if p.Currency != nil {
		code, err := normalizeCurrency(*p.Currency)
		if err != nil {
			return ledger.Settings{}, err
		}

		lp.Currency = &code
	}

	if p.MonthlyIncome != nil {
		if *p.MonthlyIncome < 0 {
			return ledger.Settings{}, ErrNegativeIncome
		}

		lp.MonthlyIncome = p.MonthlyIncome
	}

	return s.repo.UpdateSettings(ctx, lp), nil
}

func (s *Service) SetTheme(ctx context.Context, theme string) (ledger.Settings, error) {
	return s.Update(ctx, Patch{Theme: &theme})
}

func (s *Service) SetCurrency(ctx context.Context, code string) (ledger.Settings, error) {
	return s.Update(ctx, Patch{Currency: &code})
}

// SetMonthlyIncome updates the budget baseline. This is a user-set target,
// deliberately separate from the sum of recorded income transactions.
func (s *Service) SetMonthlyIncome(ctx context.Context, income float64) (ledger.Settings, error) {
	return s.Update(ctx, Patch{MonthlyIncome: &income})
}

func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}

	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
		}
	}

	return code, nil
}
