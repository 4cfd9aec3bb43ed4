package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/settings"
	"github.com/ruivfernandes/tally/internal/store"
)

func newService(t *testing.T) *settings.Service {
	t.Helper()

	repo := ledger.Open(context.Background(), store.NewMemory())

	return settings.NewService(repo)
}

func TestService_Get_Defaults(t *testing.T) {
	svc := newService(t)

	got := svc.Get(context.Background())
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, settings.ThemeLight, got.Theme)
	assert.Equal(t, 5000.0, got.MonthlyIncome)
}

func TestService_SetTheme(t *testing.T) {
	svc := newService(t)

	got, err := svc.SetTheme(context.Background(), settings.ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeDark, got.Theme)

	_, err = svc.SetTheme(context.Background(), "solarized")
	assert.ErrorIs(t, err, settings.ErrInvalidTheme)

	// The failed call changed nothing.
	assert.Equal(t, settings.ThemeDark, svc.Get(context.Background()).Theme)
}

func TestService_SetCurrency(t *testing.T) {
	type testCase struct {
		name    string
		code    string
		want    string
		wantErr bool
	}

	tests := []testCase{
		{name: "Valid", code: "EUR", want: "EUR"},
		{name: "Lowercased", code: "gbp", want: "GBP"},
		{name: "Trimmed", code: " JPY ", want: "JPY"},
		{name: "TooShort", code: "EU", wantErr: true},
		{name: "TooLong", code: "EURO", wantErr: true},
		{name: "NonLetters", code: "E2R", wantErr: true},
		{name: "Empty", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t)

			got, err := svc.SetCurrency(context.Background(), tt.code)

			if tt.wantErr {
				assert.ErrorIs(t, err, settings.ErrInvalidCurrency)
				assert.Equal(t, "USD", svc.Get(context.Background()).Currency)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Currency)
		})
	}
}

func TestService_Update_AppliesAllFields(t *testing.T) {
	svc := newService(t)

	theme := settings.ThemeDark
	currency := "eur"
	income := 2500.0

	got, err := svc.Update(context.Background(), settings.Patch{
		Theme:         &theme,
		Currency:      &currency,
		MonthlyIncome: &income,
	})
	require.NoError(t, err)
	assert.Equal(t, settings.ThemeDark, got.Theme)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, 2500.0, got.MonthlyIncome)
}

func TestService_Update_MixedInvalidPatchMutatesNothing(t *testing.T) {
	svc := newService(t)

	theme := settings.ThemeDark
	currency := "EURO"

	_, err := svc.Update(context.Background(), settings.Patch{
		Theme:    &theme,
		Currency: &currency,
	})
	assert.ErrorIs(t, err, settings.ErrInvalidCurrency)

	// The valid theme did not land either.
	got := svc.Get(context.Background())
	assert.Equal(t, settings.ThemeLight, got.Theme)
	assert.Equal(t, "USD", got.Currency)
}

func TestService_SetMonthlyIncome(t *testing.T) {
	svc := newService(t)

	got, err := svc.SetMonthlyIncome(context.Background(), 3200.50)
	require.NoError(t, err)
	assert.Equal(t, 3200.50, got.MonthlyIncome)

	// Zero disables the baseline and is valid.
	got, err = svc.SetMonthlyIncome(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, got.MonthlyIncome)

	_, err = svc.SetMonthlyIncome(context.Background(), -1)
	assert.ErrorIs(t, err, settings.ErrNegativeIncome)
	assert.Zero(t, svc.Get(context.Background()).MonthlyIncome)
}
