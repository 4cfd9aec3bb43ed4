package view

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/settings"
)

type settingsState int

const (
	settingsStateForm settingsState = iota
	settingsStateResult
)

type SettingsModel struct {
	CommonModel
	service *settings.Service

	state settingsState
	form  *huh.Form
	err   error
	saved ledger.Settings

	// Form bindings
	formCurrency string
	formTheme    string
	formIncome   string
}

func NewSettingsModel(svc *settings.Service) SettingsModel {
	ctx, cancel := OpCtx()
	defer cancel()

	current := svc.Get(ctx)

	m := SettingsModel{
		service:      svc,
		formCurrency: current.Currency,
		formTheme:    current.Theme,
		formIncome:   strconv.FormatFloat(current.MonthlyIncome, 'f', 2, 64),
	}
	m.form = m.buildForm()
	return m
}

func (m SettingsModel) Title() string { return "Settings" }

func (m SettingsModel) ShortHelp() string {
	if m.state == settingsStateResult {
		return "Esc: back to menu"
	}
	return "Navigate form | Esc: cancel"
}

func (m SettingsModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("currency").
				Title("Currency").
				Description("ISO 4217 code, e.g. USD").
				Value(&m.formCurrency).
				Validate(func(s string) error {
					s = strings.ToUpper(strings.TrimSpace(s))
					if len(s) != 3 {
						return fmt.Errorf("currency must be a 3-letter code")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("theme").
				Title("Theme").
				Options(
					huh.NewOption("Light", settings.ThemeLight),
					huh.NewOption("Dark", settings.ThemeDark),
				).
				Value(&m.formTheme),

			huh.NewInput().
				Key("monthly_income").
				Title("Monthly Income").
				Description("Baseline used for spending rate, 0 to disable").
				Value(&m.formIncome).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return fmt.Errorf("invalid amount")
					}
					if v < 0 {
						return fmt.Errorf("income cannot be negative")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SettingsModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saveMsg, ok := msg.(settingsSaveMsg); ok {
		m.state = settingsStateResult
		m.err = saveMsg.err
		m.saved = saveMsg.settings
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	if m.state != settingsStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m SettingsModel) View() string {
	switch m.state {
	case settingsStateForm:
		return lipgloss.NewStyle().Padding(1).Render(
			headerStyle.Render("Settings") + "\n\n" + m.form.View(),
		)

	case settingsStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(
				expenseStyle.Render(fmt.Sprintf("Error: %v", m.err)),
			)
		}

		return lipgloss.NewStyle().Padding(1).Render(
			incomeStyle.Render("Settings saved.") + "\n\n" +
				fmt.Sprintf("Currency: %s\nTheme: %s\nMonthly income: %s",
					m.saved.Currency,
					m.saved.Theme,
					FormatAmount(m.saved.MonthlyIncome, m.saved.Currency),
				),
		)
	}

	return ""
}

type settingsSaveMsg struct {
	settings ledger.Settings
	err      error
}

func (m SettingsModel) saveCmd() tea.Cmd {
	currency := m.formCurrency
	theme := m.formTheme
	income, _ := strconv.ParseFloat(strings.TrimSpace(m.formIncome), 64)

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		saved, err := m.service.Update(ctx, settings.Patch{
			Currency:      &currency,
			Theme:         &theme,
			MonthlyIncome: &income,
		})
		if err != nil {
			return settingsSaveMsg{err: err}
		}

		return settingsSaveMsg{settings: saved}
	}
}
