package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/suggest"
)

type addState int

const (
	addStateForm addState = iota
	addStateSaving
	addStateResult
)

type AddModel struct {
	CommonModel
	repo    *ledger.Repository
	suggest *suggest.Service

	state addState
	form  *huh.Form
	err   error
	saved ledger.Transaction

	// Form bindings
	formTitle    string
	formAmount   string
	formType     string
	formCategory string
	formMethod   string
	formDate     string
	formNotes    string
}

func NewAddModel(repo *ledger.Repository, sg *suggest.Service) AddModel {
	m := AddModel{
		repo:     repo,
		suggest:  sg,
		formType: string(ledger.TypeExpense),
		formDate: FormatDate(time.Now()),
	}
	m.form = m.buildForm()
	return m
}

func (m AddModel) Title() string { return "Add Transaction" }

func (m AddModel) ShortHelp() string {
	if m.state == addStateResult {
		return "a: add another | Esc: back to menu"
	}
	return "Navigate form | Esc: cancel"
}

func (m AddModel) buildForm() *huh.Form {
	ctx, cancel := OpCtx()
	defer cancel()

	categories := []huh.Option[string]{
		huh.NewOption("Auto-detect from title", ""),
	}
	for _, c := range m.repo.Categories(ctx) {
		categories = append(categories, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
				Placeholder("Grocery shopping").
				Value(&m.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("12.50").
				Value(&m.formAmount).
				Validate(func(s string) error {
					v, err := ParseAmount(s)
					if err != nil {
						return fmt.Errorf("invalid amount")
					}
					if v <= 0 {
						return fmt.Errorf("amount must be positive")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(ledger.TypeExpense)),
					huh.NewOption("Income", string(ledger.TypeIncome)),
				).
				Value(&m.formType),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categories...).
				Value(&m.formCategory),

			huh.NewSelect[string]().
				Key("payment_method").
				Title("Payment Method").
				Options(
					huh.NewOption("Cash", "Cash"),
					huh.NewOption("Credit Card", "Credit Card"),
					huh.NewOption("Debit Card", "Debit Card"),
					huh.NewOption("Bank Transfer", "Bank Transfer"),
					huh.NewOption("UPI", "UPI"),
				).
				Value(&m.formMethod),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", s); err != nil {
						return fmt.Errorf("invalid date (YYYY-MM-DD)")
					}
					return nil
				}),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Placeholder("optional").
				Value(&m.formNotes),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AddModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saveMsg, ok := msg.(addSaveMsg); ok {
		m.state = addStateResult
		m.err = saveMsg.err
		m.saved = saveMsg.tx
		return m, nil
	}

	switch m.state {
	case addStateForm:
		return m.updateForm(msg)
	case addStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m AddModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = addStateSaving
	return m, m.saveCmd()
}

func (m AddModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "a":
			fresh := NewAddModel(m.repo, m.suggest)
			return fresh, fresh.Init()
		}
	}
	return m, nil
}

func (m AddModel) View() string {
	switch m.state {
	case addStateForm:
		return lipgloss.NewStyle().Padding(1).Render(
			headerStyle.Render("Add Transaction") + "\n\n" + m.form.View(),
		)

	case addStateSaving:
		return lipgloss.NewStyle().Padding(1).Render("Saving...")

	case addStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(
				expenseStyle.Render(fmt.Sprintf("Error: %v", m.err)),
			)
		}

		ctx, cancel := OpCtx()
		defer cancel()
		currency := m.repo.Settings(ctx).Currency

		return lipgloss.NewStyle().Padding(1).Render(
			incomeStyle.Render("Saved!") + "\n\n" +
				fmt.Sprintf("%s  %s  %s  (%s)",
					FormatDate(m.saved.Date),
					m.saved.Title,
					FormatAmount(m.saved.Amount, currency),
					m.saved.Category,
				),
		)
	}

	return ""
}

type addSaveMsg struct {
	tx  ledger.Transaction
	err error
}

func (m AddModel) saveCmd() tea.Cmd {
	amount, _ := ParseAmount(m.formAmount)
	date, _ := time.Parse("2006-01-02", m.formDate)

	in := ledger.Input{
		Title:         m.formTitle,
		Amount:        amount,
		Category:      m.formCategory,
		Type:          ledger.Type(m.formType),
		Date:          date,
		PaymentMethod: m.formMethod,
		Notes:         m.formNotes,
	}

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if in.Category == "" {
			in.Category = m.suggest.Category(ctx, in.Title)
			if in.Category == "" {
				in.Category = "other"
			}
		}

		tx, err := m.repo.Add(ctx, in)
		return addSaveMsg{tx: tx, err: err}
	}
}
