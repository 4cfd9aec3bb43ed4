package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/query"
)

type browseState int

const (
	browseStateBrowse browseState = iota
	browseStateEdit
	browseStateConfirmDelete
)

type BrowseModel struct {
	CommonModel
	repo *ledger.Repository

	state browseState
	table table.Model
	txs   []ledger.Transaction
	form  *huh.Form

	currency   string
	categories map[string]string

	// Filter cycling
	typeFilterIdx int
	dateFilterIdx int
	sortIdx       int

	filter  query.Filter
	sort    query.Sort
	loading bool
	err     error
	status  string

	// Form bindings
	formTitle    string
	formAmount   string
	formCategory string
	formNotes    string
}

func NewBrowseModel(repo *ledger.Repository) BrowseModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 14},
		{Title: "Amount", Width: 12},
		{Title: "Payment", Width: 14},
		{Title: "Title", Width: 32},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BrowseModel{
		repo:  repo,
		table: t,
		sort:  query.Sort{Field: query.SortByDate, Dir: query.Desc},
	}
}

func (m BrowseModel) Title() string { return "Browse Transactions" }

func (m BrowseModel) ShortHelp() string {
	switch m.state {
	case browseStateEdit:
		return "Navigate form | Esc: cancel"
	case browseStateConfirmDelete:
		return "y: delete | any other key: cancel"
	}
	return "Esc: back | e: edit | x: delete | t: type filter | d: date filter | s: sort | r: refresh"
}

func (m BrowseModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case browseLoadMsg:
		m.loading = false
		m.txs = msg.txs
		m.currency = msg.currency
		m.categories = msg.categories
		m.refreshTable()
		return m, nil

	case browseSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = "Saved."
		}
		m.state = browseStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadCmd()

	case browseDeleteMsg:
		if msg.deleted {
			m.status = "Deleted."
		} else {
			m.status = "Already gone."
		}
		m.state = browseStateBrowse
		m.table.Focus()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case browseStateBrowse:
		return m.updateBrowse(msg)
	case browseStateEdit:
		return m.updateEdit(msg)
	case browseStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m BrowseModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		case "x":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.txs) {
				m.state = browseStateConfirmDelete
				m.table.Blur()
			}
			return m, nil
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()
			return m, m.loadCmd()
		case "s":
			m.sortIdx = (m.sortIdx + 1) % 4
			m.applySort()
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BrowseModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return m, nil
	}

	tx := m.txs[idx]
	m.formTitle = tx.Title
	m.formAmount = fmt.Sprintf("%.2f", tx.Amount)
	m.formCategory = tx.Category
	m.formNotes = tx.Notes

	ctx, cancel := OpCtx()
	defer cancel()

	var categories []huh.Option[string]
	for _, c := range m.repo.Categories(ctx) {
		categories = append(categories, huh.NewOption(c.Name, c.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("title").
				Title("Title").
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
				Key("category").
				Title("Category").
				Options(categories...).
				Value(&m.formCategory),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = browseStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m BrowseModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = browseStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
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

func (m BrowseModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if keyMsg.String() == "y" {
		return m, m.deleteCmd()
	}

	m.state = browseStateBrowse
	m.table.Focus()
	return m, nil
}

func (m BrowseModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	typeLabels := []string{"All", "Expenses", "Income"}
	dateLabels := []string{"All Time", "This Month", "Last Month"}
	sortLabels := []string{"Date ↓", "Date ↑", "Amount ↓", "Amount ↑"}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s | [s] Sort: %s",
		activeStyle(typeLabels[m.typeFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
		activeStyle(sortLabels[m.sortIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == browseStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Edit Transaction\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.state == browseStateConfirmDelete {
		idx := m.table.Cursor()
		title := ""
		if idx >= 0 && idx < len(m.txs) {
			title = m.txs[idx].Title
		}
		content += "\n" + expenseStyle.Render(fmt.Sprintf("Delete %q? (y/n)", title))
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *BrowseModel) applyFilter() {
	switch m.typeFilterIdx {
	case 1:
		m.filter.Type = ledger.TypeExpense
	case 2:
		m.filter.Type = ledger.TypeIncome
	default:
		m.filter.Type = ledger.Type(query.All)
	}

	now := time.Now()
	switch m.dateFilterIdx {
	case 1:
		m.filter.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		m.filter.To = m.filter.From.AddDate(0, 1, 0).Add(-time.Nanosecond)
	case 2:
		m.filter.From = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		m.filter.To = m.filter.From.AddDate(0, 1, 0).Add(-time.Nanosecond)
	default:
		m.filter.From = time.Time{}
		m.filter.To = time.Time{}
	}
}

func (m *BrowseModel) applySort() {
	switch m.sortIdx {
	case 1:
		m.sort = query.Sort{Field: query.SortByDate, Dir: query.Asc}
	case 2:
		m.sort = query.Sort{Field: query.SortByAmount, Dir: query.Desc}
	case 3:
		m.sort = query.Sort{Field: query.SortByAmount, Dir: query.Asc}
	default:
		m.sort = query.Sort{Field: query.SortByDate, Dir: query.Desc}
	}
}

func (m *BrowseModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		amount := FormatAmount(tx.Amount, m.currency)
		if tx.Type == ledger.TypeIncome {
			amount = "+" + amount
		}

		category := tx.Category
		if name, ok := m.categories[tx.Category]; ok {
			category = name
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			category,
			amount,
			tx.PaymentMethod,
			tx.Title,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type browseLoadMsg struct {
	txs        []ledger.Transaction
	currency   string
	categories map[string]string
}

func (m BrowseModel) loadCmd() tea.Cmd {
	filter := m.filter
	srt := m.sort

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		txs := query.Apply(m.repo.List(ctx), filter, srt)

		categories := make(map[string]string)
		for _, c := range m.repo.Categories(ctx) {
			categories[c.ID] = c.Name
		}

		return browseLoadMsg{
			txs:        txs,
			currency:   m.repo.Settings(ctx).Currency,
			categories: categories,
		}
	}
}

type browseSaveMsg struct {
	err error
}

func (m BrowseModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	id := m.txs[idx].ID
	amount, _ := ParseAmount(m.formAmount)
	title := m.formTitle
	category := m.formCategory
	notes := m.formNotes

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		_, err := m.repo.Update(ctx, id, ledger.Patch{
			Title:    &title,
			Amount:   &amount,
			Category: &category,
			Notes:    &notes,
		})
		return browseSaveMsg{err: err}
	}
}

type browseDeleteMsg struct {
	deleted bool
}

func (m BrowseModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	id := m.txs[idx].ID

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		return browseDeleteMsg{deleted: m.repo.Delete(ctx, id)}
	}
}
