package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/query"
	"github.com/ruivfernandes/tally/internal/stats"
)

type dashboardState int

const (
	dashboardStateTimeframe dashboardState = iota
	dashboardStateStats
)

type DashboardModel struct {
	CommonModel
	repo *ledger.Repository

	state           dashboardState
	timeframePicker TimeframePicker

	startDate time.Time
	endDate   time.Time
	allTime   bool

	currency   string
	categories map[string]string
	overview   stats.Overview
	top        string
	average    float64
	extremes   stats.Extremes
	byCategory map[string]float64
	byMethod   map[string]float64
	income     float64
}

func NewDashboardModel(repo *ledger.Repository) DashboardModel {
	return DashboardModel{
		repo:            repo,
		state:           dashboardStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashboardStateStats {
		return "Esc: change timeframe"
	}
	return "Esc: back | Enter: select"
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.startDate = msg.Start
		m.endDate = msg.End
		m.allTime = msg.All
		return m, m.loadCmd()

	case dashboardLoadMsg:
		m.state = dashboardStateStats
		m.currency = msg.currency
		m.categories = msg.categories
		m.overview = msg.overview
		m.top = msg.top
		m.average = msg.average
		m.extremes = msg.extremes
		m.byCategory = msg.byCategory
		m.byMethod = msg.byMethod
		m.income = msg.income
		return m, nil
	}

	switch m.state {
	case dashboardStateTimeframe:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
				return m, Back
			}
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)
		return m, cmd

	case dashboardStateStats:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.Type == tea.KeyEsc {
				m.state = dashboardStateTimeframe
				m.timeframePicker.Reset()
				return m, nil
			}
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	if m.state == dashboardStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	period := "All Time"
	if !m.allTime {
		period = fmt.Sprintf("%s – %s", FormatDate(m.startDate), FormatDate(m.endDate))
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("Dashboard") + faintStyle.Render("  "+period) + "\n\n")

	b.WriteString(fmt.Sprintf("Income:   %s\n", incomeStyle.Render(FormatAmount(m.overview.TotalIncome, m.currency))))
	b.WriteString(fmt.Sprintf("Expenses: %s\n", expenseStyle.Render(FormatAmount(m.overview.TotalExpenses, m.currency))))

	balance := FormatAmount(m.overview.Balance, m.currency)
	if m.overview.Balance >= 0 {
		balance = incomeStyle.Render(balance)
	} else {
		balance = expenseStyle.Render(balance)
	}
	b.WriteString(fmt.Sprintf("Balance:  %s   (%d transactions)\n\n", balance, m.overview.Count))

	if m.income > 0 {
		spent := 0.0
		if m.income != 0 {
			spent = m.overview.TotalExpenses / m.income * 100
		}
		b.WriteString(fmt.Sprintf("Monthly income baseline: %s (%.0f%% spent)\n\n",
			FormatAmount(m.income, m.currency), spent))
	}

	if m.overview.Count > 0 {
		top := m.top
		if name, ok := m.categories[top]; ok {
			top = name
		}
		b.WriteString(fmt.Sprintf("Top category:    %s\n", top))
		b.WriteString(fmt.Sprintf("Average expense: %s\n", FormatAmount(m.average, m.currency)))
		b.WriteString(fmt.Sprintf("Smallest:        %s\n", FormatAmount(m.extremes.Min, m.currency)))
		b.WriteString(fmt.Sprintf("Largest:         %s\n\n", FormatAmount(m.extremes.Max, m.currency)))
	}

	if len(m.byCategory) > 0 {
		b.WriteString(headerStyle.Render("By Category") + "\n")
		b.WriteString(m.renderBreakdown(m.byCategory, m.categories))
		b.WriteString("\n")
	}

	if len(m.byMethod) > 0 {
		b.WriteString(headerStyle.Render("By Payment Method") + "\n")
		b.WriteString(m.renderBreakdown(m.byMethod, nil))
	}

	return lipgloss.NewStyle().Padding(1).Render(b.String())
}

const breakdownBarWidth = 24

func (m DashboardModel) renderBreakdown(totals map[string]float64, names map[string]string) string {
	keys := make([]string, 0, len(totals))
	max := 0.0
	for k, v := range totals {
		keys = append(keys, k)
		if v > max {
			max = v
		}
	}
	sort.Slice(keys, func(i, j int) bool { return totals[keys[i]] > totals[keys[j]] })

	var b strings.Builder
	for _, k := range keys {
		label := k
		if name, ok := names[k]; ok {
			label = name
		}

		width := 0
		if max > 0 {
			width = int(totals[k] / max * breakdownBarWidth)
		}
		bar := strings.Repeat("█", width)

		b.WriteString(fmt.Sprintf("%-16s %-*s %s\n",
			label,
			breakdownBarWidth, bar,
			FormatAmount(totals[k], m.currency),
		))
	}
	return b.String()
}

type dashboardLoadMsg struct {
	currency   string
	categories map[string]string
	overview   stats.Overview
	top        string
	average    float64
	extremes   stats.Extremes
	byCategory map[string]float64
	byMethod   map[string]float64
	income     float64
}

func (m DashboardModel) loadCmd() tea.Cmd {
	start, end, all := m.startDate, m.endDate, m.allTime

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		filter := query.Filter{}
		if !all {
			filter.From = start
			filter.To = end
		}
		txs := query.Select(m.repo.List(ctx), filter)

		categories := make(map[string]string)
		for _, c := range m.repo.Categories(ctx) {
			categories[c.ID] = c.Name
		}

		settings := m.repo.Settings(ctx)

		return dashboardLoadMsg{
			currency:   settings.Currency,
			categories: categories,
			overview:   stats.Summarize(txs),
			top:        stats.TopCategory(txs, ledger.TypeExpense),
			average:    stats.Average(txs, ledger.TypeExpense),
			extremes:   stats.AmountExtremes(txs, ledger.TypeExpense),
			byCategory: stats.CategoryTotals(txs, ledger.TypeExpense),
			byMethod:   stats.PaymentMethodTotals(txs, ledger.TypeExpense),
			income:     settings.MonthlyIncome,
		}
	}
}
