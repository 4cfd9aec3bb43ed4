package view

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ruivfernandes/tally/internal/export"
)

type backupState int

const (
	backupStateChoose backupState = iota
	backupStatePath
	backupStateRunning
	backupStateResult
)

type backupAction string

const (
	backupActionExport  backupAction = "export"
	backupActionRestore backupAction = "restore"
)

type BackupModel struct {
	CommonModel
	exportService *export.Service

	state  backupState
	action backupAction
	err    error

	form    *huh.Form
	path    string
	spinner spinner.Model
	summary string
}

func NewBackupModel(svc *export.Service) BackupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := BackupModel{
		exportService: svc,
		state:         backupStateChoose,
		action:        backupActionExport,
		path:          "./exports",
		spinner:       s,
	}
	m.form = m.buildChooseForm()
	return m
}

func (m BackupModel) Title() string { return "Backup & Restore" }

func (m BackupModel) ShortHelp() string {
	switch m.state {
	case backupStateResult:
		return "Esc: back to menu"
	case backupStateRunning:
		return "Working..."
	}
	return "Esc: back | Enter: confirm"
}

func (m BackupModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m BackupModel) buildChooseForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[backupAction]().
				Key("action").
				Title("Action").
				Options(
					huh.NewOption("Export backup file", backupActionExport),
					huh.NewOption("Restore from backup file", backupActionRestore),
				).
				Value(&m.action),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m BackupModel) buildPathForm() *huh.Form {
	if m.action == backupActionRestore {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Key("path").
					Title("Backup File").
					Description("Replaces all current transactions").
					Placeholder("./exports/tally-backup-2026-01-01.json").
					Value(&m.path).
					Validate(func(s string) error {
						if _, err := os.Stat(s); err != nil {
							return fmt.Errorf("file not found")
						}
						return nil
					}),
			),
		).WithWidth(60).WithShowHelp(false)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.path),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(backupResultMsg); ok {
		m.state = backupStateResult
		m.err = result.err
		m.summary = result.body
		return m, nil
	}

	switch m.state {
	case backupStateChoose:
		return m.updateChoose(msg)
	case backupStatePath:
		return m.updatePath(msg)
	case backupStateRunning:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case backupStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.Type == tea.KeyEsc {
				return m, Back
			}
		}
	}

	return m, nil
}

func (m BackupModel) updateChoose(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	if m.action == backupActionRestore {
		m.path = ""
	}
	m.form = m.buildPathForm()
	m.state = backupStatePath
	return m, m.form.Init()
}

func (m BackupModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = backupStateChoose
			m.form = m.buildChooseForm()
			return m, m.form.Init()
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = backupStateRunning
	m.err = nil

	if m.action == backupActionRestore {
		return m, tea.Batch(m.spinner.Tick, m.runRestoreCmd(m.path))
	}
	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.path))
}

func (m BackupModel) View() string {
	switch m.state {
	case backupStateChoose, backupStatePath:
		return lipgloss.NewStyle().Padding(1).Render(
			headerStyle.Render("Backup & Restore") + "\n\n" + m.form.View(),
		)

	case backupStateRunning:
		verb := "Writing backup"
		if m.action == backupActionRestore {
			verb = "Restoring backup"
		}
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s %s...", m.spinner.View(), verb),
		)

	case backupStateResult:
		return m.viewResult()
	}

	return ""
}

func (m BackupModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			expenseStyle.Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Done!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", m.summary),
	)
}

type backupResultMsg struct {
	body string
	err  error
}

func (m BackupModel) runExportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return backupResultMsg{err: err}
		}

		path := filepath.Join(dir, m.exportService.Filename(time.Now()))

		f, err := os.Create(path)
		if err != nil {
			return backupResultMsg{err: err}
		}
		defer f.Close()

		if err := m.exportService.WriteJSON(ctx, f); err != nil {
			return backupResultMsg{err: err}
		}

		ds := m.exportService.Stats(ctx)
		body := fmt.Sprintf("Wrote %s\n\n%d transactions, %d categories in use",
			path, ds.Count, ds.Categories)
		return backupResultMsg{body: body}
	}
}

func (m BackupModel) runRestoreCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		f, err := os.Open(path)
		if err != nil {
			return backupResultMsg{err: err}
		}
		defer f.Close()

		n, err := m.exportService.Restore(ctx, f)
		if err != nil {
			return backupResultMsg{err: err}
		}

		return backupResultMsg{body: fmt.Sprintf("Restored %d transactions from %s", n, path)}
	}
}
