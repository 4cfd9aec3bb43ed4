package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/ruivfernandes/tally/cmd/tui/internal/view"
	"github.com/ruivfernandes/tally/internal/config"
	"github.com/ruivfernandes/tally/internal/database"
	"github.com/ruivfernandes/tally/internal/export"
	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/settings"
	"github.com/ruivfernandes/tally/internal/store"
	"github.com/ruivfernandes/tally/internal/suggest"
)

type model struct {
	repo            *ledger.Repository
	settingsService *settings.Service
	exportService   *export.Service
	suggestService  *suggest.Service

	currentView View

	addView       view.AddModel
	browseView    view.BrowseModel
	dashboardView view.DashboardModel
	settingsView  view.SettingsModel
	backupView    view.BackupModel
}

type View int

const (
	ViewMenu      View = 0
	ViewAdd       View = 1
	ViewBrowse    View = 2
	ViewDashboard View = 3
	ViewSettings  View = 4
	ViewBackup    View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	blobStore, _, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}

	repo := ledger.Open(context.Background(), blobStore)

	settingsSvc := settings.NewService(repo)
	exportSvc := export.NewService(repo)
	suggestSvc := suggest.NewService(repo)

	return model{
		repo:            repo,
		settingsService: settingsSvc,
		exportService:   exportSvc,
		suggestService:  suggestSvc,
		currentView:     ViewMenu,
		addView:         view.NewAddModel(repo, suggestSvc),
		browseView:      view.NewBrowseModel(repo),
		dashboardView:   view.NewDashboardModel(repo),
		settingsView:    view.NewSettingsModel(settingsSvc),
		backupView:      view.NewBackupModel(exportSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewAdd
				m.addView = view.NewAddModel(m.repo, m.suggestService)

				return m, m.addView.Init()
			case "2":
				m.currentView = ViewBrowse
				m.browseView = view.NewBrowseModel(m.repo)

				return m, m.browseView.Init()
			case "3":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.repo)

				return m, m.dashboardView.Init()
			case "4":
				m.currentView = ViewSettings
				m.settingsView = view.NewSettingsModel(m.settingsService)

				return m, m.settingsView.Init()
			case "5":
				m.currentView = ViewBackup
				m.backupView = view.NewBackupModel(m.exportService)

				return m, m.backupView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewAdd:
		var newModel tea.Model
		newModel, cmd = m.addView.Update(msg)
		m.addView = newModel.(view.AddModel)
	case ViewBrowse:
		var newModel tea.Model
		newModel, cmd = m.browseView.Update(msg)
		m.browseView = newModel.(view.BrowseModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewSettings:
		var newModel tea.Model
		newModel, cmd = m.settingsView.Update(msg)
		m.settingsView = newModel.(view.SettingsModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Tally TUI\n\n" +
				"1. Add Transaction\n" +
				"2. Browse Transactions\n" +
				"3. Dashboard\n" +
				"4. Settings\n" +
				"5. Backup & Restore\n\n" +
				"q. Quit",
		)
	case ViewAdd:
		return m.addView.View()
	case ViewBrowse:
		return m.browseView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewBackup:
		return m.backupView.View()
	}

	return "Unknown View"
}

func openStore(cfg *config.Config) (ledger.Store, func() error, error) {
	switch cfg.Store.Backend {
	case "memory":
		s := store.NewMemory()
		return s, s.Close, nil
	case "file":
		s, err := store.NewFile(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil
	case "sqlite":
		s, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil
	case "postgres":
		db, err := database.Open(cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		s, err := store.NewPostgres(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}

		return s, s.Close, nil
	}

	return nil, nil, fmt.Errorf("%w: %s", store.ErrUnknownBackend, cfg.Store.Backend)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
