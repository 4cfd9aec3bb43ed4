package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ruivfernandes/tally/internal/config"
	"github.com/ruivfernandes/tally/internal/database"
	"github.com/ruivfernandes/tally/internal/export"
	tallyHttp "github.com/ruivfernandes/tally/internal/http"
	exportHandler "github.com/ruivfernandes/tally/internal/http/export"
	settingsHandler "github.com/ruivfernandes/tally/internal/http/settings"
	statsHandler "github.com/ruivfernandes/tally/internal/http/stats"
	txHandler "github.com/ruivfernandes/tally/internal/http/transaction"
	"github.com/ruivfernandes/tally/internal/ledger"
	"github.com/ruivfernandes/tally/internal/settings"
	"github.com/ruivfernandes/tally/internal/store"
	"github.com/ruivfernandes/tally/internal/suggest"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	blobStore, closeStore, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	repo := ledger.Open(context.Background(), blobStore)

	var (
		settingsService = settings.NewService(repo)
		exportService   = export.NewService(repo)
		suggestService  = suggest.NewService(repo)
	)

	var (
		transactionH = txHandler.NewHandler(repo, suggestService)
		statsH       = statsHandler.NewHandler(repo)
		settingsH    = settingsHandler.NewHandler(settingsService)
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := tallyHttp.New(transactionH, statsH, settingsH, exportH, cfg.CORS.AllowedOrigins)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "backend", cfg.Store.Backend)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
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
