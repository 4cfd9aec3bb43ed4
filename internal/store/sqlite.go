package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/ruivfernandes/tally/internal/ledger"
)

// SQLiteStore keeps the blob in a single-row key-value table inside an
// embedded SQLite database. This is the default backend: durable, local and
// dependency-free at runtime, the closest analogue to the original
// browser-local storage.
type SQLiteStore struct {
	db  *sql.DB
	key string
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS blobs (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating blobs table: %w", err)
	}

	return &SQLiteStore{db: db, key: DefaultKey}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (ledger.Data, error) {
	var raw string

	err := s.db.QueryRowContext(ctx, "SELECT value FROM blobs WHERE key = ?", s.key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.DefaultData(), nil
		}

		return ledger.Data{}, fmt.Errorf("reading blob: %w", err)
	}

	var data ledger.Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return ledger.Data{}, fmt.Errorf("parsing blob: %w", err)
	}

	return data, nil
}

func (s *SQLiteStore) Save(ctx context.Context, data ledger.Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding blob: %w", err)
	}

	query := `
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, s.key, string(raw)); err != nil {
		return fmt.Errorf("writing blob: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}
