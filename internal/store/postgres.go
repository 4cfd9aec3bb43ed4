package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ruivfernandes/tally/internal/ledger"
)

// PostgresStore keeps the blob in a key-value table on a Postgres server,
// for running the tracker against shared infrastructure instead of a local
// file. The contract is identical to the other backends: one blob, full
// overwrite per save, last write wins.
type PostgresStore struct {
	db  *sql.DB
	key string
}

func NewPostgres(db *sql.DB) (*PostgresStore, error) {
	schema := `
		CREATE TABLE IF NOT EXISTS blobs (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating blobs table: %w", err)
	}

	return &PostgresStore{db: db, key: DefaultKey}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (ledger.Data, error) {
	var raw string

	err := s.db.QueryRowContext(ctx, "SELECT value FROM blobs WHERE key = $1", s.key).Scan(&raw)
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

func (s *PostgresStore) Save(ctx context.Context, data ledger.Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding blob: %w", err)
	}

	query := `
		INSERT INTO blobs (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, s.key, string(raw)); err != nil {
		return fmt.Errorf("writing blob: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}

	return nil
}
