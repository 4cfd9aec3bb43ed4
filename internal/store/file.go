package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ruivfernandes/tally/internal/ledger"
)

// FileStore persists the blob as a single JSON file. Writes go through a
// temp file and rename so a crash mid-write never leaves a truncated blob.
type FileStore struct {
	path string
}

func NewFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(ctx context.Context) (ledger.Data, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ledger.DefaultData(), nil
		}

		return ledger.Data{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var data ledger.Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return ledger.Data{}, fmt.Errorf("parsing %s: %w", s.path, err)
	}

	return data, nil
}

func (s *FileStore) Save(ctx context.Context, data ledger.Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding blob: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}

func (s *FileStore) Close() error { return nil }
