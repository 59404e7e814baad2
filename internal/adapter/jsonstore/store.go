// Package jsonstore persists pipeline records as indented JSON artifacts.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Store writes record lists to named files, overwriting previous runs.
type Store struct {
	logger *slog.Logger
}

// NewStore creates a JSON file store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{logger: logger}
}

// Save serializes records to path as 4-space-indented UTF-8 JSON, replacing
// any existing file. Errors name the path and the underlying cause.
func (s *Store) Save(records any, path string) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("serialize records for %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	s.logger.Info("data saved", "path", path)
	return nil
}
