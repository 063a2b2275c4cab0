// Package store is the on-disk document store: raw fetched protocol HTML
// and the parsed JSON records, addressed by (period, index).
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xhad/plenum/internal/models"
)

type Store struct {
	dir string
}

// New opens the document store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("document store directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document store: %v", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store root directory.
func (s *Store) Dir() string {
	return s.dir
}

// RawPath returns the path of the raw HTML document for (period, index).
func (s *Store) RawPath(period, index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("protocol-%d-%d.html", period, index))
}

// RecordPath returns the path of the parsed JSON record for (period, index).
func (s *Store) RecordPath(period, index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("protocol-%d-%d.json", period, index))
}

// HasRaw reports whether the raw document exists on disk.
func (s *Store) HasRaw(period, index int) bool {
	_, err := os.Stat(s.RawPath(period, index))
	return err == nil
}

// WriteRaw persists a fetched document. An existing file is overwritten,
// which only happens on forced re-fetch.
func (s *Store) WriteRaw(period, index int, body []byte) error {
	return os.WriteFile(s.RawPath(period, index), body, 0o644)
}

// ReadRaw returns the raw document content for (period, index).
func (s *Store) ReadRaw(period, index int) ([]byte, error) {
	return os.ReadFile(s.RawPath(period, index))
}

// WriteRecord persists a parsed protocol record as JSON. The marshaling
// is deterministic, so re-parsing an unchanged document produces a
// byte-identical file.
func (s *Store) WriteRecord(protocol models.Protocol) error {
	data, err := json.MarshalIndent(protocol, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(s.RecordPath(protocol.Period, protocol.Index), data, 0o644)
}

// ReadRecord loads a parsed protocol record.
func (s *Store) ReadRecord(period, index int) (models.Protocol, error) {
	var protocol models.Protocol
	data, err := os.ReadFile(s.RecordPath(period, index))
	if err != nil {
		return protocol, err
	}
	if err := json.Unmarshal(data, &protocol); err != nil {
		return protocol, fmt.Errorf("failed to decode record %d-%d: %v", period, index, err)
	}
	return protocol, nil
}
