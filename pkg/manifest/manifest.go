// Package manifest persists the fetch status of protocol documents, one
// JSON manifest file per legislative period. Each entry walks the state
// machine unknown -> fetching -> fetched or failed; a failed entry may be
// retried, a fetched entry is only re-entered when forced.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/xhad/plenum/internal/models"
)

// ErrCorrupt marks a manifest file that could not be decoded. This is
// fatal for the run: the operator has to repair or delete the file.
var ErrCorrupt = errors.New("manifest file is corrupt")

// Manifest tracks the fetch status of all documents of one period.
type Manifest struct {
	period  int
	entries map[int]models.ManifestEntry
}

// Filename returns the manifest file name for a period inside dir.
func Filename(dir string, period int) string {
	return filepath.Join(dir, fmt.Sprintf("period-%d.json", period))
}

// Load reads the manifest for a period from dir. A missing file yields an
// empty manifest; an undecodable file yields ErrCorrupt.
func Load(dir string, period int) (*Manifest, error) {
	m := &Manifest{
		period:  period,
		entries: make(map[int]models.ManifestEntry),
	}

	filename := Filename(dir, period)
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading manifest %s: %v", filename, err)
	}

	raw := make(map[string]models.ManifestEntry)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v (repair or delete the file and re-run load)",
			ErrCorrupt, filename, err)
	}

	for key, entry := range raw {
		index, err := strconv.Atoi(key)
		if err != nil || index < 1 {
			return nil, fmt.Errorf("%w: %s: invalid document index %q (repair or delete the file and re-run load)",
				ErrCorrupt, filename, key)
		}
		m.entries[index] = entry
	}

	return m, nil
}

// Save writes the manifest back to its period file in dir.
func (m *Manifest) Save(dir string) error {
	raw := make(map[string]models.ManifestEntry, len(m.entries))
	for index, entry := range m.entries {
		raw[strconv.Itoa(index)] = entry
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(Filename(dir, m.period), data, 0o644)
}

// Period returns the legislative period this manifest belongs to.
func (m *Manifest) Period() int {
	return m.period
}

// Status returns the fetch status of an index. Indices without an entry
// are StatusUnknown.
func (m *Manifest) Status(index int) models.FetchStatus {
	entry, ok := m.entries[index]
	if !ok {
		return models.StatusUnknown
	}
	return entry.Status
}

// Begin moves an index into the fetching state and records the source
// URL. It returns false when the index is already fetched and force is
// not set; the caller must then skip the fetch entirely.
func (m *Manifest) Begin(index int, url string, force bool) bool {
	if m.Status(index) == models.StatusFetched && !force {
		return false
	}
	m.entries[index] = models.ManifestEntry{
		Status:    models.StatusFetching,
		URL:       url,
		Timestamp: time.Now().UTC(),
	}
	return true
}

// MarkFetched completes a fetch. It is only valid after Begin.
func (m *Manifest) MarkFetched(index int) {
	m.setStatus(index, models.StatusFetched)
}

// MarkFailed records a failed fetch. It is only valid after Begin.
func (m *Manifest) MarkFailed(index int) {
	m.setStatus(index, models.StatusFailed)
}

func (m *Manifest) setStatus(index int, status models.FetchStatus) {
	entry := m.entries[index]
	entry.Status = status
	entry.Timestamp = time.Now().UTC()
	m.entries[index] = entry
}

// Fetched returns all indices marked fetched, in ascending order.
func (m *Manifest) Fetched() []int {
	var indices []int
	for index, entry := range m.entries {
		if entry.Status == models.StatusFetched {
			indices = append(indices, index)
		}
	}
	sort.Ints(indices)
	return indices
}

// Len returns the number of tracked indices.
func (m *Manifest) Len() int {
	return len(m.entries)
}
