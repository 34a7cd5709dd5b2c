package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"suggestbox/pkg/logger"
	"suggestbox/pkg/models"
)

// document is the on-disk layout: { "suggestions": [ ... ] }.
type document struct {
	Suggestions []models.Suggestion `json:"suggestions"`
}

// FileBackend persists the collection as a single JSON document, rewritten
// whole on every mutation. Good enough for the expected record counts; the
// write volume ceiling is documented in the store.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend writing to the given JSON file path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Load reads the backing file. A missing, unreadable or malformed file is
// treated as "no data yet".
func (f *FileBackend) Load() ([]models.Suggestion, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("suggestions_file_unreadable", "path", f.path, "error", err)
		}
		return nil, nil
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		logger.Warn("suggestions_file_malformed", "path", f.path, "error", err)
		return nil, nil
	}
	return doc.Suggestions, nil
}

// Save writes the full collection as an indented JSON document. The write
// goes through a temp file in the same directory plus a rename, so readers
// never observe a torn document.
func (f *FileBackend) Save(recs []models.Suggestion) error {
	if recs == nil {
		recs = []models.Suggestion{}
	}
	data, err := json.MarshalIndent(document{Suggestions: recs}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal suggestions: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".suggestions-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace suggestions file: %w", err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (f *FileBackend) Close() error { return nil }
