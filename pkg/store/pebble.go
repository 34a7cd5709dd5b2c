package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble"

	"suggestbox/pkg/logger"
	"suggestbox/pkg/models"
)

const suggestionPrefix = "suggestion:"

// PebbleBackend persists one key per suggestion in a Pebble database.
// Keys are "suggestion:<id>", values are the record JSON.
type PebbleBackend struct {
	db   *pebble.DB
	path string
}

// OpenPebble opens (or creates) a Pebble database at the given path.
func OpenPebble(path string) (*PebbleBackend, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, err
	}
	return &PebbleBackend{db: db, path: path}, nil
}

// Load returns all stored suggestions by iterating the suggestion prefix.
func (p *PebbleBackend) Load() ([]models.Suggestion, error) {
	prefix := []byte(suggestionPrefix)
	iter, err := p.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []models.Suggestion
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		var rec models.Suggestion
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			logger.Warn("pebble_malformed_record", "key", string(iter.Key()), "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, iter.Error()
}

// Save replaces the stored collection: every current record is written and
// records no longer present are deleted, in a single synced batch.
func (p *PebbleBackend) Save(recs []models.Suggestion) error {
	keep := make(map[string]struct{}, len(recs))
	b := p.db.NewBatch()
	defer b.Close()
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal suggestion %s: %w", rec.ID, err)
		}
		if err := b.Set([]byte(suggestionPrefix+rec.ID), data, nil); err != nil {
			return err
		}
		keep[rec.ID] = struct{}{}
	}

	prefix := []byte(suggestionPrefix)
	iter, err := p.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		id := strings.TrimPrefix(string(iter.Key()), suggestionPrefix)
		if _, ok := keep[id]; !ok {
			if err := b.Delete(append([]byte(nil), iter.Key()...), nil); err != nil {
				iter.Close()
				return err
			}
		}
	}
	if err := iter.Close(); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

// Close closes the underlying database.
func (p *PebbleBackend) Close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	if err == nil {
		logger.Info("pebble_closed", "path", p.path)
	}
	return err
}
