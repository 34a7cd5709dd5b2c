package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"suggestbox/pkg/logger"
	"suggestbox/pkg/models"
	"suggestbox/pkg/utils"
)

// ErrNotFound is returned by Update when no record matches the given id.
var ErrNotFound = errors.New("suggestion not found")

// Backend persists the whole suggestion collection. Load must treat absent
// or unreadable data as "no data yet" and return an empty collection, not
// an error; Save replaces the stored collection.
type Backend interface {
	Load() ([]models.Suggestion, error)
	Save([]models.Suggestion) error
	Close() error
}

// Store owns the suggestion collection and serializes every operation
// through a single mutex, so concurrent in-process mutations cannot lose
// each other's writes. The backing data is still unguarded against a second
// process writing the same file; run one server per data path.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

// New returns a Store over the given persistence backend.
func New(b Backend) *Store {
	return &Store{backend: b}
}

// List returns all suggestions in storage order. An empty store yields an
// empty slice.
func (s *Store) List() ([]models.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.backend.Load()
	observeOp("list", err)
	if err != nil {
		return nil, fmt.Errorf("load suggestions: %w", err)
	}
	if recs == nil {
		recs = []models.Suggestion{}
	}
	return recs, nil
}

// Create appends a new suggestion with a fresh id, the current timestamp
// and isRead=false, persists the collection and returns the new record.
// Content is stored as given; empty content is accepted.
func (s *Store) Create(content string) (models.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.backend.Load()
	if err != nil {
		observeOp("create", err)
		return models.Suggestion{}, fmt.Errorf("load suggestions: %w", err)
	}
	rec := models.Suggestion{
		ID:        utils.GenID(),
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		IsRead:    false,
	}
	recs = append(recs, rec)
	err = s.backend.Save(recs)
	observeOp("create", err)
	if err != nil {
		return models.Suggestion{}, fmt.Errorf("persist suggestions: %w", err)
	}
	logger.Info("suggestion_created", "id", rec.ID, "content_len", len(rec.Content))
	return rec, nil
}

// Update flips the isRead flag of the suggestion with the given id and
// persists the collection. Unknown ids return ErrNotFound; content,
// createdAt and id are never touched.
func (s *Store) Update(id string, isRead bool) (models.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.backend.Load()
	if err != nil {
		observeOp("update", err)
		return models.Suggestion{}, fmt.Errorf("load suggestions: %w", err)
	}
	for i := range recs {
		if recs[i].ID == id {
			recs[i].IsRead = isRead
			err = s.backend.Save(recs)
			observeOp("update", err)
			if err != nil {
				return models.Suggestion{}, fmt.Errorf("persist suggestions: %w", err)
			}
			logger.Info("suggestion_updated", "id", id, "is_read", isRead)
			return recs[i], nil
		}
	}
	observeOp("update", ErrNotFound)
	return models.Suggestion{}, ErrNotFound
}

// Delete removes the suggestion with the given id if present. Absence is
// not an error; deleting twice leaves the store in the same state as
// deleting once.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.backend.Load()
	if err != nil {
		observeOp("delete", err)
		return fmt.Errorf("load suggestions: %w", err)
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(recs) {
		observeOp("delete", nil)
		return nil
	}
	err = s.backend.Save(kept)
	observeOp("delete", err)
	if err != nil {
		return fmt.Errorf("persist suggestions: %w", err)
	}
	logger.Info("suggestion_deleted", "id", id)
	return nil
}

// Close releases backend resources.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Close()
}
