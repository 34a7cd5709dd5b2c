package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"suggestbox/pkg/models"
)

func newFileStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suggestions.json")
	return New(NewFileBackend(path)), path
}

func TestCreateThenListRoundTrip(t *testing.T) {
	st, _ := newFileStore(t)

	rec, err := st.Create("hello")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if rec.ID == "" || rec.CreatedAt == "" {
		t.Fatalf("create returned incomplete record: %+v", rec)
	}
	if rec.IsRead {
		t.Fatalf("new suggestion must start unread")
	}

	recs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Content != "hello" || recs[0].IsRead {
		t.Fatalf("unexpected record: %+v", recs[0])
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	st, _ := newFileStore(t)

	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		rec, err := st.Create("content")
		if err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			t.Fatalf("duplicate id %s after %d creates", rec.ID, i)
		}
		seen[rec.ID] = struct{}{}
	}
}

func TestUpdateTargetsOnlyMatchingRecord(t *testing.T) {
	st, _ := newFileStore(t)

	a, _ := st.Create("first")
	b, _ := st.Create("second")

	got, err := st.Update(b.ID, true)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !got.IsRead || got.ID != b.ID || got.Content != "second" || got.CreatedAt != b.CreatedAt {
		t.Fatalf("update mutated more than isRead: %+v", got)
	}

	recs, _ := st.List()
	for _, r := range recs {
		if r.ID == a.ID && r.IsRead {
			t.Fatalf("update touched an unrelated record")
		}
	}
}

func TestUpdateUnknownIDSignalsNotFound(t *testing.T) {
	st, _ := newFileStore(t)
	st.Create("keep me")

	if _, err := st.Update("nonexistent-id", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	recs, _ := st.List()
	if len(recs) != 1 || recs[0].IsRead {
		t.Fatalf("failed update changed store state: %+v", recs)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	st, _ := newFileStore(t)

	a, _ := st.Create("first")
	st.Create("second")

	if err := st.Delete(a.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := st.Delete(a.ID); err != nil {
		t.Fatalf("second delete must be a no-op, got %v", err)
	}
	if err := st.Delete("never-existed"); err != nil {
		t.Fatalf("deleting an unknown id must succeed, got %v", err)
	}

	recs, _ := st.List()
	if len(recs) != 1 || recs[0].Content != "second" {
		t.Fatalf("unexpected store state after deletes: %+v", recs)
	}
}

func TestFullLifecycle(t *testing.T) {
	st, _ := newFileStore(t)

	rec, err := st.Create("hello")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := st.Update(rec.ID, true); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	recs, _ := st.List()
	if len(recs) != 1 || !recs[0].IsRead {
		t.Fatalf("expected the record to be read: %+v", recs)
	}

	if err := st.Delete(rec.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	recs, _ = st.List()
	if len(recs) != 0 {
		t.Fatalf("expected empty store, got %+v", recs)
	}
}

func TestEmptyContentAccepted(t *testing.T) {
	st, _ := newFileStore(t)
	if _, err := st.Create(""); err != nil {
		t.Fatalf("empty content must be accepted: %v", err)
	}
}

func TestListOnFreshStoreIsEmpty(t *testing.T) {
	st, _ := newFileStore(t)
	recs, err := st.List()
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %+v", recs)
	}
}

func TestMalformedFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	st := New(NewFileBackend(path))
	recs, err := st.List()
	if err != nil {
		t.Fatalf("malformed file must read as empty, got %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %+v", recs)
	}
}

func TestFileDocumentLayout(t *testing.T) {
	st, path := newFileStore(t)
	st.Create("persisted")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	var doc struct {
		Suggestions []models.Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("data file is not the expected document: %v", err)
	}
	if len(doc.Suggestions) != 1 || doc.Suggestions[0].Content != "persisted" {
		t.Fatalf("unexpected document: %+v", doc)
	}

	// a second store over the same file sees the same data
	st2 := New(NewFileBackend(path))
	recs, err := st2.List()
	if err != nil || len(recs) != 1 {
		t.Fatalf("reopened store lost data: %v %+v", err, recs)
	}
}

func TestPebbleBackendRoundTrip(t *testing.T) {
	b, err := OpenPebble(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	st := New(b)
	defer st.Close()

	rec, err := st.Create("kv backed")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := st.Update(rec.ID, true); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	recs, err := st.List()
	if err != nil || len(recs) != 1 || !recs[0].IsRead {
		t.Fatalf("unexpected pebble state: %v %+v", err, recs)
	}
	if err := st.Delete(rec.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	recs, _ = st.List()
	if len(recs) != 0 {
		t.Fatalf("delete did not remove the record: %+v", recs)
	}
}
