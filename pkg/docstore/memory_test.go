package docstore

import (
	"context"
	"errors"
	"testing"
	"time"
)

// snapshots collects subscription deliveries for assertions.
type snapshots struct {
	ch chan []Document
}

func newSnapshots() *snapshots {
	return &snapshots{ch: make(chan []Document, 64)}
}

func (s *snapshots) record(docs []Document) {
	s.ch <- docs
}

// waitFor returns the first snapshot satisfying match.
func (s *snapshots) waitFor(t *testing.T, match func([]Document) bool) []Document {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case docs := <-s.ch:
			if match(docs) {
				return docs
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
			return nil
		}
	}
}

func hasID(id string) func([]Document) bool {
	return func(docs []Document) bool {
		for _, d := range docs {
			if d.ID == id {
				return true
			}
		}
		return false
	}
}

func lacksID(id string) func([]Document) bool {
	return func(docs []Document) bool {
		return !hasID(id)(docs)
	}
}

func TestMemoryCreateMergeDelete(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewMemory()
	defer m.Close()

	path := CollectionPath("app", "feedback")
	snaps := newSnapshots()
	unsub, err := m.Subscribe(ctx, path, snaps.record, func(err error) {
		t.Errorf("unexpected subscription error: %v", err)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	// The initial snapshot is empty.
	snaps.waitFor(t, func(docs []Document) bool { return len(docs) == 0 })

	id, err := m.Create(ctx, path, map[string]any{"title": "a", "content": "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	snaps.waitFor(t, hasID(id))

	if err := m.Merge(ctx, path, id, map[string]any{"title": "new", "id": "other"}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	docs := snaps.waitFor(t, func(docs []Document) bool {
		return len(docs) == 1 && docs[0].Fields["title"] == "new"
	})
	if docs[0].Fields["content"] != "b" {
		t.Fatalf("merge lost content: %v", docs[0].Fields)
	}
	if _, ok := docs[0].Fields["id"]; ok {
		t.Fatalf("id must not be stored in fields")
	}

	if err := m.Delete(ctx, path, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	snaps.waitFor(t, lacksID(id))

	if err := m.Delete(ctx, path, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryCollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	a := CollectionPath("app", "events")
	b := CollectionPath("app", "feedback")
	id, err := m.Create(ctx, a, map[string]any{"title": "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.Get(ctx, b, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("document leaked across collections: %v", err)
	}
	if _, err := m.Get(ctx, a, id); err != nil {
		t.Fatalf("get: %v", err)
	}
}

func TestMemoryUnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	defer m.Close()

	path := CollectionPath("app", "events")
	snaps := newSnapshots()
	unsub, err := m.Subscribe(ctx, path, snaps.record, nil)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	snaps.waitFor(t, func([]Document) bool { return true })
	unsub()
	unsub()

	if _, err := m.Create(ctx, path, map[string]any{"title": "x"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	select {
	case docs := <-snaps.ch:
		t.Fatalf("unexpected snapshot after unsubscribe: %v", docs)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := m.Create(context.Background(), "x", nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := m.Subscribe(context.Background(), "x", nil, nil); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestCollectionPath(t *testing.T) {
	if got := CollectionPath("my-app", "lost-found"); got != "artifacts/my-app/public/data/lost-found" {
		t.Fatalf("CollectionPath = %q", got)
	}
	if _, err := cleanPath(" / "); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestMemoryRejectsEmptyID(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()
	if err := m.Merge(ctx, "x", "", map[string]any{"title": "t"}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("merge: expected ErrInvalidID, got %v", err)
	}
	if err := m.Delete(ctx, "x", ""); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("delete: expected ErrInvalidID, got %v", err)
	}
}
